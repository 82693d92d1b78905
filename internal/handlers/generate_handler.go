package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sqlgenie/internal/responses"
	"sqlgenie/internal/services"
	"sqlgenie/internal/synthesizer"
)

type GenerateHandler struct {
	generateService *services.GenerateService
}

func NewGenerateHandler(generateService *services.GenerateService) *GenerateHandler {
	return &GenerateHandler{generateService: generateService}
}

// GenerateSQL turns an ER diagram plus a free-text description into SQL.
// Anonymous callers are served too; history is recorded only for
// authenticated ones.
func (h *GenerateHandler) GenerateSQL(c *gin.Context) {
	var req struct {
		ERDiagramData    *synthesizer.Graph `json:"erDiagramData"    binding:"required"`
		QueryDescription string             `json:"queryDescription" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Missing required data: erDiagramData and queryDescription")
		return
	}

	var userID *uuid.UUID
	if id, exists := c.Get("userId"); exists {
		if parsed, ok := id.(uuid.UUID); ok {
			userID = &parsed
		}
	}

	sql, source := h.generateService.GenerateSQL(c.Request.Context(), userID, *req.ERDiagramData, req.QueryDescription)

	responses.Success(c, http.StatusOK, gin.H{
		"sql":    sql,
		"source": source,
	}, "SQL generated successfully")
}

// GetQueryHistory returns the caller's generated queries, newest first.
func (h *GenerateHandler) GetQueryHistory(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		responses.Fail(c, http.StatusUnauthorized, nil, "Unauthorized")
		return
	}
	userUUID, ok := userID.(uuid.UUID)
	if !ok {
		responses.Fail(c, http.StatusInternalServerError, nil, "Invalid userId format")
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			responses.Fail(c, http.StatusBadRequest, err, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	history, err := h.generateService.GetHistory(c.Request.Context(), userUUID, limit)
	if err != nil {
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to retrieve query history")
		return
	}

	responses.Success(c, http.StatusOK, history, "Query history retrieved successfully")
}
