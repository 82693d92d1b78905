package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sqlgenie/internal/responses"
	"sqlgenie/internal/services"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetMe handles GET /api/v1/users/me
func (h *UserHandler) GetMe(c *gin.Context) {
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

	user, err := h.userService.GetUser(c.Request.Context(), userUUID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			responses.Fail(c, http.StatusNotFound, err, "User not found")
			return
		}
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to retrieve user")
		return
	}

	responses.Success(c, http.StatusOK, user, "User retrieved successfully")
}
