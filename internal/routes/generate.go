package routes

import (
	"github.com/gin-gonic/gin"

	"sqlgenie/internal/handlers"
	"sqlgenie/internal/middlewares"
)

type GenerateRoutes struct {
	handler *handlers.GenerateHandler
	limiter *middlewares.RateLimiter
}

func NewGenerateRoutes(handler *handlers.GenerateHandler, limiter *middlewares.RateLimiter) *GenerateRoutes {
	return &GenerateRoutes{handler: handler, limiter: limiter}
}

func (r *GenerateRoutes) RegisterRoutes(router *gin.RouterGroup) {
	// Generation is open to anonymous callers but rate limited; history
	// recording kicks in when a valid token is attached.
	router.POST("/generate-sql", r.limiter.Middleware, middlewares.AuthenticateOptional, r.handler.GenerateSQL)

	queries := router.Group("/queries")
	queries.Use(middlewares.Authenticate)
	{
		queries.GET("/history", r.handler.GetQueryHistory)
	}
}
