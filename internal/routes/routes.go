package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sqlgenie/internal/handlers"
	"sqlgenie/internal/middlewares"
)

func RegisterRoutes(router *gin.Engine, authHandler *handlers.AuthHandler, userHandler *handlers.UserHandler, generateHandler *handlers.GenerateHandler, limiter *middlewares.RateLimiter) {
	api := router.Group("/api/v1")

	authRoutes := NewAuthRoutes(authHandler)
	authRoutes.RegisterRoutes(api)

	userRoutes := NewUserRoutes(userHandler)
	userRoutes.RegisterRoutes(api)

	generateRoutes := NewGenerateRoutes(generateHandler, limiter)
	generateRoutes.RegisterRoutes(api)

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Backend server is running",
		})
	})
}
