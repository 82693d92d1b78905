package routes

import (
	"github.com/gin-gonic/gin"

	"sqlgenie/internal/handlers"
	"sqlgenie/internal/middlewares"
)

type UserRoutes struct {
	handler *handlers.UserHandler
}

func NewUserRoutes(handler *handlers.UserHandler) *UserRoutes {
	return &UserRoutes{handler: handler}
}

func (r *UserRoutes) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	users.Use(middlewares.Authenticate)
	{
		users.GET("/me", r.handler.GetMe)
	}
}
