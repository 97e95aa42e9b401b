package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/karnworkspace/taskflow/internal/api/handlers"
	"github.com/karnworkspace/taskflow/internal/api/middleware"
)

// UserRoutes handles the setup of user routes
type UserRoutes struct {
	handler   *handlers.UserHandler
	jwtSecret string
}

// NewUserRoutes creates a new UserRoutes instance
func NewUserRoutes(handler *handlers.UserHandler, jwtSecret string) *UserRoutes {
	return &UserRoutes{handler: handler, jwtSecret: jwtSecret}
}

// RegisterRoutes registers all user routes
func (r *UserRoutes) RegisterRoutes(router *gin.Engine) {
	users := router.Group("/api/v1/users")
	users.Use(middleware.NewAuthMiddleware(r.jwtSecret))

	users.GET("", r.handler.ListUsers)
	users.GET("/:id", r.handler.GetUser)
}
