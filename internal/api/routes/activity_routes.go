package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/karnworkspace/taskflow/internal/api/handlers"
	"github.com/karnworkspace/taskflow/internal/api/middleware"
)

// ActivityRoutes handles the setup of activity log routes
type ActivityRoutes struct {
	handler   *handlers.ActivityHandler
	jwtSecret string
}

// NewActivityRoutes creates a new ActivityRoutes instance
func NewActivityRoutes(handler *handlers.ActivityHandler, jwtSecret string) *ActivityRoutes {
	return &ActivityRoutes{handler: handler, jwtSecret: jwtSecret}
}

// RegisterRoutes registers all activity log routes
func (r *ActivityRoutes) RegisterRoutes(router *gin.Engine) {
	activity := router.Group("/api/v1/activity")
	activity.Use(middleware.NewAuthMiddleware(r.jwtSecret))

	activity.GET("", r.handler.ListActivity)
}
