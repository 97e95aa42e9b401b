package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/karnworkspace/taskflow/internal/api/handlers"
	"github.com/karnworkspace/taskflow/internal/api/middleware"
)

// DailyUpdateRoutes handles the setup of daily update routes
type DailyUpdateRoutes struct {
	handler   *handlers.DailyUpdateHandler
	jwtSecret string
}

// NewDailyUpdateRoutes creates a new DailyUpdateRoutes instance
func NewDailyUpdateRoutes(handler *handlers.DailyUpdateHandler, jwtSecret string) *DailyUpdateRoutes {
	return &DailyUpdateRoutes{handler: handler, jwtSecret: jwtSecret}
}

// RegisterRoutes registers all daily update routes
func (r *DailyUpdateRoutes) RegisterRoutes(router *gin.Engine) {
	tasks := router.Group("/api/v1/tasks")
	tasks.Use(middleware.NewAuthMiddleware(r.jwtSecret))
	tasks.POST("/:id/updates", r.handler.CreateUpdate)
	tasks.GET("/:id/updates", r.handler.ListUpdates)

	updates := router.Group("/api/v1/updates")
	updates.Use(middleware.NewAuthMiddleware(r.jwtSecret))
	updates.DELETE("/:id", r.handler.DeleteUpdate)
}
