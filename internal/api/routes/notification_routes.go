package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/karnworkspace/taskflow/internal/api/handlers"
	"github.com/karnworkspace/taskflow/internal/api/middleware"
)

// NotificationRoutes handles the setup of notification routes
type NotificationRoutes struct {
	handler   *handlers.NotificationHandler
	jwtSecret string
}

// NewNotificationRoutes creates a new NotificationRoutes instance
func NewNotificationRoutes(handler *handlers.NotificationHandler, jwtSecret string) *NotificationRoutes {
	return &NotificationRoutes{handler: handler, jwtSecret: jwtSecret}
}

// RegisterRoutes registers all notification routes
func (r *NotificationRoutes) RegisterRoutes(router *gin.Engine) {
	notifications := router.Group("/api/v1/notifications")
	notifications.Use(middleware.NewAuthMiddleware(r.jwtSecret))

	notifications.POST("", r.handler.CreateNotification)
	notifications.GET("", r.handler.ListNotifications)
	notifications.GET("/unread-count", r.handler.UnreadCount)
	notifications.PUT("/read-all", r.handler.MarkAllRead)
	notifications.PUT("/:id/read", r.handler.MarkRead)
	notifications.DELETE("/:id", r.handler.DeleteNotification)
}
