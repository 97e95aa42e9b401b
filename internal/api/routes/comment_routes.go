package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/karnworkspace/taskflow/internal/api/handlers"
	"github.com/karnworkspace/taskflow/internal/api/middleware"
)

// CommentRoutes handles the setup of comment routes
type CommentRoutes struct {
	handler   *handlers.CommentHandler
	jwtSecret string
}

// NewCommentRoutes creates a new CommentRoutes instance
func NewCommentRoutes(handler *handlers.CommentHandler, jwtSecret string) *CommentRoutes {
	return &CommentRoutes{handler: handler, jwtSecret: jwtSecret}
}

// RegisterRoutes registers all comment routes
func (r *CommentRoutes) RegisterRoutes(router *gin.Engine) {
	tasks := router.Group("/api/v1/tasks")
	tasks.Use(middleware.NewAuthMiddleware(r.jwtSecret))
	tasks.POST("/:id/comments", r.handler.CreateComment)
	tasks.GET("/:id/comments", r.handler.ListComments)

	comments := router.Group("/api/v1/comments")
	comments.Use(middleware.NewAuthMiddleware(r.jwtSecret))
	comments.PUT("/:id", r.handler.UpdateComment)
	comments.DELETE("/:id", r.handler.DeleteComment)
}
