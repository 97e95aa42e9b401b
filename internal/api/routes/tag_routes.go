package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/karnworkspace/taskflow/internal/api/handlers"
	"github.com/karnworkspace/taskflow/internal/api/middleware"
)

// TagRoutes handles the setup of tag routes
type TagRoutes struct {
	handler   *handlers.TagHandler
	jwtSecret string
}

// NewTagRoutes creates a new TagRoutes instance
func NewTagRoutes(handler *handlers.TagHandler, jwtSecret string) *TagRoutes {
	return &TagRoutes{handler: handler, jwtSecret: jwtSecret}
}

// RegisterRoutes registers all tag routes
func (r *TagRoutes) RegisterRoutes(router *gin.Engine) {
	tags := router.Group("/api/v1/tags")
	tags.Use(middleware.NewAuthMiddleware(r.jwtSecret))

	tags.POST("", r.handler.CreateTag)
	tags.GET("", r.handler.ListTags)
	tags.PUT("/:id", r.handler.UpdateTag)
	tags.DELETE("/:id", r.handler.DeleteTag)

	tasks := router.Group("/api/v1/tasks")
	tasks.Use(middleware.NewAuthMiddleware(r.jwtSecret))
	tasks.GET("/:id/tags", r.handler.ListTaskTags)
	tasks.POST("/:id/tags/:tagId", r.handler.TagTask)
	tasks.DELETE("/:id/tags/:tagId", r.handler.UntagTask)
}
