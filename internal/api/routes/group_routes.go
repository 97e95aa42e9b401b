package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/karnworkspace/taskflow/internal/api/handlers"
	"github.com/karnworkspace/taskflow/internal/api/middleware"
)

// GroupRoutes handles the setup of group routes
type GroupRoutes struct {
	handler   *handlers.GroupHandler
	jwtSecret string
}

// NewGroupRoutes creates a new GroupRoutes instance
func NewGroupRoutes(handler *handlers.GroupHandler, jwtSecret string) *GroupRoutes {
	return &GroupRoutes{handler: handler, jwtSecret: jwtSecret}
}

// RegisterRoutes registers all group routes
func (r *GroupRoutes) RegisterRoutes(router *gin.Engine) {
	groups := router.Group("/api/v1/groups")
	groups.Use(middleware.NewAuthMiddleware(r.jwtSecret))

	groups.POST("", r.handler.CreateGroup)
	groups.GET("", r.handler.ListGroups)
	groups.GET("/:id", r.handler.GetGroup)
	groups.PUT("/:id", r.handler.UpdateGroup)
	groups.DELETE("/:id", r.handler.DeleteGroup)

	groups.POST("/:id/users", r.handler.AddGroupUser)
	groups.GET("/:id/users", r.handler.ListGroupUsers)
	groups.DELETE("/:id/users/:userId", r.handler.RemoveGroupUser)

	groups.POST("/:id/projects", r.handler.AddGroupProject)
	groups.GET("/:id/projects", r.handler.ListGroupProjects)
	groups.DELETE("/:id/projects/:projectId", r.handler.RemoveGroupProject)
}
