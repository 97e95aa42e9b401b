package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/karnworkspace/taskflow/internal/api/handlers"
	"github.com/karnworkspace/taskflow/internal/api/middleware"
)

// ProjectRoutes handles the setup of project routes
type ProjectRoutes struct {
	handler   *handlers.ProjectHandler
	jwtSecret string
}

// NewProjectRoutes creates a new ProjectRoutes instance
func NewProjectRoutes(handler *handlers.ProjectHandler, jwtSecret string) *ProjectRoutes {
	return &ProjectRoutes{handler: handler, jwtSecret: jwtSecret}
}

// RegisterRoutes registers all project routes
func (r *ProjectRoutes) RegisterRoutes(router *gin.Engine) {
	projects := router.Group("/api/v1/projects")
	projects.Use(middleware.NewAuthMiddleware(r.jwtSecret))

	projects.POST("", r.handler.CreateProject)
	projects.GET("", r.handler.ListProjects)
	projects.GET("/:id", r.handler.GetProject)
	projects.PUT("/:id", r.handler.UpdateProject)
	projects.DELETE("/:id", r.handler.DeleteProject)

	projects.GET("/:id/members", r.handler.ListMembers)
	projects.POST("/:id/members", r.handler.AddMember)
	projects.PUT("/:id/members/:userId", r.handler.ChangeMemberRole)
	projects.DELETE("/:id/members/:userId", r.handler.RemoveMember)
}
