package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/karnworkspace/taskflow/internal/api/handlers"
	"github.com/karnworkspace/taskflow/internal/api/middleware"
)

// TaskRoutes handles the setup of task routes
type TaskRoutes struct {
	handler   *handlers.TaskHandler
	jwtSecret string
}

// NewTaskRoutes creates a new TaskRoutes instance
func NewTaskRoutes(handler *handlers.TaskHandler, jwtSecret string) *TaskRoutes {
	return &TaskRoutes{handler: handler, jwtSecret: jwtSecret}
}

// RegisterRoutes registers all task routes
func (r *TaskRoutes) RegisterRoutes(router *gin.Engine) {
	// Task creation and listing live under their project.
	projects := router.Group("/api/v1/projects")
	projects.Use(middleware.NewAuthMiddleware(r.jwtSecret))
	projects.POST("/:id/tasks", r.handler.CreateTask)
	projects.GET("/:id/tasks", r.handler.ListProjectTasks)

	tasks := router.Group("/api/v1/tasks")
	tasks.Use(middleware.NewAuthMiddleware(r.jwtSecret))

	tasks.GET("/my", r.handler.GetMyTasks)
	tasks.GET("/stats", r.handler.GetTaskStats)
	tasks.GET("/:id", r.handler.GetTask)
	tasks.PUT("/:id", r.handler.UpdateTask)
	tasks.PATCH("/:id/status", r.handler.UpdateTaskStatus)
	tasks.DELETE("/:id", r.handler.DeleteTask)
}
