package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/karnworkspace/taskflow/internal/api/dto"
	"github.com/karnworkspace/taskflow/internal/api/middleware"
	"github.com/karnworkspace/taskflow/internal/domain/project"
	"github.com/karnworkspace/taskflow/internal/domain/task"
	"github.com/karnworkspace/taskflow/internal/infrastructure/cache"
)

const statsCacheTTL = 5 * time.Minute

// TaskHandler handles HTTP requests for task operations
type TaskHandler struct {
	service task.Service
	cache   *cache.RedisClient
}

// NewTaskHandler creates a new TaskHandler instance. The cache may be nil,
// in which case stats are computed on every request.
func NewTaskHandler(service task.Service, cacheClient *cache.RedisClient) *TaskHandler {
	return &TaskHandler{service: service, cache: cacheClient}
}

// CreateTask godoc
// @Summary Create a task in a project
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID" format(uuid)
// @Param body body dto.CreateTaskRequest true "Task creation request"
// @Success 201 {object} dto.Response "Task created"
// @Failure 400 {object} dto.Response "Invalid request"
// @Failure 404 {object} dto.Response "Project not found"
// @Router /api/v1/projects/{id}/tasks [post]
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, dto.FailMessage("user not authenticated"))
		return
	}

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.FailMessage("invalid project ID"))
		return
	}

	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(err))
		return
	}

	created, err := h.service.CreateTask(c.Request.Context(), task.CreateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		Status:       task.Status(req.Status),
		Priority:     task.Priority(req.Priority),
		ProjectID:    projectID,
		AssigneeID:   req.AssigneeID,
		ParentTaskID: req.ParentTaskID,
		StartDate:    req.StartDate,
		DueDate:      req.DueDate,
		CreatorID:    userID,
	})
	if err != nil {
		c.JSON(taskErrStatus(err), dto.Fail(err))
		return
	}

	h.invalidateStats(c, created.ProjectID)
	c.JSON(http.StatusCreated, dto.OK(dto.TaskToResponse(created)))
}

// ListProjectTasks godoc
// @Summary List the tasks of a project
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID" format(uuid)
// @Param status query string false "Filter by status"
// @Param priority query string false "Filter by priority"
// @Param assignee_id query string false "Filter by assignee" format(uuid)
// @Param due_date_from query string false "Due on or after" format(date-time)
// @Param due_date_to query string false "Due before" format(date-time)
// @Success 200 {object} dto.PaginatedResponse "Tasks"
// @Router /api/v1/projects/{id}/tasks [get]
func (h *TaskHandler) ListProjectTasks(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.FailMessage("invalid project ID"))
		return
	}

	page, limit := dto.PageParams(c)
	filter := task.Filter{ProjectID: &projectID, Page: page, PageSize: limit}
	if !h.applyTaskFilters(c, &filter) {
		return
	}

	tasks, total, err := h.service.ListTasks(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.Fail(err))
		return
	}

	c.JSON(http.StatusOK, dto.Paginated(dto.TasksToResponse(tasks), page, limit, total))
}

// GetMyTasks godoc
// @Summary List tasks assigned to or created by the caller
// @Description Results are ordered for triage: nearest due date first with
// undated tasks last, then priority descending, then newest first.
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Success 200 {object} dto.PaginatedResponse "Tasks"
// @Router /api/v1/tasks/my [get]
func (h *TaskHandler) GetMyTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, dto.FailMessage("user not authenticated"))
		return
	}

	page, limit := dto.PageParams(c)
	filter := task.Filter{Page: page, PageSize: limit}
	if !h.applyTaskFilters(c, &filter) {
		return
	}

	tasks, total, err := h.service.GetMyTasks(c.Request.Context(), userID, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.Fail(err))
		return
	}

	c.JSON(http.StatusOK, dto.Paginated(dto.TasksToResponse(tasks), page, limit, total))
}

// GetTask godoc
// @Summary Get a task by ID
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID" format(uuid)
// @Success 200 {object} dto.Response "Task"
// @Failure 404 {object} dto.Response "Task not found"
// @Router /api/v1/tasks/{id} [get]
func (h *TaskHandler) GetTask(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.FailMessage("invalid task ID"))
		return
	}

	t, err := h.service.GetTask(c.Request.Context(), id)
	if err != nil {
		c.JSON(taskErrStatus(err), dto.Fail(err))
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.TaskToResponse(t)))
}

// UpdateTask godoc
// @Summary Update a task
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID" format(uuid)
// @Param body body dto.UpdateTaskRequest true "Fields to update"
// @Success 200 {object} dto.Response "Updated task"
// @Failure 403 {object} dto.Response "Caller may not modify this task"
// @Router /api/v1/tasks/{id} [put]
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, dto.FailMessage("user not authenticated"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.FailMessage("invalid task ID"))
		return
	}

	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(err))
		return
	}

	input := task.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		AssigneeID:  req.AssigneeID,
		StartDate:   req.StartDate,
		DueDate:     req.DueDate,
		Progress:    req.Progress,
	}
	if req.Priority != nil {
		p := task.Priority(*req.Priority)
		if !p.IsValid() {
			c.JSON(http.StatusBadRequest, dto.FailMessage("invalid priority value"))
			return
		}
		input.Priority = &p
	}

	updated, err := h.service.UpdateTask(c.Request.Context(), id, input, userID)
	if err != nil {
		c.JSON(taskErrStatus(err), dto.Fail(err))
		return
	}

	h.invalidateStats(c, updated.ProjectID)
	c.JSON(http.StatusOK, dto.OK(dto.TaskToResponse(updated)))
}

// UpdateTaskStatus godoc
// @Summary Move a task to a new status
// @Description Completing a task notifies its creator and records the
// transition in the activity log.
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID" format(uuid)
// @Param body body dto.UpdateTaskStatusRequest true "New status and progress"
// @Success 200 {object} dto.Response "Updated task"
// @Router /api/v1/tasks/{id}/status [patch]
func (h *TaskHandler) UpdateTaskStatus(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, dto.FailMessage("user not authenticated"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.FailMessage("invalid task ID"))
		return
	}

	var req dto.UpdateTaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(err))
		return
	}

	updated, err := h.service.UpdateTaskStatus(c.Request.Context(), id, task.Status(req.Status), req.Progress, userID)
	if err != nil {
		c.JSON(taskErrStatus(err), dto.Fail(err))
		return
	}

	h.invalidateStats(c, updated.ProjectID)
	c.JSON(http.StatusOK, dto.OK(dto.TaskToResponse(updated)))
}

// DeleteTask godoc
// @Summary Delete a task
// @Description Deleting an already-absent task succeeds with deleted=false
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID" format(uuid)
// @Success 200 {object} dto.Response "Deletion outcome"
// @Router /api/v1/tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, dto.FailMessage("user not authenticated"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.FailMessage("invalid task ID"))
		return
	}

	deleted, err := h.service.DeleteTask(c.Request.Context(), id, userID)
	if err != nil {
		c.JSON(taskErrStatus(err), dto.Fail(err))
		return
	}

	if deleted && h.cache != nil {
		h.cache.InvalidateProjectStats(c.Request.Context(), nil)
	}
	c.JSON(http.StatusOK, dto.OK(gin.H{"deleted": deleted}))
}

// GetTaskStats godoc
// @Summary Get task counts grouped by status
// @Description Totals cover the tracked statuses; completion rate is the
// percentage of tracked tasks that are DONE. Results are cached briefly.
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param project_id query string false "Scope stats to one project" format(uuid)
// @Success 200 {object} dto.Response "Stats"
// @Router /api/v1/tasks/stats [get]
func (h *TaskHandler) GetTaskStats(c *gin.Context) {
	var projectID *uuid.UUID
	if raw := c.Query("project_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.FailMessage("invalid project ID"))
			return
		}
		projectID = &id
	}

	compute := func() (interface{}, error) {
		stats, err := h.service.GetTaskStats(c.Request.Context(), projectID)
		if err != nil {
			return nil, err
		}
		return dto.StatsToResponse(stats), nil
	}

	if h.cache == nil || !h.cache.IsHealthy() {
		resp, err := compute()
		if err != nil {
			c.JSON(http.StatusInternalServerError, dto.Fail(err))
			return
		}
		c.JSON(http.StatusOK, dto.OK(resp))
		return
	}

	var out dto.TaskStatsResponse
	resp, err := h.cache.CacheResponse(c.Request.Context(), cache.StatsKey(projectID), statsCacheTTL, &out, compute)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.Fail(err))
		return
	}

	c.JSON(http.StatusOK, dto.OK(resp))
}

func (h *TaskHandler) applyTaskFilters(c *gin.Context, filter *task.Filter) bool {
	if status := c.Query("status"); status != "" {
		s := task.Status(status)
		if !s.IsValid() {
			c.JSON(http.StatusBadRequest, dto.FailMessage("invalid status value"))
			return false
		}
		filter.Status = &s
	}
	if priority := c.Query("priority"); priority != "" {
		p := task.Priority(priority)
		if !p.IsValid() {
			c.JSON(http.StatusBadRequest, dto.FailMessage("invalid priority value"))
			return false
		}
		filter.Priority = &p
	}
	if assignee := c.Query("assignee_id"); assignee != "" {
		id, err := uuid.Parse(assignee)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.FailMessage("invalid assignee ID"))
			return false
		}
		filter.AssigneeID = &id
	}
	if from := c.Query("due_date_from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.FailMessage("invalid due_date_from, expected RFC3339"))
			return false
		}
		filter.DueDateFrom = &t
	}
	if to := c.Query("due_date_to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.FailMessage("invalid due_date_to, expected RFC3339"))
			return false
		}
		filter.DueDateTo = &t
	}
	return true
}

func (h *TaskHandler) invalidateStats(c *gin.Context, projectID uuid.UUID) {
	if h.cache == nil {
		return
	}
	h.cache.InvalidateProjectStats(c.Request.Context(), &projectID)
}

func taskErrStatus(err error) int {
	switch {
	case errors.Is(err, task.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, task.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, task.ErrTaskNotFound), errors.Is(err, project.ErrProjectNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
