package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/karnworkspace/taskflow/internal/api/dto"
	"github.com/karnworkspace/taskflow/internal/api/middleware"
	"github.com/karnworkspace/taskflow/internal/domain/dailyupdate"
	"github.com/karnworkspace/taskflow/internal/domain/task"
)

// DailyUpdateHandler handles HTTP requests for daily update operations
type DailyUpdateHandler struct {
	service dailyupdate.Service
}

// NewDailyUpdateHandler creates a new DailyUpdateHandler instance
func NewDailyUpdateHandler(service dailyupdate.Service) *DailyUpdateHandler {
	return &DailyUpdateHandler{service: service}
}

// CreateUpdate godoc
// @Summary Post a daily progress update for a task
// @Description Allowed for the task assignee, creator, and project owner.
// Date defaults to the current day, status to the task's current status.
// @Tags daily-updates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID" format(uuid)
// @Param body body dto.CreateDailyUpdateRequest true "Update"
// @Success 201 {object} dto.Response "Update created"
// @Failure 403 {object} dto.Response "Caller may not report on this task"
// @Router /api/v1/tasks/{id}/updates [post]
func (h *DailyUpdateHandler) CreateUpdate(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, dto.FailMessage("user not authenticated"))
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.FailMessage("invalid task ID"))
		return
	}

	var req dto.CreateDailyUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(err))
		return
	}

	var date time.Time
	if req.Date != nil {
		date = *req.Date
	}

	created, err := h.service.CreateUpdate(c.Request.Context(), dailyupdate.CreateUpdateInput{
		TaskID:   taskID,
		AuthorID: userID,
		Date:     date,
		Progress: req.Progress,
		Status:   task.Status(req.Status),
		Notes:    req.Notes,
	})
	if err != nil {
		c.JSON(dailyUpdateErrStatus(err), dto.Fail(err))
		return
	}

	c.JSON(http.StatusCreated, dto.OK(dto.DailyUpdateToResponse(created)))
}

// ListUpdates godoc
// @Summary List the daily updates of a task
// @Tags daily-updates
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID" format(uuid)
// @Success 200 {object} dto.PaginatedResponse "Updates, newest first"
// @Router /api/v1/tasks/{id}/updates [get]
func (h *DailyUpdateHandler) ListUpdates(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.FailMessage("invalid task ID"))
		return
	}

	page, limit := dto.PageParams(c)
	updates, total, err := h.service.ListByTask(c.Request.Context(), taskID, page, limit)
	if err != nil {
		c.JSON(dailyUpdateErrStatus(err), dto.Fail(err))
		return
	}

	c.JSON(http.StatusOK, dto.Paginated(dto.DailyUpdatesToResponse(updates), page, limit, total))
}

// DeleteUpdate godoc
// @Summary Delete a daily update
// @Description Only the author may delete. Deleting an absent update
// succeeds with deleted=false.
// @Tags daily-updates
// @Produce json
// @Security BearerAuth
// @Param id path string true "Update ID" format(uuid)
// @Success 200 {object} dto.Response "Deletion outcome"
// @Router /api/v1/updates/{id} [delete]
func (h *DailyUpdateHandler) DeleteUpdate(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, dto.FailMessage("user not authenticated"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.FailMessage("invalid update ID"))
		return
	}

	deleted, err := h.service.DeleteUpdate(c.Request.Context(), id, userID)
	if err != nil {
		c.JSON(dailyUpdateErrStatus(err), dto.Fail(err))
		return
	}

	c.JSON(http.StatusOK, dto.OK(gin.H{"deleted": deleted}))
}

func dailyUpdateErrStatus(err error) int {
	switch {
	case errors.Is(err, dailyupdate.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, dailyupdate.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, dailyupdate.ErrUpdateNotFound), errors.Is(err, task.ErrTaskNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
