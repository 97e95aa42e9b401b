package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/karnworkspace/taskflow/internal/api/dto"
	"github.com/karnworkspace/taskflow/internal/domain/activity"
)

// ActivityHandler handles HTTP requests for activity log queries
type ActivityHandler struct {
	service activity.Service
}

// NewActivityHandler creates a new ActivityHandler instance
func NewActivityHandler(service activity.Service) *ActivityHandler {
	return &ActivityHandler{service: service}
}

// ListActivity godoc
// @Summary List activity log entries
// @Tags activity
// @Produce json
// @Security BearerAuth
// @Param user_id query string false "Filter by actor" format(uuid)
// @Param project_id query string false "Filter by project" format(uuid)
// @Param task_id query string false "Filter by task" format(uuid)
// @Param action query string false "Filter by action"
// @Success 200 {object} dto.PaginatedResponse "Entries, newest first"
// @Router /api/v1/activity [get]
func (h *ActivityHandler) ListActivity(c *gin.Context) {
	page, limit := dto.PageParams(c)
	filter := activity.Filter{Page: page, PageSize: limit}

	if raw := c.Query("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.FailMessage("invalid user ID"))
			return
		}
		filter.UserID = &id
	}
	if raw := c.Query("project_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.FailMessage("invalid project ID"))
			return
		}
		filter.ProjectID = &id
	}
	if raw := c.Query("task_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.FailMessage("invalid task ID"))
			return
		}
		filter.TaskID = &id
	}
	if raw := c.Query("action"); raw != "" {
		a := activity.Action(raw)
		if !a.IsValid() {
			c.JSON(http.StatusBadRequest, dto.FailMessage("invalid action value"))
			return
		}
		filter.Action = &a
	}
	if raw := c.Query("entity_type"); raw != "" {
		filter.EntityType = &raw
	}

	logs, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.Fail(err))
		return
	}

	c.JSON(http.StatusOK, dto.Paginated(dto.ActivitiesToResponse(logs), page, limit, total))
}
