package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/karnworkspace/taskflow/internal/api/dto"
	"github.com/karnworkspace/taskflow/internal/domain/tag"
	"github.com/karnworkspace/taskflow/internal/domain/task"
)

// TagHandler handles HTTP requests for tag operations
type TagHandler struct {
	service tag.Service
}

// NewTagHandler creates a new TagHandler instance
func NewTagHandler(service tag.Service) *TagHandler {
	return &TagHandler{service: service}
}

// CreateTag godoc
// @Summary Create a tag
// @Tags tags
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateTagRequest true "Tag"
// @Success 201 {object} dto.Response "Tag created"
// @Failure 409 {object} dto.Response "Tag name already exists"
// @Router /api/v1/tags [post]
func (h *TagHandler) CreateTag(c *gin.Context) {
	var req dto.CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(err))
		return
	}

	created, err := h.service.CreateTag(c.Request.Context(), tag.CreateTagInput{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		c.JSON(tagErrStatus(err), dto.Fail(err))
		return
	}

	c.JSON(http.StatusCreated, dto.OK(dto.TagToResponse(created)))
}

// ListTags godoc
// @Summary List tags
// @Tags tags
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.PaginatedResponse "Tags"
// @Router /api/v1/tags [get]
func (h *TagHandler) ListTags(c *gin.Context) {
	page, limit := dto.PageParams(c)

	tags, total, err := h.service.ListTags(c.Request.Context(), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.Fail(err))
		return
	}

	c.JSON(http.StatusOK, dto.Paginated(dto.TagsToResponse(tags), page, limit, total))
}

// UpdateTag godoc
// @Summary Update a tag
// @Tags tags
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Tag ID" format(uuid)
// @Param body body dto.UpdateTagRequest true "Fields to update"
// @Success 200 {object} dto.Response "Updated tag"
// @Router /api/v1/tags/{id} [put]
func (h *TagHandler) UpdateTag(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.FailMessage("invalid tag ID"))
		return
	}

	var req dto.UpdateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(err))
		return
	}

	updated, err := h.service.UpdateTag(c.Request.Context(), id, tag.UpdateTagInput{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		c.JSON(tagErrStatus(err), dto.Fail(err))
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.TagToResponse(updated)))
}

// DeleteTag godoc
// @Summary Delete a tag and its task associations
// @Tags tags
// @Produce json
// @Security BearerAuth
// @Param id path string true "Tag ID" format(uuid)
// @Success 200 {object} dto.Response "Deletion outcome"
// @Router /api/v1/tags/{id} [delete]
func (h *TagHandler) DeleteTag(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.FailMessage("invalid tag ID"))
		return
	}

	deleted, err := h.service.DeleteTag(c.Request.Context(), id)
	if err != nil {
		c.JSON(tagErrStatus(err), dto.Fail(err))
		return
	}

	c.JSON(http.StatusOK, dto.OK(gin.H{"deleted": deleted}))
}

// TagTask godoc
// @Summary Attach a tag to a task
// @Description Attaching an already-attached tag is a no-op.
// @Tags tags
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID" format(uuid)
// @Param tagId path string true "Tag ID" format(uuid)
// @Success 200 {object} dto.Response "Tag attached"
// @Router /api/v1/tasks/{id}/tags/{tagId} [post]
func (h *TagHandler) TagTask(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.FailMessage("invalid task ID"))
		return
	}
	tagID, err := uuid.Parse(c.Param("tagId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.FailMessage("invalid tag ID"))
		return
	}

	if err := h.service.TagTask(c.Request.Context(), taskID, tagID); err != nil {
		c.JSON(tagErrStatus(err), dto.Fail(err))
		return
	}

	c.JSON(http.StatusOK, dto.OKMessage("tag attached"))
}

// UntagTask godoc
// @Summary Detach a tag from a task
// @Tags tags
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID" format(uuid)
// @Param tagId path string true "Tag ID" format(uuid)
// @Success 200 {object} dto.Response "Tag detached"
// @Failure 404 {object} dto.Response "Task does not carry this tag"
// @Router /api/v1/tasks/{id}/tags/{tagId} [delete]
func (h *TagHandler) UntagTask(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.FailMessage("invalid task ID"))
		return
	}
	tagID, err := uuid.Parse(c.Param("tagId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.FailMessage("invalid tag ID"))
		return
	}

	if err := h.service.UntagTask(c.Request.Context(), taskID, tagID); err != nil {
		c.JSON(tagErrStatus(err), dto.Fail(err))
		return
	}

	c.JSON(http.StatusOK, dto.OKMessage("tag detached"))
}

// ListTaskTags godoc
// @Summary List the tags of a task
// @Tags tags
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID" format(uuid)
// @Success 200 {object} dto.Response "Tags"
// @Router /api/v1/tasks/{id}/tags [get]
func (h *TagHandler) ListTaskTags(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.FailMessage("invalid task ID"))
		return
	}

	tags, err := h.service.ListByTask(c.Request.Context(), taskID)
	if err != nil {
		c.JSON(tagErrStatus(err), dto.Fail(err))
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.TagsToResponse(tags)))
}

func tagErrStatus(err error) int {
	switch {
	case errors.Is(err, tag.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, tag.ErrTagNotFound), errors.Is(err, tag.ErrNotTagged), errors.Is(err, task.ErrTaskNotFound):
		return http.StatusNotFound
	case errors.Is(err, tag.ErrNameTaken):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
