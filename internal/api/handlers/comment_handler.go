package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/karnworkspace/taskflow/internal/api/dto"
	"github.com/karnworkspace/taskflow/internal/api/middleware"
	"github.com/karnworkspace/taskflow/internal/domain/comment"
	"github.com/karnworkspace/taskflow/internal/domain/task"
)

// CommentHandler handles HTTP requests for comment operations
type CommentHandler struct {
	service comment.Service
}

// NewCommentHandler creates a new CommentHandler instance
func NewCommentHandler(service comment.Service) *CommentHandler {
	return &CommentHandler{service: service}
}

// CreateComment godoc
// @Summary Comment on a task
// @Description Replies reference a top-level comment; replies to replies are
// rejected.
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID" format(uuid)
// @Param body body dto.CreateCommentRequest true "Comment"
// @Success 201 {object} dto.Response "Comment created"
// @Failure 400 {object} dto.Response "Invalid content or nested reply"
// @Router /api/v1/tasks/{id}/comments [post]
func (h *CommentHandler) CreateComment(c *gin.Context) {
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

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(err))
		return
	}

	input := comment.CreateCommentInput{
		TaskID:          taskID,
		AuthorID:        userID,
		Content:         req.Content,
		ParentCommentID: req.ParentCommentID,
	}
	for _, a := range req.Attachments {
		input.Attachments = append(input.Attachments, comment.AttachmentInput{
			FileName: a.FileName,
			FilePath: a.FilePath,
			MimeType: a.MimeType,
			Size:     a.Size,
		})
	}

	created, err := h.service.CreateComment(c.Request.Context(), input)
	if err != nil {
		c.JSON(commentErrStatus(err), dto.Fail(err))
		return
	}

	c.JSON(http.StatusCreated, dto.OK(dto.CommentToResponse(created)))
}

// ListComments godoc
// @Summary List the comments of a task
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID" format(uuid)
// @Success 200 {object} dto.PaginatedResponse "Comments, oldest first"
// @Router /api/v1/tasks/{id}/comments [get]
func (h *CommentHandler) ListComments(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.FailMessage("invalid task ID"))
		return
	}

	page, limit := dto.PageParams(c)
	comments, total, err := h.service.ListByTask(c.Request.Context(), taskID, page, limit)
	if err != nil {
		c.JSON(commentErrStatus(err), dto.Fail(err))
		return
	}

	c.JSON(http.StatusOK, dto.Paginated(dto.CommentsToResponse(comments), page, limit, total))
}

// UpdateComment godoc
// @Summary Edit a comment
// @Description Only the author may edit.
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Comment ID" format(uuid)
// @Param body body dto.UpdateCommentRequest true "New content"
// @Success 200 {object} dto.Response "Updated comment"
// @Failure 403 {object} dto.Response "Caller is not the author"
// @Router /api/v1/comments/{id} [put]
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, dto.FailMessage("user not authenticated"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.FailMessage("invalid comment ID"))
		return
	}

	var req dto.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(err))
		return
	}

	updated, err := h.service.UpdateComment(c.Request.Context(), id, req.Content, userID)
	if err != nil {
		c.JSON(commentErrStatus(err), dto.Fail(err))
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.CommentToResponse(updated)))
}

// DeleteComment godoc
// @Summary Delete a comment and its replies
// @Description Allowed for the comment author, the task creator, and the
// project owner. Deleting an absent comment succeeds with deleted=false.
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Comment ID" format(uuid)
// @Success 200 {object} dto.Response "Deletion outcome"
// @Router /api/v1/comments/{id} [delete]
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, dto.FailMessage("user not authenticated"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.FailMessage("invalid comment ID"))
		return
	}

	deleted, err := h.service.DeleteComment(c.Request.Context(), id, userID)
	if err != nil {
		c.JSON(commentErrStatus(err), dto.Fail(err))
		return
	}

	c.JSON(http.StatusOK, dto.OK(gin.H{"deleted": deleted}))
}

func commentErrStatus(err error) int {
	switch {
	case errors.Is(err, comment.ErrInvalidInput), errors.Is(err, comment.ErrThreadDepth):
		return http.StatusBadRequest
	case errors.Is(err, comment.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, comment.ErrCommentNotFound), errors.Is(err, task.ErrTaskNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
