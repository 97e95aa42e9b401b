package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/karnworkspace/taskflow/internal/api/dto"
	"github.com/karnworkspace/taskflow/internal/api/middleware"
	"github.com/karnworkspace/taskflow/internal/domain/notification"
)

// NotificationHandler handles HTTP requests for notification operations
type NotificationHandler struct {
	service notification.Service
}

// NewNotificationHandler creates a new NotificationHandler instance
func NewNotificationHandler(service notification.Service) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// CreateNotification godoc
// @Summary Create a notification
// @Description Appends a notification record. Defaults the recipient to the caller when user_id is omitted.
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param notification body dto.CreateNotificationRequest true "Notification payload"
// @Success 201 {object} dto.Response "Created notification"
// @Failure 400 {object} dto.Response "Validation error"
// @Router /api/v1/notifications [post]
func (h *NotificationHandler) CreateNotification(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, dto.FailMessage("user not authenticated"))
		return
	}

	var req dto.CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(err))
		return
	}

	recipient := userID
	if req.UserID != nil {
		recipient = *req.UserID
	}

	created, err := h.service.Notify(c.Request.Context(), notification.NotifyInput{
		UserID:    recipient,
		Type:      notification.Type(req.Type),
		Title:     req.Title,
		Content:   req.Content,
		Data:      req.Data,
		TaskID:    req.TaskID,
		ProjectID: req.ProjectID,
	})
	if err != nil {
		c.JSON(notificationErrStatus(err), dto.Fail(err))
		return
	}

	c.JSON(http.StatusCreated, dto.OK(dto.NotificationToResponse(created)))
}

// ListNotifications godoc
// @Summary List the caller's notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param unread query bool false "Only unread notifications"
// @Param type query string false "Filter by notification type"
// @Success 200 {object} dto.PaginatedResponse "Notifications, newest first"
// @Router /api/v1/notifications [get]
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, dto.FailMessage("user not authenticated"))
		return
	}

	page, limit := dto.PageParams(c)
	filter := notification.Filter{
		UnreadOnly: c.Query("unread") == "true",
		Page:       page,
		PageSize:   limit,
	}
	if raw := c.Query("type"); raw != "" {
		t := notification.Type(raw)
		if !t.IsValid() {
			c.JSON(http.StatusBadRequest, dto.FailMessage("invalid notification type"))
			return
		}
		filter.Type = &t
	}

	notifications, total, err := h.service.ListForUser(c.Request.Context(), userID, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.Fail(err))
		return
	}

	c.JSON(http.StatusOK, dto.Paginated(dto.NotificationsToResponse(notifications), page, limit, total))
}

// UnreadCount godoc
// @Summary Count the caller's unread notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.Response "Unread count"
// @Router /api/v1/notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, dto.FailMessage("user not authenticated"))
		return
	}

	count, err := h.service.CountUnread(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.Fail(err))
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.UnreadCountResponse{Count: count}))
}

// MarkRead godoc
// @Summary Mark one notification as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID" format(uuid)
// @Success 200 {object} dto.Response "Marked read"
// @Failure 403 {object} dto.Response "Notification belongs to another user"
// @Router /api/v1/notifications/{id}/read [put]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, dto.FailMessage("user not authenticated"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.FailMessage("invalid notification ID"))
		return
	}

	if err := h.service.MarkAsRead(c.Request.Context(), userID, id); err != nil {
		c.JSON(notificationErrStatus(err), dto.Fail(err))
		return
	}

	c.JSON(http.StatusOK, dto.OKMessage("notification marked as read"))
}

// MarkAllRead godoc
// @Summary Mark all of the caller's notifications as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.Response "All marked read"
// @Router /api/v1/notifications/read-all [put]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, dto.FailMessage("user not authenticated"))
		return
	}

	if err := h.service.MarkAllAsRead(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, dto.Fail(err))
		return
	}

	c.JSON(http.StatusOK, dto.OKMessage("all notifications marked as read"))
}

// DeleteNotification godoc
// @Summary Delete a notification
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID" format(uuid)
// @Success 200 {object} dto.Response "Deleted"
// @Router /api/v1/notifications/{id} [delete]
func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, dto.FailMessage("user not authenticated"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.FailMessage("invalid notification ID"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, id); err != nil {
		c.JSON(notificationErrStatus(err), dto.Fail(err))
		return
	}

	c.JSON(http.StatusOK, dto.OKMessage("notification deleted"))
}

func notificationErrStatus(err error) int {
	switch {
	case errors.Is(err, notification.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, notification.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, notification.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
