package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/karnworkspace/taskflow/internal/domain/notification"
)

type CreateNotificationRequest struct {
	UserID    *uuid.UUID        `json:"user_id"`
	Type      string            `json:"type" binding:"required"`
	Title     string            `json:"title" binding:"required,max=200"`
	Content   string            `json:"content" binding:"max=1000"`
	Data      map[string]string `json:"data"`
	TaskID    *uuid.UUID        `json:"task_id"`
	ProjectID *uuid.UUID        `json:"project_id"`
}

type NotificationResponse struct {
	ID        uuid.UUID  `json:"id"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Content   string     `json:"content,omitempty"`
	IsRead    bool       `json:"is_read"`
	TaskID    *uuid.UUID `json:"task_id,omitempty"`
	ProjectID *uuid.UUID `json:"project_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
}

func NotificationToResponse(n *notification.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Type:      string(n.Type),
		Title:     n.Title,
		Content:   n.Content,
		IsRead:    n.IsRead,
		TaskID:    n.TaskID,
		ProjectID: n.ProjectID,
		CreatedAt: n.CreatedAt,
		ReadAt:    n.ReadAt,
	}
}

func NotificationsToResponse(notifications []notification.Notification) []NotificationResponse {
	out := make([]NotificationResponse, len(notifications))
	for i := range notifications {
		out[i] = NotificationToResponse(&notifications[i])
	}
	return out
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}
