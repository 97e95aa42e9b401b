package notification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Type represents the type of notification
type Type string

const (
	TaskAssigned  Type = "TASK_ASSIGNED"
	TaskDueSoon   Type = "TASK_DUE_SOON"
	TaskOverdue   Type = "TASK_OVERDUE"
	TaskCompleted Type = "TASK_COMPLETED"
	CommentAdded  Type = "COMMENT_ADDED"
	ProjectInvite Type = "PROJECT_INVITE"
	DailyReminder Type = "DAILY_REMINDER"
)

func (t Type) IsValid() bool {
	switch t {
	case TaskAssigned, TaskDueSoon, TaskOverdue, TaskCompleted, CommentAdded, ProjectInvite, DailyReminder:
		return true
	}
	return false
}

// Notification represents a notification entity
type Notification struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID      `json:"user_id" gorm:"type:uuid;not null;index:idx_notification_user"`
	Type      Type           `json:"type" gorm:"not null;index:idx_notification_type"`
	Title     string         `json:"title" gorm:"not null"`
	Content   string         `json:"content"`
	IsRead    bool           `json:"is_read" gorm:"not null;default:false;index:idx_notification_read"`
	Data      datatypes.JSON `json:"data,omitempty"`
	TaskID    *uuid.UUID     `json:"task_id,omitempty" gorm:"type:uuid;index:idx_notification_task"`
	ProjectID *uuid.UUID     `json:"project_id,omitempty" gorm:"type:uuid;index:idx_notification_project"`
	CreatedAt time.Time      `json:"created_at" gorm:"not null;index:idx_notification_created"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"not null"`
	ReadAt    *time.Time     `json:"read_at,omitempty"`
}

// TableName specifies the table name for the Notification model
func (Notification) TableName() string {
	return "notifications"
}

// BeforeCreate hook to set default values
func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	if n.UpdatedAt.IsZero() {
		n.UpdatedAt = time.Now()
	}
	return nil
}
