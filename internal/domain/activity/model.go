package activity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Action represents the kind of event being recorded
type Action string

const (
	ActionCreated   Action = "CREATED"
	ActionUpdated   Action = "UPDATED"
	ActionDeleted   Action = "DELETED"
	ActionAssigned  Action = "ASSIGNED"
	ActionCompleted Action = "COMPLETED"
	ActionCommented Action = "COMMENTED"
)

func (a Action) IsValid() bool {
	switch a {
	case ActionCreated, ActionUpdated, ActionDeleted, ActionAssigned, ActionCompleted, ActionCommented:
		return true
	}
	return false
}

// Log is an immutable, append-only activity record.
type Log struct {
	ID         uuid.UUID      `json:"id" gorm:"type:uuid;primary_key"`
	UserID     uuid.UUID      `json:"user_id" gorm:"type:uuid;not null;index:idx_activity_user"`
	Action     Action         `json:"action" gorm:"not null;index:idx_activity_action"`
	EntityType string         `json:"entity_type" gorm:"not null"`
	EntityID   uuid.UUID      `json:"entity_id" gorm:"type:uuid;not null;index:idx_activity_entity"`
	Metadata   datatypes.JSON `json:"metadata,omitempty"`
	ProjectID  *uuid.UUID     `json:"project_id,omitempty" gorm:"type:uuid;index:idx_activity_project"`
	TaskID     *uuid.UUID     `json:"task_id,omitempty" gorm:"type:uuid;index:idx_activity_task"`
	CreatedAt  time.Time      `json:"created_at" gorm:"not null;index:idx_activity_created"`
}

// TableName specifies the table name for the Log model
func (Log) TableName() string {
	return "activity_logs"
}

// BeforeCreate is called before inserting a new activity record
func (l *Log) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
	return nil
}
