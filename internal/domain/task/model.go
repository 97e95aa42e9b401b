package task

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Common errors
var (
	ErrTaskNotFound = errors.New("task not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
)

type Status string

const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusInReview   Status = "IN_REVIEW"
	StatusDone       Status = "DONE"
	StatusBlocked    Status = "BLOCKED"
	StatusHold       Status = "HOLD"
	StatusCancelled  Status = "CANCELLED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusInReview, StatusDone, StatusBlocked, StatusHold, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether reminder sweeps should skip the task.
func (s Status) IsTerminal() bool {
	return s == StatusDone || s == StatusCancelled
}

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Task represents a task in the system
type Task struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primary_key"`
	Title        string     `json:"title" gorm:"type:varchar(200);not null"`
	Description  string     `json:"description" gorm:"type:text"`
	Status       Status     `json:"status" gorm:"not null;default:'TODO';index:idx_task_status"`
	Priority     Priority   `json:"priority" gorm:"not null;default:'MEDIUM';index:idx_task_priority"`
	Progress     int        `json:"progress" gorm:"not null;default:0"`
	StartDate    *time.Time `json:"start_date,omitempty" gorm:"index:idx_task_dates"`
	DueDate      *time.Time `json:"due_date,omitempty" gorm:"index:idx_task_dates"`
	AssigneeID   *uuid.UUID `json:"assignee_id,omitempty" gorm:"type:uuid;index:idx_task_assignee"`
	CreatorID    uuid.UUID  `json:"created_by_id" gorm:"type:uuid;not null;index:idx_task_creator"`
	ParentTaskID *uuid.UUID `json:"parent_task_id,omitempty" gorm:"type:uuid"`
	ProjectID    uuid.UUID  `json:"project_id" gorm:"type:uuid;not null;index:idx_task_project"`
	CreatedAt    time.Time  `json:"created_at" gorm:"not null;index:idx_task_created"`
	UpdatedAt    time.Time  `json:"updated_at" gorm:"not null"`
}

// TableName specifies the table name for the Task model
func (Task) TableName() string {
	return "tasks"
}

// Validate checks the invariants every persisted task must hold
func (t *Task) Validate() error {
	if t.Title == "" || len(t.Title) > 200 {
		return ErrInvalidInput
	}
	if len(t.Description) > 2000 {
		return ErrInvalidInput
	}
	if !t.Status.IsValid() || !t.Priority.IsValid() {
		return ErrInvalidInput
	}
	if t.Progress < 0 || t.Progress > 100 {
		return ErrInvalidInput
	}
	if t.CreatorID == uuid.Nil || t.ProjectID == uuid.Nil {
		return ErrInvalidInput
	}
	if t.StartDate != nil && t.DueDate != nil && t.StartDate.After(*t.DueDate) {
		return ErrInvalidInput
	}
	return nil
}

// BeforeCreate is called before creating a new task record
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Status == "" {
		t.Status = StatusTodo
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	t.UpdatedAt = time.Now()
	return t.Validate()
}

// BeforeUpdate is called before updating a task record
func (t *Task) BeforeUpdate(tx *gorm.DB) error {
	t.UpdatedAt = time.Now()
	return t.Validate()
}

// Stats aggregates per-status counts for a project or the whole store.
// Total counts the five tracked statuses; HOLD and CANCELLED are reported
// separately and excluded from the completion rate.
type Stats struct {
	Todo           int64 `json:"todo"`
	InProgress     int64 `json:"in_progress"`
	InReview       int64 `json:"in_review"`
	Done           int64 `json:"done"`
	Blocked        int64 `json:"blocked"`
	Hold           int64 `json:"hold"`
	Cancelled      int64 `json:"cancelled"`
	Total          int64 `json:"total"`
	CompletionRate int   `json:"completion_rate"`
}
