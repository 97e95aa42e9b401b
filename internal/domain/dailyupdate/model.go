package dailyupdate

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/karnworkspace/taskflow/internal/domain/task"
	"gorm.io/gorm"
)

// Common errors
var (
	ErrUpdateNotFound = errors.New("daily update not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrForbidden      = errors.New("forbidden")
)

// DailyUpdate records a progress snapshot for a task on a given date.
type DailyUpdate struct {
	ID        uuid.UUID   `json:"id" gorm:"type:uuid;primary_key"`
	TaskID    uuid.UUID   `json:"task_id" gorm:"type:uuid;not null;index:idx_daily_update_task"`
	AuthorID  uuid.UUID   `json:"author_id" gorm:"type:uuid;not null;index:idx_daily_update_author"`
	Date      time.Time   `json:"date" gorm:"not null;index:idx_daily_update_date"`
	Progress  int         `json:"progress" gorm:"not null;default:0"`
	Status    task.Status `json:"status" gorm:"not null"`
	Notes     string      `json:"notes" gorm:"type:text"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// TableName specifies the table name for the DailyUpdate model
func (DailyUpdate) TableName() string {
	return "daily_updates"
}

// BeforeCreate is called before inserting a new daily update
func (d *DailyUpdate) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return d.Validate()
}

// Validate checks progress bounds and the status enum.
func (d *DailyUpdate) Validate() error {
	if d.Progress < 0 || d.Progress > 100 {
		return ErrInvalidInput
	}
	if !d.Status.IsValid() {
		return ErrInvalidInput
	}
	return nil
}
