package tag

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Common errors
var (
	ErrTagNotFound  = errors.New("tag not found")
	ErrNameTaken    = errors.New("tag name already exists")
	ErrInvalidInput = errors.New("invalid input")
	ErrNotTagged    = errors.New("task does not carry this tag")
)

// Tag is a named label attached to tasks.
type Tag struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null;uniqueIndex:idx_tag_name"`
	Color     string    `json:"color" gorm:"type:varchar(20)"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Tag model
func (Tag) TableName() string {
	return "tags"
}

// BeforeCreate is called before inserting a new tag
func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if strings.TrimSpace(t.Name) == "" {
		return ErrInvalidInput
	}
	return nil
}

// TaskTag joins tasks and tags.
type TaskTag struct {
	TaskID    uuid.UUID `json:"task_id" gorm:"type:uuid;primary_key"`
	TagID     uuid.UUID `json:"tag_id" gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for the TaskTag model
func (TaskTag) TableName() string {
	return "task_tags"
}
