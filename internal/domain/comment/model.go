package comment

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Common errors
var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrForbidden       = errors.New("forbidden")
	// ErrThreadDepth is returned when replying to a comment that is itself
	// a reply. Threads are one level deep.
	ErrThreadDepth = errors.New("replies cannot be nested")
)

const maxContentLength = 1000

type Comment struct {
	ID              uuid.UUID    `json:"id" gorm:"type:uuid;primary_key"`
	TaskID          uuid.UUID    `json:"task_id" gorm:"type:uuid;not null;index:idx_comment_task"`
	AuthorID        uuid.UUID    `json:"author_id" gorm:"type:uuid;not null;index:idx_comment_author"`
	Content         string       `json:"content" gorm:"type:text;not null"`
	ParentCommentID *uuid.UUID   `json:"parent_comment_id,omitempty" gorm:"type:uuid;index:idx_comment_parent"`
	Attachments     []Attachment `json:"attachments,omitempty" gorm:"foreignKey:CommentID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time    `json:"created_at" gorm:"index:idx_comment_created"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// TableName specifies the table name for the Comment model
func (Comment) TableName() string {
	return "comments"
}

// BeforeCreate is called before inserting a new comment
func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return c.Validate()
}

// Validate checks the content bounds.
func (c *Comment) Validate() error {
	content := strings.TrimSpace(c.Content)
	if content == "" || len(c.Content) > maxContentLength {
		return ErrInvalidInput
	}
	return nil
}

// Attachment stores file metadata for a comment. The bytes themselves live
// outside the database.
type Attachment struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	CommentID uuid.UUID `json:"comment_id" gorm:"type:uuid;not null;index:idx_attachment_comment"`
	FileName  string    `json:"file_name" gorm:"type:varchar(255);not null"`
	FilePath  string    `json:"file_path" gorm:"type:varchar(512);not null"`
	MimeType  string    `json:"mime_type" gorm:"type:varchar(100)"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for the Attachment model
func (Attachment) TableName() string {
	return "attachments"
}

// BeforeCreate is called before inserting a new attachment
func (a *Attachment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
