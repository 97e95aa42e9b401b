package project

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/karnworkspace/taskflow/internal/domain/authz"
	"gorm.io/gorm"
)

// Common errors
var (
	ErrProjectNotFound = errors.New("project not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrForbidden       = errors.New("forbidden")
	ErrMemberExists    = errors.New("user is already a project member")
	ErrMemberNotFound  = errors.New("project member not found")
	ErrOwnerImmutable  = errors.New("the owner membership cannot be removed")
)

type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusOnHold    Status = "ON_HOLD"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// IsValid validates the project status
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusOnHold, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type Project struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primary_key"`
	Name        string         `json:"name" gorm:"type:varchar(255);not null;index:idx_project_name"`
	Description string         `json:"description" gorm:"type:text"`
	Status      Status         `json:"status" gorm:"not null;default:'ACTIVE';index:idx_project_status"`
	Color       string         `json:"color,omitempty"`
	Icon        string         `json:"icon,omitempty"`
	OwnerID     uuid.UUID      `json:"owner_id" gorm:"type:uuid;not null;index:idx_project_owner"`

	// Timeline metadata assigned by the mapping sweep
	TimelineCategory string `json:"timeline_category,omitempty" gorm:"index:idx_project_timeline"`
	TimelineCode     string `json:"timeline_code,omitempty"`
	SortOrder        int    `json:"sort_order" gorm:"default:0"`

	CreatedAt time.Time      `json:"created_at" gorm:"index:idx_project_created"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// TableName specifies the table name for the Project model
func (Project) TableName() string {
	return "projects"
}

// BeforeCreate is called before inserting a new project
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = StatusActive
	}
	if !p.Status.IsValid() {
		return ErrInvalidInput
	}
	return nil
}

// Member joins a user to a project with a membership role.
// The row holding the OWNER role mirrors Project.OwnerID and is never removed.
type Member struct {
	ProjectID uuid.UUID `json:"project_id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;primaryKey"`
	Role      string    `json:"role" gorm:"not null;default:'MEMBER'"`
	JoinedAt  time.Time `json:"joined_at" gorm:"not null"`
}

// TableName specifies the table name for the Member model
func (Member) TableName() string {
	return "project_members"
}

// BeforeCreate is called before inserting a membership row
func (m *Member) BeforeCreate(tx *gorm.DB) error {
	if m.Role == "" {
		m.Role = authz.RoleMember
	}
	if m.JoinedAt.IsZero() {
		m.JoinedAt = time.Now()
	}
	return nil
}

type CreateProjectInput struct {
	Name        string     `validate:"required,min=1,max=255"`
	Description string     `validate:"max=2000"`
	Status      Status     `validate:"omitempty"`
	Color       string     `validate:"max=32"`
	Icon        string     `validate:"max=64"`
	OwnerID     uuid.UUID  `validate:"required"`
}

type UpdateProjectInput struct {
	Name        *string `validate:"omitempty,min=1,max=255"`
	Description *string `validate:"omitempty,max=2000"`
	Status      *Status `validate:"omitempty"`
	Color       *string `validate:"omitempty,max=32"`
	Icon        *string `validate:"omitempty,max=64"`
}

// TimelineMeta is one entry of the timeline mapping sweep.
type TimelineMeta struct {
	Category  string
	Code      string
	SortOrder int
}

type Filter struct {
	Status   *Status
	OwnerID  *uuid.UUID
	Name     *string
	MemberID *uuid.UUID
	Page     int
	PageSize int
}
