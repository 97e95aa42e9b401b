package group

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Common errors
var (
	ErrGroupNotFound  = errors.New("group not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrForbidden      = errors.New("forbidden")
	ErrMemberExists   = errors.New("user is already in the group")
	ErrProjectExists  = errors.New("project is already in the group")
	ErrMemberNotFound = errors.New("group member not found")
	// ErrTypeMismatch is returned when adding a user to a PROJECT_GROUP
	// or a project to a USER_GROUP.
	ErrTypeMismatch = errors.New("entity kind does not match group type")
)

type Type string

const (
	TypeUserGroup    Type = "USER_GROUP"
	TypeProjectGroup Type = "PROJECT_GROUP"
)

// IsValid validates the group type
func (t Type) IsValid() bool {
	return t == TypeUserGroup || t == TypeProjectGroup
}

// Group is a named collection of users or projects, never both.
type Group struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null;index:idx_group_name"`
	Description string    `json:"description" gorm:"type:text"`
	Type        Type      `json:"type" gorm:"not null;index:idx_group_type"`
	CreatorID   uuid.UUID `json:"creator_id" gorm:"type:uuid;not null;index:idx_group_creator"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Group model
func (Group) TableName() string {
	return "groups"
}

// BeforeCreate is called before inserting a new group
func (g *Group) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	if strings.TrimSpace(g.Name) == "" || !g.Type.IsValid() {
		return ErrInvalidInput
	}
	return nil
}

type GroupMember struct {
	GroupID   uuid.UUID `json:"group_id" gorm:"type:uuid;primary_key"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for the GroupMember model
func (GroupMember) TableName() string {
	return "group_members"
}

type GroupProject struct {
	GroupID   uuid.UUID `json:"group_id" gorm:"type:uuid;primary_key"`
	ProjectID uuid.UUID `json:"project_id" gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for the GroupProject model
func (GroupProject) TableName() string {
	return "group_projects"
}
