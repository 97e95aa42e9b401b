package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role represents the global role of a user
type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
	RoleUser   Role = "USER"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleMember, RoleUser:
		return true
	}
	return false
}

// User represents an account in the system
type User struct {
	ID                  uuid.UUID  `json:"id" gorm:"type:uuid;primary_key"`
	Email               string     `json:"email" gorm:"uniqueIndex:idx_user_email;not null"`
	Name                string     `json:"name" gorm:"not null"`
	PasswordHash        string     `json:"-" gorm:"not null"`
	PinHash             string     `json:"-"`
	Role                Role       `json:"role" gorm:"not null;default:'USER';index:idx_user_role"`
	IsActive            bool       `json:"is_active" gorm:"default:true;index:idx_user_active"`
	FailedLoginAttempts int        `json:"-" gorm:"default:0"`
	AccountLockedUntil  *time.Time `json:"-" gorm:"index:idx_user_locked"`
	LastLoginAt         *time.Time `json:"last_login_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at" gorm:"index:idx_user_created"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// BeforeCreate is called before creating a new user record
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = time.Now()
	return nil
}

// BeforeUpdate is called before updating a user record
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}

// Summary is the public shape returned to API callers.
type Summary struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
	Role  Role      `json:"role"`
}

// Summarize strips credential fields from a user.
func (u *User) Summarize() Summary {
	return Summary{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Role:  u.Role,
	}
}
