package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Filter defines listing options for notifications
type Filter struct {
	UnreadOnly bool
	Type       *Type
	Page       int
	PageSize   int
}

// Repository defines the interface for notification persistence
type Repository interface {
	Create(ctx context.Context, notification *Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (*Notification, error)
	GetByUserID(ctx context.Context, userID uuid.UUID, filter Filter) ([]Notification, int64, error)
	MarkAsRead(ctx context.Context, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// ExistsSince reports whether a notification of the given type for the
	// (user, task) pair was created at or after the given instant. The
	// reminder sweep uses it for its per-calendar-day dedup.
	ExistsSince(ctx context.Context, userID, taskID uuid.UUID, typ Type, since time.Time) (bool, error)
}
