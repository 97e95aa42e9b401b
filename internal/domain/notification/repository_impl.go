package notification

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/karnworkspace/taskflow/internal/infrastructure/persistence/postgres/connection"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// postgresRepository implements the Repository interface for PostgreSQL
type postgresRepository struct {
	db     *connection.Database
	logger *logrus.Logger
}

// NewRepository creates a new PostgreSQL notification repository
func NewRepository(db *connection.Database, logger *logrus.Logger) Repository {
	return &postgresRepository{
		db:     db,
		logger: logger,
	}
}

// withRecovery executes the given function with database error recovery
func (r *postgresRepository) withRecovery(ctx context.Context, operation string, fn func(tx *gorm.DB) error) error {
	db := r.db.WithContext(ctx)

	err := fn(db)
	if err == nil {
		return nil
	}

	r.logger.WithError(err).WithField("operation", operation).Error("Database operation failed")

	if !isConnectionError(err) {
		return err
	}

	r.logger.WithField("operation", operation).Warn("Database connection error, attempting reconnection")
	if reconnectErr := r.db.Reconnect(); reconnectErr != nil {
		r.logger.WithError(reconnectErr).Error("Failed to reconnect to database")
		return err
	}

	db = r.db.WithContext(ctx)
	if retryErr := fn(db); retryErr != nil {
		r.logger.WithError(retryErr).Error("Operation failed after reconnection")
		return retryErr
	}
	return nil
}

// isConnectionError checks whether an error comes from a lost connection
func isConnectionError(err error) bool {
	msg := err.Error()
	for _, probe := range []string{
		"connection refused",
		"bad connection",
		"connection reset by peer",
		"broken pipe",
		"connection closed",
	} {
		if strings.Contains(msg, probe) {
			return true
		}
	}
	return false
}

// Create creates a new notification
func (r *postgresRepository) Create(ctx context.Context, notification *Notification) error {
	return r.withRecovery(ctx, "Create", func(tx *gorm.DB) error {
		return tx.Create(notification).Error
	})
}

// GetByID retrieves a notification by its ID
func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Notification, error) {
	var notification Notification

	err := r.withRecovery(ctx, "GetByID", func(tx *gorm.DB) error {
		return tx.Where("id = ?", id).First(&notification).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &notification, nil
}

// GetByUserID retrieves notifications for a user, unread first, newest first
func (r *postgresRepository) GetByUserID(ctx context.Context, userID uuid.UUID, filter Filter) ([]Notification, int64, error) {
	var notifications []Notification
	var total int64

	err := r.withRecovery(ctx, "GetByUserID", func(tx *gorm.DB) error {
		query := tx.Model(&Notification{}).Where("user_id = ?", userID)

		if filter.UnreadOnly {
			query = query.Where("is_read = ?", false)
		}
		if filter.Type != nil {
			query = query.Where("type = ?", *filter.Type)
		}

		if err := query.Count(&total).Error; err != nil {
			return err
		}

		if filter.PageSize <= 0 {
			filter.PageSize = 20
		}
		if filter.Page < 1 {
			filter.Page = 1
		}

		return query.Order("is_read ASC, created_at DESC").
			Offset((filter.Page - 1) * filter.PageSize).
			Limit(filter.PageSize).
			Find(&notifications).Error
	})
	if err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}

// MarkAsRead marks a notification as read
func (r *postgresRepository) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	now := time.Now()

	return r.withRecovery(ctx, "MarkAsRead", func(tx *gorm.DB) error {
		result := tx.Model(&Notification{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"is_read":    true,
				"read_at":    now,
				"updated_at": now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// MarkAllAsRead marks all unread notifications as read for a user
func (r *postgresRepository) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	now := time.Now()

	return r.withRecovery(ctx, "MarkAllAsRead", func(tx *gorm.DB) error {
		return tx.Model(&Notification{}).
			Where("user_id = ? AND is_read = ?", userID, false).
			Updates(map[string]interface{}{
				"is_read":    true,
				"read_at":    now,
				"updated_at": now,
			}).Error
	})
}

// CountUnread counts unread notifications for a user
func (r *postgresRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64

	err := r.withRecovery(ctx, "CountUnread", func(tx *gorm.DB) error {
		return tx.Model(&Notification{}).
			Where("user_id = ? AND is_read = ?", userID, false).
			Count(&count).Error
	})
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Delete removes a notification
func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.withRecovery(ctx, "Delete", func(tx *gorm.DB) error {
		result := tx.Delete(&Notification{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// ExistsSince reports whether a (user, task, type) notification was created
// at or after the given instant.
func (r *postgresRepository) ExistsSince(ctx context.Context, userID, taskID uuid.UUID, typ Type, since time.Time) (bool, error) {
	var count int64

	err := r.withRecovery(ctx, "ExistsSince", func(tx *gorm.DB) error {
		return tx.Model(&Notification{}).
			Where("user_id = ? AND task_id = ? AND type = ? AND created_at >= ?", userID, taskID, typ, since).
			Count(&count).Error
	})
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
