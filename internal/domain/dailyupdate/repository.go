package dailyupdate

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/karnworkspace/taskflow/internal/infrastructure/persistence/postgres/connection"
	"gorm.io/gorm"
)

// Filter defines filtering options for daily updates
type Filter struct {
	TaskID   *uuid.UUID
	AuthorID *uuid.UUID
	DateFrom *time.Time
	DateTo   *time.Time
	Page     int
	PageSize int
}

// Repository defines the interface for daily update persistence operations
type Repository interface {
	Create(ctx context.Context, update *DailyUpdate) error
	FindByID(ctx context.Context, id uuid.UUID) (*DailyUpdate, error)
	FindAll(ctx context.Context, filter Filter) ([]DailyUpdate, int64, error)
	// Delete reports whether a row was actually removed.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type repository struct {
	db *connection.Database
}

func NewRepository(db *connection.Database) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, update *DailyUpdate) error {
	return r.db.WithContext(ctx).Create(update).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*DailyUpdate, error) {
	var update DailyUpdate
	result := r.db.WithContext(ctx).First(&update, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUpdateNotFound
		}
		return nil, result.Error
	}
	return &update, nil
}

func (r *repository) FindAll(ctx context.Context, filter Filter) ([]DailyUpdate, int64, error) {
	var updates []DailyUpdate
	var total int64

	query := r.db.WithContext(ctx).Model(&DailyUpdate{})
	if filter.TaskID != nil {
		query = query.Where("task_id = ?", *filter.TaskID)
	}
	if filter.AuthorID != nil {
		query = query.Where("author_id = ?", *filter.AuthorID)
	}
	if filter.DateFrom != nil {
		query = query.Where("date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("date <= ?", *filter.DateTo)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	err := query.Order("date DESC, created_at DESC").Find(&updates).Error
	return updates, total, err
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&DailyUpdate{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
