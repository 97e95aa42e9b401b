package activity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/karnworkspace/taskflow/internal/infrastructure/persistence/postgres/connection"
)

var ErrInvalidInput = errors.New("invalid input")

// Filter defines listing options for activity logs
type Filter struct {
	UserID     *uuid.UUID
	ProjectID  *uuid.UUID
	TaskID     *uuid.UUID
	EntityType *string
	Action     *Action
	Page       int
	PageSize   int
}

// Repository defines the interface for activity log persistence
type Repository interface {
	Create(ctx context.Context, log *Log) error
	FindAll(ctx context.Context, filter Filter) ([]Log, int64, error)
}

type repository struct {
	db *connection.Database
}

func NewRepository(db *connection.Database) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, log *Log) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *repository) FindAll(ctx context.Context, filter Filter) ([]Log, int64, error) {
	var logs []Log
	var total int64
	query := r.db.WithContext(ctx).Model(&Log{})

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.TaskID != nil {
		query = query.Where("task_id = ?", *filter.TaskID)
	}
	if filter.EntityType != nil {
		query = query.Where("entity_type = ?", *filter.EntityType)
	}
	if filter.Action != nil {
		query = query.Where("action = ?", *filter.Action)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.Page < 1 {
		filter.Page = 1
	}

	err := query.Order("created_at DESC").
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}
