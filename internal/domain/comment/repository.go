package comment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/karnworkspace/taskflow/internal/infrastructure/persistence/postgres/connection"
	"gorm.io/gorm"
)

// Filter defines filtering options for comments
type Filter struct {
	TaskID   *uuid.UUID
	AuthorID *uuid.UUID
	Page     int
	PageSize int
}

// Repository defines the interface for comment persistence operations
type Repository interface {
	Create(ctx context.Context, comment *Comment) error
	FindByID(ctx context.Context, id uuid.UUID) (*Comment, error)
	FindAll(ctx context.Context, filter Filter) ([]Comment, int64, error)
	Update(ctx context.Context, comment *Comment) error
	// Delete removes the comment and its replies. It reports whether the
	// comment itself existed.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type repository struct {
	db *connection.Database
}

func NewRepository(db *connection.Database) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, comment *Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Comment, error) {
	var comment Comment
	result := r.db.WithContext(ctx).Preload("Attachments").First(&comment, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, result.Error
	}
	return &comment, nil
}

func (r *repository) FindAll(ctx context.Context, filter Filter) ([]Comment, int64, error) {
	var comments []Comment
	var total int64

	query := r.db.WithContext(ctx).Model(&Comment{})
	if filter.TaskID != nil {
		query = query.Where("task_id = ?", *filter.TaskID)
	}
	if filter.AuthorID != nil {
		query = query.Where("author_id = ?", *filter.AuthorID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	err := query.
		Preload("Attachments").
		Order("created_at ASC").
		Find(&comments).Error
	return comments, total, err
}

func (r *repository) Update(ctx context.Context, comment *Comment) error {
	result := r.db.WithContext(ctx).Model(&Comment{}).
		Where("id = ?", comment.ID).
		Updates(map[string]interface{}{
			"content":    comment.Content,
			"updated_at": comment.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCommentNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	var removed bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id IN (?)",
			tx.Model(&Comment{}).Select("id").Where("id = ? OR parent_comment_id = ?", id, id),
		).Delete(&Attachment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("parent_comment_id = ?", id).Delete(&Comment{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&Comment{})
		if result.Error != nil {
			return result.Error
		}
		removed = result.RowsAffected > 0
		return nil
	})
	return removed, err
}
