package tag

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/karnworkspace/taskflow/internal/infrastructure/persistence/postgres/connection"
	"gorm.io/gorm"
)

// Repository defines the interface for tag persistence operations
type Repository interface {
	Create(ctx context.Context, tag *Tag) error
	FindByID(ctx context.Context, id uuid.UUID) (*Tag, error)
	FindAll(ctx context.Context, page, pageSize int) ([]Tag, int64, error)
	Update(ctx context.Context, tag *Tag) error
	// Delete removes the tag and its task joins. It reports whether the
	// tag itself existed.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	Attach(ctx context.Context, taskID, tagID uuid.UUID) error
	Detach(ctx context.Context, taskID, tagID uuid.UUID) (bool, error)
	FindByTask(ctx context.Context, taskID uuid.UUID) ([]Tag, error)
}

type repository struct {
	db *connection.Database
}

func NewRepository(db *connection.Database) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, tag *Tag) error {
	err := r.db.WithContext(ctx).Create(tag).Error
	if err != nil && isUniqueViolation(err) {
		return ErrNameTaken
	}
	return err
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Tag, error) {
	var tag Tag
	result := r.db.WithContext(ctx).First(&tag, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, result.Error
	}
	return &tag, nil
}

func (r *repository) FindAll(ctx context.Context, page, pageSize int) ([]Tag, int64, error) {
	var tags []Tag
	var total int64

	query := r.db.WithContext(ctx).Model(&Tag{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if page > 0 && pageSize > 0 {
		query = query.Offset((page - 1) * pageSize).Limit(pageSize)
	}

	err := query.Order("name ASC").Find(&tags).Error
	return tags, total, err
}

func (r *repository) Update(ctx context.Context, tag *Tag) error {
	result := r.db.WithContext(ctx).Model(&Tag{}).
		Where("id = ?", tag.ID).
		Updates(map[string]interface{}{
			"name":       tag.Name,
			"color":      tag.Color,
			"updated_at": tag.UpdatedAt,
		})
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return ErrNameTaken
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTagNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	var removed bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tag_id = ?", id).Delete(&TaskTag{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&Tag{})
		if result.Error != nil {
			return result.Error
		}
		removed = result.RowsAffected > 0
		return nil
	})
	return removed, err
}

func (r *repository) Attach(ctx context.Context, taskID, tagID uuid.UUID) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&TaskTag{}).
		Where("task_id = ? AND tag_id = ?", taskID, tagID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		// Attaching twice is a no-op.
		return nil
	}
	return r.db.WithContext(ctx).Create(&TaskTag{TaskID: taskID, TagID: tagID}).Error
}

func (r *repository) Detach(ctx context.Context, taskID, tagID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("task_id = ? AND tag_id = ?", taskID, tagID).
		Delete(&TaskTag{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) FindByTask(ctx context.Context, taskID uuid.UUID) ([]Tag, error) {
	var tags []Tag
	err := r.db.WithContext(ctx).
		Joins("JOIN task_tags ON task_tags.tag_id = tags.id").
		Where("task_tags.task_id = ?", taskID).
		Order("tags.name ASC").
		Find(&tags).Error
	return tags, err
}

func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}
