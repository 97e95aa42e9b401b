package group

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/karnworkspace/taskflow/internal/infrastructure/persistence/postgres/connection"
	"gorm.io/gorm"
)

// Filter defines filtering options for groups
type Filter struct {
	Type      *Type
	CreatorID *uuid.UUID
	Page      int
	PageSize  int
}

// Repository defines the interface for group persistence operations
type Repository interface {
	Create(ctx context.Context, group *Group) error
	FindByID(ctx context.Context, id uuid.UUID) (*Group, error)
	FindAll(ctx context.Context, filter Filter) ([]Group, int64, error)
	Update(ctx context.Context, group *Group) error
	// Delete removes the group and its membership rows. It reports whether
	// the group itself existed.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	AddUser(ctx context.Context, groupID, userID uuid.UUID) error
	RemoveUser(ctx context.Context, groupID, userID uuid.UUID) (bool, error)
	ListUsers(ctx context.Context, groupID uuid.UUID) ([]GroupMember, error)

	AddProject(ctx context.Context, groupID, projectID uuid.UUID) error
	RemoveProject(ctx context.Context, groupID, projectID uuid.UUID) (bool, error)
	ListProjects(ctx context.Context, groupID uuid.UUID) ([]GroupProject, error)
}

type repository struct {
	db *connection.Database
}

func NewRepository(db *connection.Database) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, group *Group) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Group, error) {
	var group Group
	result := r.db.WithContext(ctx).First(&group, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, result.Error
	}
	return &group, nil
}

func (r *repository) FindAll(ctx context.Context, filter Filter) ([]Group, int64, error) {
	var groups []Group
	var total int64

	query := r.db.WithContext(ctx).Model(&Group{})
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.CreatorID != nil {
		query = query.Where("creator_id = ?", *filter.CreatorID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	err := query.Order("name ASC").Find(&groups).Error
	return groups, total, err
}

func (r *repository) Update(ctx context.Context, group *Group) error {
	result := r.db.WithContext(ctx).Model(&Group{}).
		Where("id = ?", group.ID).
		Updates(map[string]interface{}{
			"name":        group.Name,
			"description": group.Description,
			"updated_at":  group.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrGroupNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	var removed bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", id).Delete(&GroupMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("group_id = ?", id).Delete(&GroupProject{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&Group{})
		if result.Error != nil {
			return result.Error
		}
		removed = result.RowsAffected > 0
		return nil
	})
	return removed, err
}

func (r *repository) AddUser(ctx context.Context, groupID, userID uuid.UUID) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrMemberExists
	}
	return r.db.WithContext(ctx).Create(&GroupMember{GroupID: groupID, UserID: userID}).Error
}

func (r *repository) RemoveUser(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Delete(&GroupMember{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) ListUsers(ctx context.Context, groupID uuid.UUID) ([]GroupMember, error) {
	var members []GroupMember
	err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("created_at ASC").
		Find(&members).Error
	return members, err
}

func (r *repository) AddProject(ctx context.Context, groupID, projectID uuid.UUID) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&GroupProject{}).
		Where("group_id = ? AND project_id = ?", groupID, projectID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrProjectExists
	}
	return r.db.WithContext(ctx).Create(&GroupProject{GroupID: groupID, ProjectID: projectID}).Error
}

func (r *repository) RemoveProject(ctx context.Context, groupID, projectID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("group_id = ? AND project_id = ?", groupID, projectID).
		Delete(&GroupProject{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) ListProjects(ctx context.Context, groupID uuid.UUID) ([]GroupProject, error) {
	var projects []GroupProject
	err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("created_at ASC").
		Find(&projects).Error
	return projects, err
}
