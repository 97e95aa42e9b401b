package task

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/karnworkspace/taskflow/internal/infrastructure/persistence/postgres/connection"
	"gorm.io/gorm"
)

// Filter defines filtering options for tasks
type Filter struct {
	ProjectID    *uuid.UUID
	Status       *Status
	Priority     *Priority
	AssigneeID   *uuid.UUID
	CreatorID    *uuid.UUID
	ParentTaskID *uuid.UUID
	DueDateFrom  *time.Time
	DueDateTo    *time.Time
	Page         int
	PageSize     int
}

// triageOrder reproduces the UI triage ordering: nearest due date first
// with undated tasks last, then priority descending, then newest first.
const triageOrder = "CASE WHEN due_date IS NULL THEN 1 ELSE 0 END, due_date ASC, " +
	"CASE priority WHEN 'URGENT' THEN 4 WHEN 'HIGH' THEN 3 WHEN 'MEDIUM' THEN 2 ELSE 1 END DESC, " +
	"created_at DESC"

// Repository defines the interface for task persistence operations
type Repository interface {
	Create(ctx context.Context, task *Task) error
	FindByID(ctx context.Context, id uuid.UUID) (*Task, error)
	FindAll(ctx context.Context, filter Filter) ([]Task, int64, error)
	// FindMine returns tasks where the user is assignee or creator, in
	// triage order.
	FindMine(ctx context.Context, userID uuid.UUID, filter Filter) ([]Task, int64, error)
	Update(ctx context.Context, task *Task) error
	// Delete reports whether a row was actually removed.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	CountByStatus(ctx context.Context, projectID *uuid.UUID) (map[Status]int64, error)

	// Reminder sweep queries. Both skip terminal statuses and unassigned tasks.
	FindDueBetween(ctx context.Context, from, to time.Time) ([]Task, error)
	FindOverdue(ctx context.Context, now time.Time) ([]Task, error)
}

type repository struct {
	db *connection.Database
}

func NewRepository(db *connection.Database) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, task *Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Task, error) {
	var task Task
	result := r.db.WithContext(ctx).First(&task, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, result.Error
	}
	return &task, nil
}

func (r *repository) applyFilter(query *gorm.DB, filter Filter) *gorm.DB {
	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", *filter.Priority)
	}
	if filter.AssigneeID != nil {
		query = query.Where("assignee_id = ?", *filter.AssigneeID)
	}
	if filter.CreatorID != nil {
		query = query.Where("creator_id = ?", *filter.CreatorID)
	}
	if filter.ParentTaskID != nil {
		query = query.Where("parent_task_id = ?", *filter.ParentTaskID)
	}
	if filter.DueDateFrom != nil {
		query = query.Where("due_date >= ?", *filter.DueDateFrom)
	}
	if filter.DueDateTo != nil {
		query = query.Where("due_date < ?", *filter.DueDateTo)
	}
	return query
}

func (r *repository) FindAll(ctx context.Context, filter Filter) ([]Task, int64, error) {
	var tasks []Task
	var total int64

	query := r.applyFilter(r.db.WithContext(ctx).Model(&Task{}), filter)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.Page < 1 {
		filter.Page = 1
	}

	err := query.Order(triageOrder).
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&tasks).Error
	if err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

func (r *repository) FindMine(ctx context.Context, userID uuid.UUID, filter Filter) ([]Task, int64, error) {
	var tasks []Task
	var total int64

	query := r.db.WithContext(ctx).Model(&Task{}).
		Where("assignee_id = ? OR creator_id = ?", userID, userID)

	// Assignee/creator filters do not apply here; the OR above is the contract.
	scoped := filter
	scoped.AssigneeID = nil
	scoped.CreatorID = nil
	query = r.applyFilter(query, scoped)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.Page < 1 {
		filter.Page = 1
	}

	err := query.Order(triageOrder).
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&tasks).Error
	if err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

func (r *repository) Update(ctx context.Context, task *Task) error {
	result := r.db.WithContext(ctx).Save(task)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&Task{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) CountByStatus(ctx context.Context, projectID *uuid.UUID) (map[Status]int64, error) {
	var results []struct {
		Status Status
		Count  int64
	}

	query := r.db.WithContext(ctx).Model(&Task{}).
		Select("status, count(*) as count").
		Group("status")
	if projectID != nil {
		query = query.Where("project_id = ?", *projectID)
	}

	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}

	counts := make(map[Status]int64, len(results))
	for _, row := range results {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *repository) FindDueBetween(ctx context.Context, from, to time.Time) ([]Task, error) {
	var tasks []Task
	err := r.db.WithContext(ctx).
		Where("status NOT IN ?", []Status{StatusDone, StatusCancelled}).
		Where("assignee_id IS NOT NULL").
		Where("due_date >= ? AND due_date < ?", from, to).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *repository) FindOverdue(ctx context.Context, now time.Time) ([]Task, error) {
	var tasks []Task
	err := r.db.WithContext(ctx).
		Where("status NOT IN ?", []Status{StatusDone, StatusCancelled}).
		Where("assignee_id IS NOT NULL").
		Where("due_date < ?", now).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}
