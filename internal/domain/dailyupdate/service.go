package dailyupdate

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/karnworkspace/taskflow/internal/domain/authz"
	"github.com/karnworkspace/taskflow/internal/domain/project"
	"github.com/karnworkspace/taskflow/internal/domain/task"
	"github.com/karnworkspace/taskflow/pkg/logger"
)

// TaskSource resolves the task a daily update belongs to.
type TaskSource interface {
	FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error)
}

// ProjectSource resolves project ownership for permission checks.
type ProjectSource interface {
	FindByID(ctx context.Context, id uuid.UUID) (*project.Project, error)
}

type CreateUpdateInput struct {
	TaskID   uuid.UUID
	AuthorID uuid.UUID
	Date     time.Time
	Progress int
	Status   task.Status
	Notes    string
}

// Service defines the daily update service interface
type Service interface {
	// CreateUpdate requires the author to be the task's assignee, creator,
	// or project owner.
	CreateUpdate(ctx context.Context, input CreateUpdateInput) (*DailyUpdate, error)
	GetUpdate(ctx context.Context, id uuid.UUID) (*DailyUpdate, error)
	ListByTask(ctx context.Context, taskID uuid.UUID, page, pageSize int) ([]DailyUpdate, int64, error)
	// DeleteUpdate is author-only and reports false when the update does
	// not exist.
	DeleteUpdate(ctx context.Context, id uuid.UUID, requesterID uuid.UUID) (bool, error)
}

type service struct {
	repo     Repository
	tasks    TaskSource
	projects ProjectSource
	logger   *logger.Logger
}

func NewService(repo Repository, tasks TaskSource, projects ProjectSource, log *logger.Logger) Service {
	return &service{
		repo:     repo,
		tasks:    tasks,
		projects: projects,
		logger:   log,
	}
}

func (s *service) CreateUpdate(ctx context.Context, input CreateUpdateInput) (*DailyUpdate, error) {
	t, err := s.tasks.FindByID(ctx, input.TaskID)
	if err != nil {
		return nil, err
	}
	proj, err := s.projects.FindByID(ctx, t.ProjectID)
	if err != nil {
		return nil, err
	}

	if !authz.CanMutateTask(input.AuthorID, authz.TaskSnapshot{
		AssigneeID:     t.AssigneeID,
		CreatorID:      t.CreatorID,
		ProjectOwnerID: proj.OwnerID,
	}) {
		return nil, ErrForbidden
	}

	if input.Status == "" {
		input.Status = t.Status
	}
	if input.Date.IsZero() {
		input.Date = time.Now()
	}

	update := &DailyUpdate{
		ID:        uuid.New(),
		TaskID:    input.TaskID,
		AuthorID:  input.AuthorID,
		Date:      input.Date,
		Progress:  input.Progress,
		Status:    input.Status,
		Notes:     input.Notes,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := update.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, update); err != nil {
		return nil, err
	}
	return update, nil
}

func (s *service) GetUpdate(ctx context.Context, id uuid.UUID) (*DailyUpdate, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) ListByTask(ctx context.Context, taskID uuid.UUID, page, pageSize int) ([]DailyUpdate, int64, error) {
	return s.repo.FindAll(ctx, Filter{TaskID: &taskID, Page: page, PageSize: pageSize})
}

func (s *service) DeleteUpdate(ctx context.Context, id uuid.UUID, requesterID uuid.UUID) (bool, error) {
	update, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == ErrUpdateNotFound {
			return false, nil
		}
		return false, err
	}

	if !authz.CanDeleteDailyUpdate(requesterID, update.AuthorID) {
		return false, ErrForbidden
	}

	return s.repo.Delete(ctx, id)
}
