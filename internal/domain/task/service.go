package task

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/karnworkspace/taskflow/internal/domain/activity"
	"github.com/karnworkspace/taskflow/internal/domain/authz"
	"github.com/karnworkspace/taskflow/internal/domain/notification"
	"github.com/karnworkspace/taskflow/internal/domain/project"
	"github.com/karnworkspace/taskflow/pkg/logger"
	"go.uber.org/zap"
)

// ProjectSource is the slice of the project repository the task service
// needs for ownership checks and notification payloads.
type ProjectSource interface {
	FindByID(ctx context.Context, id uuid.UUID) (*project.Project, error)
}

type CreateTaskInput struct {
	Title        string
	Description  string
	Status       Status
	Priority     Priority
	ProjectID    uuid.UUID
	AssigneeID   *uuid.UUID
	ParentTaskID *uuid.UUID
	StartDate    *time.Time
	DueDate      *time.Time
	CreatorID    uuid.UUID
}

type UpdateTaskInput struct {
	Title       *string
	Description *string
	Priority    *Priority
	AssigneeID  *uuid.UUID
	StartDate   *time.Time
	DueDate     *time.Time
	Progress    *int
}

// Service defines the task service interface
type Service interface {
	CreateTask(ctx context.Context, input CreateTaskInput) (*Task, error)
	GetTask(ctx context.Context, id uuid.UUID) (*Task, error)
	ListTasks(ctx context.Context, filter Filter) ([]Task, int64, error)
	GetMyTasks(ctx context.Context, userID uuid.UUID, filter Filter) ([]Task, int64, error)
	UpdateTask(ctx context.Context, id uuid.UUID, input UpdateTaskInput, requesterID uuid.UUID) (*Task, error)
	UpdateTaskStatus(ctx context.Context, id uuid.UUID, status Status, progress int, requesterID uuid.UUID) (*Task, error)
	// DeleteTask reports false when the task does not exist; deleting the
	// same id twice yields true then false, never an error.
	DeleteTask(ctx context.Context, id uuid.UUID, requesterID uuid.UUID) (bool, error)
	GetTaskStats(ctx context.Context, projectID *uuid.UUID) (*Stats, error)
}

type service struct {
	repo     Repository
	projects ProjectSource
	notifier notification.Service
	recorder activity.Service
	logger   *logger.Logger
}

func NewService(repo Repository, projects ProjectSource, notifier notification.Service, recorder activity.Service, log *logger.Logger) Service {
	return &service{
		repo:     repo,
		projects: projects,
		notifier: notifier,
		recorder: recorder,
		logger:   log,
	}
}

func (s *service) CreateTask(ctx context.Context, input CreateTaskInput) (*Task, error) {
	if input.Status == "" {
		input.Status = StatusTodo
	}
	if input.Priority == "" {
		input.Priority = PriorityMedium
	}

	// Creating a task requires an existing project.
	proj, err := s.projects.FindByID(ctx, input.ProjectID)
	if err != nil {
		return nil, err
	}

	task := &Task{
		ID:           uuid.New(),
		Title:        input.Title,
		Description:  input.Description,
		Status:       input.Status,
		Priority:     input.Priority,
		Progress:     0,
		ProjectID:    input.ProjectID,
		AssigneeID:   input.AssigneeID,
		ParentTaskID: input.ParentTaskID,
		StartDate:    input.StartDate,
		DueDate:      input.DueDate,
		CreatorID:    input.CreatorID,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, err
	}

	if task.AssigneeID != nil && *task.AssigneeID != task.CreatorID {
		s.notifyAssigned(ctx, task, *task.AssigneeID, proj.Name)
	}

	s.record(ctx, activity.RecordInput{
		UserID:     task.CreatorID,
		Action:     activity.ActionCreated,
		EntityType: "task",
		EntityID:   task.ID,
		ProjectID:  &task.ProjectID,
		TaskID:     &task.ID,
		Metadata:   map[string]interface{}{"title": task.Title},
	})

	return task, nil
}

func (s *service) GetTask(ctx context.Context, id uuid.UUID) (*Task, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) ListTasks(ctx context.Context, filter Filter) ([]Task, int64, error) {
	return s.repo.FindAll(ctx, filter)
}

func (s *service) GetMyTasks(ctx context.Context, userID uuid.UUID, filter Filter) ([]Task, int64, error) {
	return s.repo.FindMine(ctx, userID, filter)
}

func (s *service) UpdateTask(ctx context.Context, id uuid.UUID, input UpdateTaskInput, requesterID uuid.UUID) (*Task, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	proj, err := s.projects.FindByID(ctx, task.ProjectID)
	if err != nil {
		return nil, err
	}

	if !authz.CanMutateTask(requesterID, authz.TaskSnapshot{
		AssigneeID:     task.AssigneeID,
		CreatorID:      task.CreatorID,
		ProjectOwnerID: proj.OwnerID,
	}) {
		return nil, ErrForbidden
	}

	oldAssignee := task.AssigneeID
	changed := []string{}

	if input.Title != nil && *input.Title != task.Title {
		task.Title = *input.Title
		changed = append(changed, "title")
	}
	if input.Description != nil && *input.Description != task.Description {
		task.Description = *input.Description
		changed = append(changed, "description")
	}
	if input.Priority != nil && *input.Priority != task.Priority {
		if !input.Priority.IsValid() {
			return nil, ErrInvalidInput
		}
		task.Priority = *input.Priority
		changed = append(changed, "priority")
	}
	assigneeChanged := false
	if input.AssigneeID != nil && (oldAssignee == nil || *input.AssigneeID != *oldAssignee) {
		task.AssigneeID = input.AssigneeID
		assigneeChanged = true
		changed = append(changed, "assignee_id")
	}
	if input.StartDate != nil {
		task.StartDate = input.StartDate
		changed = append(changed, "start_date")
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
		changed = append(changed, "due_date")
	}
	if input.Progress != nil && *input.Progress != task.Progress {
		if *input.Progress < 0 || *input.Progress > 100 {
			return nil, ErrInvalidInput
		}
		task.Progress = *input.Progress
		changed = append(changed, "progress")
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	task.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}

	if assigneeChanged && task.AssigneeID != nil {
		s.notifyAssigned(ctx, task, *task.AssigneeID, proj.Name)
	}

	if len(changed) > 0 {
		s.record(ctx, activity.RecordInput{
			UserID:     requesterID,
			Action:     activity.ActionUpdated,
			EntityType: "task",
			EntityID:   task.ID,
			ProjectID:  &task.ProjectID,
			TaskID:     &task.ID,
			Metadata:   map[string]interface{}{"changed_fields": changed},
		})
	}

	return task, nil
}

func (s *service) UpdateTaskStatus(ctx context.Context, id uuid.UUID, status Status, progress int, requesterID uuid.UUID) (*Task, error) {
	if !status.IsValid() {
		return nil, ErrInvalidInput
	}
	if progress < 0 || progress > 100 {
		return nil, ErrInvalidInput
	}

	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	proj, err := s.projects.FindByID(ctx, task.ProjectID)
	if err != nil {
		return nil, err
	}

	if !authz.CanMutateTask(requesterID, authz.TaskSnapshot{
		AssigneeID:     task.AssigneeID,
		CreatorID:      task.CreatorID,
		ProjectOwnerID: proj.OwnerID,
	}) {
		return nil, ErrForbidden
	}

	oldStatus := task.Status
	task.Status = status
	task.Progress = progress
	task.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}

	if status == StatusDone && oldStatus != StatusDone {
		if requesterID != task.CreatorID {
			if _, err := s.notifier.Notify(ctx, notification.NotifyInput{
				UserID:    task.CreatorID,
				Type:      notification.TaskCompleted,
				Title:     "Task completed",
				Content:   task.Title,
				TaskID:    &task.ID,
				ProjectID: &task.ProjectID,
				Data:      map[string]string{"project": proj.Name},
			}); err != nil {
				s.logger.Error("failed to emit completion notification", zap.Error(err))
			}
		}
		s.record(ctx, activity.RecordInput{
			UserID:     requesterID,
			Action:     activity.ActionCompleted,
			EntityType: "task",
			EntityID:   task.ID,
			ProjectID:  &task.ProjectID,
			TaskID:     &task.ID,
			Metadata:   map[string]interface{}{"old_status": string(oldStatus)},
		})
	} else {
		s.record(ctx, activity.RecordInput{
			UserID:     requesterID,
			Action:     activity.ActionUpdated,
			EntityType: "task",
			EntityID:   task.ID,
			ProjectID:  &task.ProjectID,
			TaskID:     &task.ID,
			Metadata: map[string]interface{}{
				"old_status": string(oldStatus),
				"new_status": string(status),
			},
		})
	}

	return task, nil
}

func (s *service) DeleteTask(ctx context.Context, id uuid.UUID, requesterID uuid.UUID) (bool, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == ErrTaskNotFound {
			return false, nil
		}
		return false, err
	}

	proj, err := s.projects.FindByID(ctx, task.ProjectID)
	if err != nil {
		return false, err
	}

	if !authz.CanMutateTask(requesterID, authz.TaskSnapshot{
		AssigneeID:     task.AssigneeID,
		CreatorID:      task.CreatorID,
		ProjectOwnerID: proj.OwnerID,
	}) {
		return false, ErrForbidden
	}

	// Logged before removal so the entry survives the delete.
	s.record(ctx, activity.RecordInput{
		UserID:     requesterID,
		Action:     activity.ActionDeleted,
		EntityType: "task",
		EntityID:   task.ID,
		ProjectID:  &task.ProjectID,
		Metadata:   map[string]interface{}{"title": task.Title},
	})

	return s.repo.Delete(ctx, id)
}

func (s *service) GetTaskStats(ctx context.Context, projectID *uuid.UUID) (*Stats, error) {
	counts, err := s.repo.CountByStatus(ctx, projectID)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		Todo:       counts[StatusTodo],
		InProgress: counts[StatusInProgress],
		InReview:   counts[StatusInReview],
		Done:       counts[StatusDone],
		Blocked:    counts[StatusBlocked],
		Hold:       counts[StatusHold],
		Cancelled:  counts[StatusCancelled],
	}
	stats.Total = stats.Todo + stats.InProgress + stats.InReview + stats.Done + stats.Blocked
	if stats.Total > 0 {
		stats.CompletionRate = int(math.Round(float64(stats.Done) / float64(stats.Total) * 100))
	}

	return stats, nil
}

func (s *service) notifyAssigned(ctx context.Context, task *Task, assigneeID uuid.UUID, projectName string) {
	if _, err := s.notifier.Notify(ctx, notification.NotifyInput{
		UserID:    assigneeID,
		Type:      notification.TaskAssigned,
		Title:     "Task assigned to you",
		Content:   task.Title,
		TaskID:    &task.ID,
		ProjectID: &task.ProjectID,
		Data:      map[string]string{"project": projectName},
	}); err != nil {
		s.logger.Error("failed to emit assignment notification", zap.Error(err))
	}
}

// record appends an activity entry; a failure here never rolls back the
// primary write.
func (s *service) record(ctx context.Context, input activity.RecordInput) {
	if _, err := s.recorder.Record(ctx, input); err != nil {
		s.logger.Error("failed to record activity", zap.Error(err))
	}
}
