package comment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/karnworkspace/taskflow/internal/domain/activity"
	"github.com/karnworkspace/taskflow/internal/domain/authz"
	"github.com/karnworkspace/taskflow/internal/domain/notification"
	"github.com/karnworkspace/taskflow/internal/domain/project"
	"github.com/karnworkspace/taskflow/internal/domain/task"
	"github.com/karnworkspace/taskflow/pkg/logger"
	"go.uber.org/zap"
)

// TaskSource is the slice of the task repository needed to anchor comments.
type TaskSource interface {
	FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error)
}

// ProjectSource resolves project ownership for delete permission checks.
type ProjectSource interface {
	FindByID(ctx context.Context, id uuid.UUID) (*project.Project, error)
}

type AttachmentInput struct {
	FileName string
	FilePath string
	MimeType string
	Size     int64
}

type CreateCommentInput struct {
	TaskID          uuid.UUID
	AuthorID        uuid.UUID
	Content         string
	ParentCommentID *uuid.UUID
	Attachments     []AttachmentInput
}

// Service defines the comment service interface
type Service interface {
	CreateComment(ctx context.Context, input CreateCommentInput) (*Comment, error)
	GetComment(ctx context.Context, id uuid.UUID) (*Comment, error)
	ListByTask(ctx context.Context, taskID uuid.UUID, page, pageSize int) ([]Comment, int64, error)
	UpdateComment(ctx context.Context, id uuid.UUID, content string, requesterID uuid.UUID) (*Comment, error)
	// DeleteComment reports false when the comment does not exist.
	DeleteComment(ctx context.Context, id uuid.UUID, requesterID uuid.UUID) (bool, error)
}

type service struct {
	repo     Repository
	tasks    TaskSource
	projects ProjectSource
	notifier notification.Service
	recorder activity.Service
	logger   *logger.Logger
}

func NewService(repo Repository, tasks TaskSource, projects ProjectSource, notifier notification.Service, recorder activity.Service, log *logger.Logger) Service {
	return &service{
		repo:     repo,
		tasks:    tasks,
		projects: projects,
		notifier: notifier,
		recorder: recorder,
		logger:   log,
	}
}

func (s *service) CreateComment(ctx context.Context, input CreateCommentInput) (*Comment, error) {
	t, err := s.tasks.FindByID(ctx, input.TaskID)
	if err != nil {
		return nil, err
	}

	if input.ParentCommentID != nil {
		parent, err := s.repo.FindByID(ctx, *input.ParentCommentID)
		if err != nil {
			return nil, err
		}
		if parent.TaskID != input.TaskID {
			return nil, ErrInvalidInput
		}
		if parent.ParentCommentID != nil {
			return nil, ErrThreadDepth
		}
	}

	comment := &Comment{
		ID:              uuid.New(),
		TaskID:          input.TaskID,
		AuthorID:        input.AuthorID,
		Content:         input.Content,
		ParentCommentID: input.ParentCommentID,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	for _, a := range input.Attachments {
		comment.Attachments = append(comment.Attachments, Attachment{
			ID:       uuid.New(),
			FileName: a.FileName,
			FilePath: a.FilePath,
			MimeType: a.MimeType,
			Size:     a.Size,
		})
	}
	if err := comment.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.notifyParticipants(ctx, t, comment)

	if _, err := s.recorder.Record(ctx, activity.RecordInput{
		UserID:     input.AuthorID,
		Action:     activity.ActionCommented,
		EntityType: "comment",
		EntityID:   comment.ID,
		ProjectID:  &t.ProjectID,
		TaskID:     &t.ID,
		Metadata:   map[string]interface{}{"task_title": t.Title},
	}); err != nil {
		s.logger.Error("failed to record activity", zap.Error(err))
	}

	return comment, nil
}

func (s *service) GetComment(ctx context.Context, id uuid.UUID) (*Comment, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) ListByTask(ctx context.Context, taskID uuid.UUID, page, pageSize int) ([]Comment, int64, error) {
	return s.repo.FindAll(ctx, Filter{TaskID: &taskID, Page: page, PageSize: pageSize})
}

func (s *service) UpdateComment(ctx context.Context, id uuid.UUID, content string, requesterID uuid.UUID) (*Comment, error) {
	comment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// Editing is author-only; the wider delete permission does not apply.
	if comment.AuthorID != requesterID {
		return nil, ErrForbidden
	}

	comment.Content = content
	if err := comment.Validate(); err != nil {
		return nil, err
	}
	comment.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *service) DeleteComment(ctx context.Context, id uuid.UUID, requesterID uuid.UUID) (bool, error) {
	comment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == ErrCommentNotFound {
			return false, nil
		}
		return false, err
	}

	t, err := s.tasks.FindByID(ctx, comment.TaskID)
	if err != nil {
		return false, err
	}
	proj, err := s.projects.FindByID(ctx, t.ProjectID)
	if err != nil {
		return false, err
	}

	if !authz.CanDeleteComment(requesterID, authz.CommentSnapshot{
		AuthorID:       comment.AuthorID,
		TaskCreatorID:  t.CreatorID,
		ProjectOwnerID: proj.OwnerID,
	}) {
		return false, ErrForbidden
	}

	return s.repo.Delete(ctx, id)
}

// notifyParticipants fans COMMENT_ADDED out to the task creator and assignee,
// skipping the comment's author and never notifying the same user twice.
func (s *service) notifyParticipants(ctx context.Context, t *task.Task, comment *Comment) {
	targets := map[uuid.UUID]struct{}{}
	if t.CreatorID != comment.AuthorID {
		targets[t.CreatorID] = struct{}{}
	}
	if t.AssigneeID != nil && *t.AssigneeID != comment.AuthorID {
		targets[*t.AssigneeID] = struct{}{}
	}

	for userID := range targets {
		if _, err := s.notifier.Notify(ctx, notification.NotifyInput{
			UserID:    userID,
			Type:      notification.CommentAdded,
			Title:     "New comment on " + t.Title,
			Content:   comment.Content,
			TaskID:    &t.ID,
			ProjectID: &t.ProjectID,
		}); err != nil {
			s.logger.Error("failed to emit comment notification", zap.Error(err))
		}
	}
}
