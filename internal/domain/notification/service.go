package notification

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// NotifyInput is the typed payload for one notification append.
type NotifyInput struct {
	UserID    uuid.UUID
	Type      Type
	Title     string
	Content   string
	Data      map[string]string
	TaskID    *uuid.UUID
	ProjectID *uuid.UUID
}

// Service defines the notification service interface
type Service interface {
	Notify(ctx context.Context, input NotifyInput) (*Notification, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Notification, error)
	ListForUser(ctx context.Context, userID uuid.UUID, filter Filter) ([]Notification, int64, error)
	MarkAsRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error

	// HasOverdueNoticeSince supports the reminder sweep's dedup check.
	HasOverdueNoticeSince(ctx context.Context, userID, taskID uuid.UUID, since time.Time) (bool, error)
}

type serviceImpl struct {
	repo   Repository
	logger *logrus.Logger
}

// NewService creates a new notification service
func NewService(repo Repository, logger *logrus.Logger) Service {
	return &serviceImpl{repo: repo, logger: logger}
}

// Notify appends a notification record. There is no idempotency guarantee
// here; callers are responsible for not double-emitting.
func (s *serviceImpl) Notify(ctx context.Context, input NotifyInput) (*Notification, error) {
	if input.UserID == uuid.Nil || !input.Type.IsValid() || input.Title == "" {
		return nil, ErrInvalidInput
	}

	var data datatypes.JSON
	if input.Data != nil {
		if b, err := json.Marshal(input.Data); err == nil {
			data = datatypes.JSON(b)
		}
	}

	n := &Notification{
		ID:        uuid.New(),
		UserID:    input.UserID,
		Type:      input.Type,
		Title:     input.Title,
		Content:   input.Content,
		Data:      data,
		TaskID:    input.TaskID,
		ProjectID: input.ProjectID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.WithError(err).Error("Failed to create notification")
		return nil, err
	}
	return n, nil
}

func (s *serviceImpl) GetByID(ctx context.Context, id uuid.UUID) (*Notification, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *serviceImpl) ListForUser(ctx context.Context, userID uuid.UUID, filter Filter) ([]Notification, int64, error) {
	return s.repo.GetByUserID(ctx, userID, filter)
}

// MarkAsRead marks one notification as read after an ownership check.
func (s *serviceImpl) MarkAsRead(ctx context.Context, userID, id uuid.UUID) error {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if n.UserID != userID {
		return ErrForbidden
	}
	return s.repo.MarkAsRead(ctx, id)
}

func (s *serviceImpl) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *serviceImpl) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

func (s *serviceImpl) Delete(ctx context.Context, userID, id uuid.UUID) error {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if n.UserID != userID {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

func (s *serviceImpl) HasOverdueNoticeSince(ctx context.Context, userID, taskID uuid.UUID, since time.Time) (bool, error) {
	return s.repo.ExistsSince(ctx, userID, taskID, TaskOverdue, since)
}
