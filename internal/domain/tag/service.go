package tag

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type CreateTagInput struct {
	Name  string `validate:"required,max=100"`
	Color string
}

type UpdateTagInput struct {
	Name  *string
	Color *string
}

// Service defines the tag service interface
type Service interface {
	CreateTag(ctx context.Context, input CreateTagInput) (*Tag, error)
	GetTag(ctx context.Context, id uuid.UUID) (*Tag, error)
	ListTags(ctx context.Context, page, pageSize int) ([]Tag, int64, error)
	UpdateTag(ctx context.Context, id uuid.UUID, input UpdateTagInput) (*Tag, error)
	DeleteTag(ctx context.Context, id uuid.UUID) (bool, error)

	TagTask(ctx context.Context, taskID, tagID uuid.UUID) error
	UntagTask(ctx context.Context, taskID, tagID uuid.UUID) error
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]Tag, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateTag(ctx context.Context, input CreateTagInput) (*Tag, error) {
	tag := &Tag{
		ID:        uuid.New(),
		Name:      input.Name,
		Color:     input.Color,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := s.repo.Create(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *service) GetTag(ctx context.Context, id uuid.UUID) (*Tag, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) ListTags(ctx context.Context, page, pageSize int) ([]Tag, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize)
}

func (s *service) UpdateTag(ctx context.Context, id uuid.UUID, input UpdateTagInput) (*Tag, error) {
	tag, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		tag.Name = *input.Name
	}
	if input.Color != nil {
		tag.Color = *input.Color
	}
	tag.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *service) DeleteTag(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.repo.Delete(ctx, id)
}

func (s *service) TagTask(ctx context.Context, taskID, tagID uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, tagID); err != nil {
		return err
	}
	return s.repo.Attach(ctx, taskID, tagID)
}

func (s *service) UntagTask(ctx context.Context, taskID, tagID uuid.UUID) error {
	removed, err := s.repo.Detach(ctx, taskID, tagID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotTagged
	}
	return nil
}

func (s *service) ListByTask(ctx context.Context, taskID uuid.UUID) ([]Tag, error) {
	return s.repo.FindByTask(ctx, taskID)
}
