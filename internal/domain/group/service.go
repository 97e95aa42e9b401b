package group

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/karnworkspace/taskflow/pkg/logger"
)

type CreateGroupInput struct {
	Name        string `validate:"required,max=255"`
	Description string
	Type        Type `validate:"required"`
	CreatorID   uuid.UUID
}

type UpdateGroupInput struct {
	Name        *string
	Description *string
}

// Service defines the group service interface
type Service interface {
	CreateGroup(ctx context.Context, input CreateGroupInput) (*Group, error)
	GetGroup(ctx context.Context, id uuid.UUID) (*Group, error)
	ListGroups(ctx context.Context, filter Filter) ([]Group, int64, error)
	UpdateGroup(ctx context.Context, id uuid.UUID, input UpdateGroupInput, requesterID uuid.UUID) (*Group, error)
	DeleteGroup(ctx context.Context, id uuid.UUID, requesterID uuid.UUID) (bool, error)

	// Membership operations reject entities whose kind does not match the
	// group type.
	AddUser(ctx context.Context, groupID, userID, requesterID uuid.UUID) error
	RemoveUser(ctx context.Context, groupID, userID, requesterID uuid.UUID) error
	ListUsers(ctx context.Context, groupID uuid.UUID) ([]GroupMember, error)
	AddProject(ctx context.Context, groupID, projectID, requesterID uuid.UUID) error
	RemoveProject(ctx context.Context, groupID, projectID, requesterID uuid.UUID) error
	ListProjects(ctx context.Context, groupID uuid.UUID) ([]GroupProject, error)
}

type service struct {
	repo   Repository
	logger *logger.Logger
}

func NewService(repo Repository, log *logger.Logger) Service {
	return &service{repo: repo, logger: log}
}

func (s *service) CreateGroup(ctx context.Context, input CreateGroupInput) (*Group, error) {
	group := &Group{
		ID:          uuid.New(),
		Name:        input.Name,
		Description: input.Description,
		Type:        input.Type,
		CreatorID:   input.CreatorID,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := s.repo.Create(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *service) GetGroup(ctx context.Context, id uuid.UUID) (*Group, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) ListGroups(ctx context.Context, filter Filter) ([]Group, int64, error) {
	return s.repo.FindAll(ctx, filter)
}

func (s *service) UpdateGroup(ctx context.Context, id uuid.UUID, input UpdateGroupInput, requesterID uuid.UUID) (*Group, error) {
	group, err := s.mutableGroup(ctx, id, requesterID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		group.Name = *input.Name
	}
	if input.Description != nil {
		group.Description = *input.Description
	}
	group.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *service) DeleteGroup(ctx context.Context, id uuid.UUID, requesterID uuid.UUID) (bool, error) {
	_, err := s.mutableGroup(ctx, id, requesterID)
	if err != nil {
		if err == ErrGroupNotFound {
			return false, nil
		}
		return false, err
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) AddUser(ctx context.Context, groupID, userID, requesterID uuid.UUID) error {
	group, err := s.mutableGroup(ctx, groupID, requesterID)
	if err != nil {
		return err
	}
	if group.Type != TypeUserGroup {
		return ErrTypeMismatch
	}
	return s.repo.AddUser(ctx, groupID, userID)
}

func (s *service) RemoveUser(ctx context.Context, groupID, userID, requesterID uuid.UUID) error {
	group, err := s.mutableGroup(ctx, groupID, requesterID)
	if err != nil {
		return err
	}
	if group.Type != TypeUserGroup {
		return ErrTypeMismatch
	}
	removed, err := s.repo.RemoveUser(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrMemberNotFound
	}
	return nil
}

func (s *service) ListUsers(ctx context.Context, groupID uuid.UUID) ([]GroupMember, error) {
	return s.repo.ListUsers(ctx, groupID)
}

func (s *service) AddProject(ctx context.Context, groupID, projectID, requesterID uuid.UUID) error {
	group, err := s.mutableGroup(ctx, groupID, requesterID)
	if err != nil {
		return err
	}
	if group.Type != TypeProjectGroup {
		return ErrTypeMismatch
	}
	return s.repo.AddProject(ctx, groupID, projectID)
}

func (s *service) RemoveProject(ctx context.Context, groupID, projectID, requesterID uuid.UUID) error {
	group, err := s.mutableGroup(ctx, groupID, requesterID)
	if err != nil {
		return err
	}
	if group.Type != TypeProjectGroup {
		return ErrTypeMismatch
	}
	removed, err := s.repo.RemoveProject(ctx, groupID, projectID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrMemberNotFound
	}
	return nil
}

func (s *service) ListProjects(ctx context.Context, groupID uuid.UUID) ([]GroupProject, error) {
	return s.repo.ListProjects(ctx, groupID)
}

// mutableGroup loads the group and checks that the requester created it.
func (s *service) mutableGroup(ctx context.Context, id, requesterID uuid.UUID) (*Group, error) {
	group, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if group.CreatorID != requesterID {
		return nil, ErrForbidden
	}
	return group, nil
}
