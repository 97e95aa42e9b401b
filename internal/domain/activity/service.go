package activity

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RecordInput is the typed payload for an activity append.
type RecordInput struct {
	UserID     uuid.UUID
	Action     Action
	EntityType string
	EntityID   uuid.UUID
	Metadata   map[string]interface{}
	ProjectID  *uuid.UUID
	TaskID     *uuid.UUID
}

// Service records and lists activity log entries. Records are append-only:
// there is no update or delete path.
type Service interface {
	Record(ctx context.Context, input RecordInput) (*Log, error)
	List(ctx context.Context, filter Filter) ([]Log, int64, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Record(ctx context.Context, input RecordInput) (*Log, error) {
	if !input.Action.IsValid() || input.EntityType == "" || input.UserID == uuid.Nil {
		return nil, ErrInvalidInput
	}

	var metadata datatypes.JSON
	if input.Metadata != nil {
		b, err := json.Marshal(input.Metadata)
		if err == nil {
			metadata = datatypes.JSON(b)
		}
	}

	log := &Log{
		ID:         uuid.New(),
		UserID:     input.UserID,
		Action:     input.Action,
		EntityType: input.EntityType,
		EntityID:   input.EntityID,
		Metadata:   metadata,
		ProjectID:  input.ProjectID,
		TaskID:     input.TaskID,
	}

	if err := s.repo.Create(ctx, log); err != nil {
		return nil, err
	}
	return log, nil
}

func (s *service) List(ctx context.Context, filter Filter) ([]Log, int64, error) {
	return s.repo.FindAll(ctx, filter)
}
