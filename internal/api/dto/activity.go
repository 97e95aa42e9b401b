package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/karnworkspace/taskflow/internal/domain/activity"
)

type ActivityResponse struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"user_id"`
	Action     string          `json:"action"`
	EntityType string          `json:"entity_type"`
	EntityID   uuid.UUID       `json:"entity_id"`
	Metadata   json.RawMessage `json:"metadata,omitempty"`
	ProjectID  *uuid.UUID      `json:"project_id,omitempty"`
	TaskID     *uuid.UUID      `json:"task_id,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

func ActivityToResponse(l *activity.Log) ActivityResponse {
	return ActivityResponse{
		ID:         l.ID,
		UserID:     l.UserID,
		Action:     string(l.Action),
		EntityType: l.EntityType,
		EntityID:   l.EntityID,
		Metadata:   json.RawMessage(l.Metadata),
		ProjectID:  l.ProjectID,
		TaskID:     l.TaskID,
		CreatedAt:  l.CreatedAt,
	}
}

func ActivitiesToResponse(logs []activity.Log) []ActivityResponse {
	out := make([]ActivityResponse, len(logs))
	for i := range logs {
		out[i] = ActivityToResponse(&logs[i])
	}
	return out
}
