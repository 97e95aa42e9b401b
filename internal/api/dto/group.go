package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/karnworkspace/taskflow/internal/domain/group"
)

type CreateGroupRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description"`
	Type        string `json:"type" binding:"required"`
}

type UpdateGroupRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type GroupEntityRequest struct {
	UserID    *uuid.UUID `json:"user_id"`
	ProjectID *uuid.UUID `json:"project_id"`
}

type GroupResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Type        string    `json:"type"`
	CreatorID   uuid.UUID `json:"creator_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func GroupToResponse(g *group.Group) GroupResponse {
	return GroupResponse{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		Type:        string(g.Type),
		CreatorID:   g.CreatorID,
		CreatedAt:   g.CreatedAt,
	}
}

type GroupMemberResponse struct {
	UserID  uuid.UUID `json:"user_id"`
	AddedAt time.Time `json:"added_at"`
}

func GroupMembersToResponse(members []group.GroupMember) []GroupMemberResponse {
	out := make([]GroupMemberResponse, len(members))
	for i, m := range members {
		out[i] = GroupMemberResponse{UserID: m.UserID, AddedAt: m.CreatedAt}
	}
	return out
}

type GroupProjectResponse struct {
	ProjectID uuid.UUID `json:"project_id"`
	AddedAt   time.Time `json:"added_at"`
}

func GroupProjectsToResponse(projects []group.GroupProject) []GroupProjectResponse {
	out := make([]GroupProjectResponse, len(projects))
	for i, p := range projects {
		out[i] = GroupProjectResponse{ProjectID: p.ProjectID, AddedAt: p.CreatedAt}
	}
	return out
}

func GroupsToResponse(groups []group.Group) []GroupResponse {
	out := make([]GroupResponse, len(groups))
	for i := range groups {
		out[i] = GroupToResponse(&groups[i])
	}
	return out
}
