package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/karnworkspace/taskflow/internal/domain/project"
)

type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
}

type UpdateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Color       *string `json:"color"`
	Icon        *string `json:"icon"`
}

type AddMemberRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
	Role   string    `json:"role" binding:"required"`
}

type ChangeMemberRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

type ProjectResponse struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description,omitempty"`
	Status           string    `json:"status"`
	Color            string    `json:"color,omitempty"`
	Icon             string    `json:"icon,omitempty"`
	OwnerID          uuid.UUID `json:"owner_id"`
	TimelineCategory string    `json:"timeline_category,omitempty"`
	TimelineCode     string    `json:"timeline_code,omitempty"`
	SortOrder        int       `json:"sort_order"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func ProjectToResponse(p *project.Project) ProjectResponse {
	return ProjectResponse{
		ID:               p.ID,
		Name:             p.Name,
		Description:      p.Description,
		Status:           string(p.Status),
		Color:            p.Color,
		Icon:             p.Icon,
		OwnerID:          p.OwnerID,
		TimelineCategory: p.TimelineCategory,
		TimelineCode:     p.TimelineCode,
		SortOrder:        p.SortOrder,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func ProjectsToResponse(projects []project.Project) []ProjectResponse {
	out := make([]ProjectResponse, len(projects))
	for i := range projects {
		out[i] = ProjectToResponse(&projects[i])
	}
	return out
}

type MemberResponse struct {
	UserID   uuid.UUID `json:"user_id"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

func MembersToResponse(members []project.Member) []MemberResponse {
	out := make([]MemberResponse, len(members))
	for i, m := range members {
		out[i] = MemberResponse{UserID: m.UserID, Role: m.Role, JoinedAt: m.JoinedAt}
	}
	return out
}
