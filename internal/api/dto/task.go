package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/karnworkspace/taskflow/internal/domain/task"
)

type CreateTaskRequest struct {
	Title        string     `json:"title" binding:"required,max=200"`
	Description  string     `json:"description"`
	Status       string     `json:"status"`
	Priority     string     `json:"priority"`
	AssigneeID   *uuid.UUID `json:"assignee_id"`
	ParentTaskID *uuid.UUID `json:"parent_task_id"`
	StartDate    *time.Time `json:"start_date"`
	DueDate      *time.Time `json:"due_date"`
}

type UpdateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Priority    *string    `json:"priority"`
	AssigneeID  *uuid.UUID `json:"assignee_id"`
	StartDate   *time.Time `json:"start_date"`
	DueDate     *time.Time `json:"due_date"`
	Progress    *int       `json:"progress"`
}

type UpdateTaskStatusRequest struct {
	Status   string `json:"status" binding:"required"`
	Progress int    `json:"progress"`
}

type TaskResponse struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Status       string     `json:"status"`
	Priority     string     `json:"priority"`
	Progress     int        `json:"progress"`
	ProjectID    uuid.UUID  `json:"project_id"`
	AssigneeID   *uuid.UUID `json:"assignee_id,omitempty"`
	CreatorID    uuid.UUID  `json:"creator_id"`
	ParentTaskID *uuid.UUID `json:"parent_task_id,omitempty"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func TaskToResponse(t *task.Task) TaskResponse {
	return TaskResponse{
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		Status:       string(t.Status),
		Priority:     string(t.Priority),
		Progress:     t.Progress,
		ProjectID:    t.ProjectID,
		AssigneeID:   t.AssigneeID,
		CreatorID:    t.CreatorID,
		ParentTaskID: t.ParentTaskID,
		StartDate:    t.StartDate,
		DueDate:      t.DueDate,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

func TasksToResponse(tasks []task.Task) []TaskResponse {
	out := make([]TaskResponse, len(tasks))
	for i := range tasks {
		out[i] = TaskToResponse(&tasks[i])
	}
	return out
}

type TaskStatsResponse struct {
	Total          int64 `json:"total"`
	Todo           int64 `json:"todo"`
	InProgress     int64 `json:"in_progress"`
	InReview       int64 `json:"in_review"`
	Done           int64 `json:"done"`
	Blocked        int64 `json:"blocked"`
	Hold           int64 `json:"hold"`
	Cancelled      int64 `json:"cancelled"`
	CompletionRate int   `json:"completion_rate"`
}

func StatsToResponse(s *task.Stats) TaskStatsResponse {
	return TaskStatsResponse{
		Total:          s.Total,
		Todo:           s.Todo,
		InProgress:     s.InProgress,
		InReview:       s.InReview,
		Done:           s.Done,
		Blocked:        s.Blocked,
		Hold:           s.Hold,
		Cancelled:      s.Cancelled,
		CompletionRate: s.CompletionRate,
	}
}
