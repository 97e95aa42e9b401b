package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/karnworkspace/taskflow/internal/domain/dailyupdate"
)

type CreateDailyUpdateRequest struct {
	Date     *time.Time `json:"date"`
	Progress int        `json:"progress"`
	Status   string     `json:"status"`
	Notes    string     `json:"notes"`
}

type DailyUpdateResponse struct {
	ID        uuid.UUID `json:"id"`
	TaskID    uuid.UUID `json:"task_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Date      time.Time `json:"date"`
	Progress  int       `json:"progress"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func DailyUpdateToResponse(u *dailyupdate.DailyUpdate) DailyUpdateResponse {
	return DailyUpdateResponse{
		ID:        u.ID,
		TaskID:    u.TaskID,
		AuthorID:  u.AuthorID,
		Date:      u.Date,
		Progress:  u.Progress,
		Status:    string(u.Status),
		Notes:     u.Notes,
		CreatedAt: u.CreatedAt,
	}
}

func DailyUpdatesToResponse(updates []dailyupdate.DailyUpdate) []DailyUpdateResponse {
	out := make([]DailyUpdateResponse, len(updates))
	for i := range updates {
		out[i] = DailyUpdateToResponse(&updates[i])
	}
	return out
}
