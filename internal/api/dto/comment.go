package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/karnworkspace/taskflow/internal/domain/comment"
)

type AttachmentRequest struct {
	FileName string `json:"file_name" binding:"required,max=255"`
	FilePath string `json:"file_path" binding:"required,max=512"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
}

type CreateCommentRequest struct {
	Content         string              `json:"content" binding:"required,max=1000"`
	ParentCommentID *uuid.UUID          `json:"parent_comment_id"`
	Attachments     []AttachmentRequest `json:"attachments"`
}

type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required,max=1000"`
}

type AttachmentResponse struct {
	ID       uuid.UUID `json:"id"`
	FileName string    `json:"file_name"`
	FilePath string    `json:"file_path"`
	MimeType string    `json:"mime_type,omitempty"`
	Size     int64     `json:"size"`
}

type CommentResponse struct {
	ID              uuid.UUID            `json:"id"`
	TaskID          uuid.UUID            `json:"task_id"`
	AuthorID        uuid.UUID            `json:"author_id"`
	Content         string               `json:"content"`
	ParentCommentID *uuid.UUID           `json:"parent_comment_id,omitempty"`
	Attachments     []AttachmentResponse `json:"attachments,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

func CommentToResponse(c *comment.Comment) CommentResponse {
	resp := CommentResponse{
		ID:              c.ID,
		TaskID:          c.TaskID,
		AuthorID:        c.AuthorID,
		Content:         c.Content,
		ParentCommentID: c.ParentCommentID,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
	for _, a := range c.Attachments {
		resp.Attachments = append(resp.Attachments, AttachmentResponse{
			ID:       a.ID,
			FileName: a.FileName,
			FilePath: a.FilePath,
			MimeType: a.MimeType,
			Size:     a.Size,
		})
	}
	return resp
}

func CommentsToResponse(comments []comment.Comment) []CommentResponse {
	out := make([]CommentResponse, len(comments))
	for i := range comments {
		out[i] = CommentToResponse(&comments[i])
	}
	return out
}
