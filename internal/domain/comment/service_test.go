package comment

import (
	"context"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/karnworkspace/taskflow/internal/domain/activity"
	"github.com/karnworkspace/taskflow/internal/domain/notification"
	"github.com/karnworkspace/taskflow/internal/domain/project"
	"github.com/karnworkspace/taskflow/internal/domain/task"
	"github.com/karnworkspace/taskflow/internal/infrastructure/persistence/postgres/connection"
	"github.com/karnworkspace/taskflow/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubTasks struct {
	task *task.Task
}

func (s *stubTasks) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	if s.task == nil || s.task.ID != id {
		return nil, task.ErrTaskNotFound
	}
	return s.task, nil
}

type stubProjects struct {
	project *project.Project
}

func (s *stubProjects) FindByID(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	if s.project == nil || s.project.ID != id {
		return nil, project.ErrProjectNotFound
	}
	return s.project, nil
}

type capturingNotifier struct {
	notification.Service
	sent []notification.NotifyInput
}

func (c *capturingNotifier) Notify(ctx context.Context, input notification.NotifyInput) (*notification.Notification, error) {
	c.sent = append(c.sent, input)
	return &notification.Notification{ID: uuid.New(), UserID: input.UserID, Type: input.Type}, nil
}

type capturingRecorder struct {
	entries []activity.RecordInput
}

func (c *capturingRecorder) Record(ctx context.Context, input activity.RecordInput) (*activity.Log, error) {
	c.entries = append(c.entries, input)
	return &activity.Log{ID: uuid.New()}, nil
}

func (c *capturingRecorder) List(ctx context.Context, filter activity.Filter) ([]activity.Log, int64, error) {
	return nil, 0, nil
}

type commentFixture struct {
	svc      Service
	notifier *capturingNotifier
	recorder *capturingRecorder
	task     *task.Task
	owner    uuid.UUID
	creator  uuid.UUID
	assignee uuid.UUID
}

func newCommentFixture(t *testing.T) *commentFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Comment{}, &Attachment{}))

	ownerID := uuid.New()
	creatorID := uuid.New()
	assigneeID := uuid.New()

	proj := &project.Project{ID: uuid.New(), Name: "Rollout", OwnerID: ownerID}
	tk := &task.Task{
		ID:         uuid.New(),
		Title:      "Prepare launch checklist",
		Status:     task.StatusInProgress,
		Priority:   task.PriorityHigh,
		ProjectID:  proj.ID,
		CreatorID:  creatorID,
		AssigneeID: &assigneeID,
	}

	notifier := &capturingNotifier{}
	recorder := &capturingRecorder{}
	svc := NewService(
		NewRepository(connection.Wrap(db)),
		&stubTasks{task: tk},
		&stubProjects{project: proj},
		notifier,
		recorder,
		logger.NewLoggerWithLevel("error"),
	)

	return &commentFixture{
		svc:      svc,
		notifier: notifier,
		recorder: recorder,
		task:     tk,
		owner:    ownerID,
		creator:  creatorID,
		assignee: assigneeID,
	}
}

func TestCreateCommentNotifiesCreatorAndAssignee(t *testing.T) {
	f := newCommentFixture(t)
	ctx := context.Background()
	author := uuid.New()

	created, err := f.svc.CreateComment(ctx, CreateCommentInput{
		TaskID:   f.task.ID,
		AuthorID: author,
		Content:  "Checklist item 4 is blocked on the vendor.",
	})
	require.NoError(t, err)
	assert.Equal(t, f.task.ID, created.TaskID)

	require.Len(t, f.notifier.sent, 2)
	notified := map[uuid.UUID]bool{}
	for _, n := range f.notifier.sent {
		assert.Equal(t, notification.CommentAdded, n.Type)
		notified[n.UserID] = true
	}
	assert.True(t, notified[f.creator])
	assert.True(t, notified[f.assignee])

	require.Len(t, f.recorder.entries, 1)
	assert.Equal(t, activity.ActionCommented, f.recorder.entries[0].Action)
}

func TestCreateCommentAuthorNotNotified(t *testing.T) {
	f := newCommentFixture(t)
	ctx := context.Background()

	// The task creator commenting should only notify the assignee.
	_, err := f.svc.CreateComment(ctx, CreateCommentInput{
		TaskID:   f.task.ID,
		AuthorID: f.creator,
		Content:  "Done with my part.",
	})
	require.NoError(t, err)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, f.assignee, f.notifier.sent[0].UserID)
}

func TestCreateCommentContentBounds(t *testing.T) {
	f := newCommentFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		content string
	}{
		{name: "empty", content: ""},
		{name: "whitespace only", content: "   "},
		{name: "over 1000 chars", content: strings.Repeat("a", 1001)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateComment(ctx, CreateCommentInput{
				TaskID:   f.task.ID,
				AuthorID: f.creator,
				Content:  tt.content,
			})
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestCreateReplyDepthLimit(t *testing.T) {
	f := newCommentFixture(t)
	ctx := context.Background()

	root, err := f.svc.CreateComment(ctx, CreateCommentInput{
		TaskID:   f.task.ID,
		AuthorID: f.creator,
		Content:  "Root comment",
	})
	require.NoError(t, err)

	reply, err := f.svc.CreateComment(ctx, CreateCommentInput{
		TaskID:          f.task.ID,
		AuthorID:        f.assignee,
		Content:         "First-level reply",
		ParentCommentID: &root.ID,
	})
	require.NoError(t, err)

	_, err = f.svc.CreateComment(ctx, CreateCommentInput{
		TaskID:          f.task.ID,
		AuthorID:        f.creator,
		Content:         "Nested reply",
		ParentCommentID: &reply.ID,
	})
	assert.ErrorIs(t, err, ErrThreadDepth)
}

func TestCreateCommentWithAttachments(t *testing.T) {
	f := newCommentFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateComment(ctx, CreateCommentInput{
		TaskID:   f.task.ID,
		AuthorID: f.creator,
		Content:  "Screenshot attached.",
		Attachments: []AttachmentInput{
			{FileName: "error.png", FilePath: "/uploads/error.png", MimeType: "image/png", Size: 4096},
		},
	})
	require.NoError(t, err)

	loaded, err := f.svc.GetComment(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Attachments, 1)
	assert.Equal(t, "error.png", loaded.Attachments[0].FileName)
}

func TestUpdateCommentAuthorOnly(t *testing.T) {
	f := newCommentFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateComment(ctx, CreateCommentInput{
		TaskID:   f.task.ID,
		AuthorID: f.assignee,
		Content:  "Original",
	})
	require.NoError(t, err)

	// Even the project owner cannot edit someone else's comment.
	_, err = f.svc.UpdateComment(ctx, created.ID, "Edited", f.owner)
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := f.svc.UpdateComment(ctx, created.ID, "Edited", f.assignee)
	require.NoError(t, err)
	assert.Equal(t, "Edited", updated.Content)
}

func TestDeleteCommentPermissions(t *testing.T) {
	f := newCommentFixture(t)
	ctx := context.Background()

	mk := func() uuid.UUID {
		c, err := f.svc.CreateComment(ctx, CreateCommentInput{
			TaskID:   f.task.ID,
			AuthorID: f.assignee,
			Content:  "Delete me",
		})
		require.NoError(t, err)
		return c.ID
	}

	tests := []struct {
		name      string
		requester uuid.UUID
		allowed   bool
	}{
		{name: "author", requester: f.assignee, allowed: true},
		{name: "task creator", requester: f.creator, allowed: true},
		{name: "project owner", requester: f.owner, allowed: true},
		{name: "stranger", requester: uuid.New(), allowed: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := mk()
			deleted, err := f.svc.DeleteComment(ctx, id, tt.requester)
			if tt.allowed {
				require.NoError(t, err)
				assert.True(t, deleted)
			} else {
				assert.ErrorIs(t, err, ErrForbidden)
			}
		})
	}
}

func TestDeleteCommentIdempotent(t *testing.T) {
	f := newCommentFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateComment(ctx, CreateCommentInput{
		TaskID:   f.task.ID,
		AuthorID: f.creator,
		Content:  "Transient note",
	})
	require.NoError(t, err)

	deleted, err := f.svc.DeleteComment(ctx, created.ID, f.creator)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = f.svc.DeleteComment(ctx, created.ID, f.creator)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestDeleteCommentRemovesReplies(t *testing.T) {
	f := newCommentFixture(t)
	ctx := context.Background()

	root, err := f.svc.CreateComment(ctx, CreateCommentInput{
		TaskID:   f.task.ID,
		AuthorID: f.creator,
		Content:  "Root",
	})
	require.NoError(t, err)

	reply, err := f.svc.CreateComment(ctx, CreateCommentInput{
		TaskID:          f.task.ID,
		AuthorID:        f.assignee,
		Content:         "Reply",
		ParentCommentID: &root.ID,
	})
	require.NoError(t, err)

	deleted, err := f.svc.DeleteComment(ctx, root.ID, f.creator)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = f.svc.GetComment(ctx, reply.ID)
	assert.ErrorIs(t, err, ErrCommentNotFound)
}
