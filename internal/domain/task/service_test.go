package task

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/karnworkspace/taskflow/internal/domain/activity"
	"github.com/karnworkspace/taskflow/internal/domain/notification"
	"github.com/karnworkspace/taskflow/internal/domain/project"
	"github.com/karnworkspace/taskflow/internal/infrastructure/persistence/postgres/connection"
	"github.com/karnworkspace/taskflow/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

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

type serviceFixture struct {
	svc      Service
	repo     Repository
	notifier *capturingNotifier
	recorder *capturingRecorder
	project  *project.Project
	owner    uuid.UUID
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Task{}))

	ownerID := uuid.New()
	proj := &project.Project{
		ID:      uuid.New(),
		Name:    "Platform Migration",
		Status:  project.StatusActive,
		OwnerID: ownerID,
	}

	notifier := &capturingNotifier{}
	recorder := &capturingRecorder{}
	repo := NewRepository(connection.Wrap(db))
	svc := NewService(repo, &stubProjects{project: proj}, notifier, recorder, logger.NewLoggerWithLevel("error"))

	return &serviceFixture{
		svc:      svc,
		repo:     repo,
		notifier: notifier,
		recorder: recorder,
		project:  proj,
		owner:    ownerID,
	}
}

func TestCreateTaskDefaults(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateTask(ctx, CreateTaskInput{
		Title:     "Set up CI pipeline",
		ProjectID: f.project.ID,
		CreatorID: f.owner,
	})
	require.NoError(t, err)

	assert.Equal(t, StatusTodo, created.Status)
	assert.Equal(t, PriorityMedium, created.Priority)
	assert.Equal(t, 0, created.Progress)
	assert.Empty(t, f.notifier.sent, "self-created unassigned task should not notify")

	require.Len(t, f.recorder.entries, 1)
	assert.Equal(t, activity.ActionCreated, f.recorder.entries[0].Action)
	assert.Equal(t, "task", f.recorder.entries[0].EntityType)
}

func TestCreateTaskValidation(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	long := make([]byte, 201)
	for i := range long {
		long[i] = 'x'
	}

	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input CreateTaskInput
	}{
		{
			name:  "empty title",
			input: CreateTaskInput{Title: "", ProjectID: f.project.ID, CreatorID: f.owner},
		},
		{
			name:  "title over 200 chars",
			input: CreateTaskInput{Title: string(long), ProjectID: f.project.ID, CreatorID: f.owner},
		},
		{
			name: "start date after due date",
			input: CreateTaskInput{
				Title:     "Backwards dates",
				ProjectID: f.project.ID,
				CreatorID: f.owner,
				StartDate: &start,
				DueDate:   &due,
			},
		},
		{
			name:  "unknown status",
			input: CreateTaskInput{Title: "Bad status", Status: Status("WAITING"), ProjectID: f.project.ID, CreatorID: f.owner},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateTask(ctx, tt.input)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestCreateTaskNotifiesAssignee(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	assignee := uuid.New()

	_, err := f.svc.CreateTask(ctx, CreateTaskInput{
		Title:      "Review schema changes",
		ProjectID:  f.project.ID,
		CreatorID:  f.owner,
		AssigneeID: &assignee,
	})
	require.NoError(t, err)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, assignee, f.notifier.sent[0].UserID)
	assert.Equal(t, notification.TaskAssigned, f.notifier.sent[0].Type)
}

func TestCreateTaskSelfAssignSkipsNotification(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateTask(ctx, CreateTaskInput{
		Title:      "Write runbook",
		ProjectID:  f.project.ID,
		CreatorID:  f.owner,
		AssigneeID: &f.owner,
	})
	require.NoError(t, err)
	assert.Empty(t, f.notifier.sent)
}

func TestUpdateTaskReassignmentNotifies(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateTask(ctx, CreateTaskInput{
		Title:     "Tune query planner",
		ProjectID: f.project.ID,
		CreatorID: f.owner,
	})
	require.NoError(t, err)

	assignee := uuid.New()
	updated, err := f.svc.UpdateTask(ctx, created.ID, UpdateTaskInput{AssigneeID: &assignee}, f.owner)
	require.NoError(t, err)
	require.NotNil(t, updated.AssigneeID)
	assert.Equal(t, assignee, *updated.AssigneeID)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, notification.TaskAssigned, f.notifier.sent[0].Type)
	assert.Equal(t, assignee, f.notifier.sent[0].UserID)

	// create + update entries
	require.Len(t, f.recorder.entries, 2)
	assert.Equal(t, activity.ActionUpdated, f.recorder.entries[1].Action)
	assert.Contains(t, f.recorder.entries[1].Metadata["changed_fields"], "assignee_id")
}

func TestUpdateTaskForbiddenForStranger(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateTask(ctx, CreateTaskInput{
		Title:     "Rotate credentials",
		ProjectID: f.project.ID,
		CreatorID: f.owner,
	})
	require.NoError(t, err)

	title := "Hijacked"
	_, err = f.svc.UpdateTask(ctx, created.ID, UpdateTaskInput{Title: &title}, uuid.New())
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateTaskProgressBounds(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateTask(ctx, CreateTaskInput{
		Title:     "Load test staging",
		ProjectID: f.project.ID,
		CreatorID: f.owner,
	})
	require.NoError(t, err)

	for _, progress := range []int{-1, 101} {
		p := progress
		_, err := f.svc.UpdateTask(ctx, created.ID, UpdateTaskInput{Progress: &p}, f.owner)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}

	p := 100
	updated, err := f.svc.UpdateTask(ctx, created.ID, UpdateTaskInput{Progress: &p}, f.owner)
	require.NoError(t, err)
	assert.Equal(t, 100, updated.Progress)
}

func TestUpdateTaskStatusCompletionNotifiesCreator(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	assignee := uuid.New()

	created, err := f.svc.CreateTask(ctx, CreateTaskInput{
		Title:      "Ship the release notes",
		ProjectID:  f.project.ID,
		CreatorID:  f.owner,
		AssigneeID: &assignee,
	})
	require.NoError(t, err)
	f.notifier.sent = nil

	// Assignee completes the task; the creator should hear about it.
	updated, err := f.svc.UpdateTaskStatus(ctx, created.ID, StatusDone, 100, assignee)
	require.NoError(t, err)
	assert.Equal(t, StatusDone, updated.Status)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, notification.TaskCompleted, f.notifier.sent[0].Type)
	assert.Equal(t, f.owner, f.notifier.sent[0].UserID)

	last := f.recorder.entries[len(f.recorder.entries)-1]
	assert.Equal(t, activity.ActionCompleted, last.Action)
}

func TestUpdateTaskStatusSelfCompletionSkipsNotification(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateTask(ctx, CreateTaskInput{
		Title:     "Archive old dashboards",
		ProjectID: f.project.ID,
		CreatorID: f.owner,
	})
	require.NoError(t, err)

	_, err = f.svc.UpdateTaskStatus(ctx, created.ID, StatusDone, 100, f.owner)
	require.NoError(t, err)
	assert.Empty(t, f.notifier.sent)
}

func TestDeleteTaskIdempotent(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateTask(ctx, CreateTaskInput{
		Title:     "Remove feature flag",
		ProjectID: f.project.ID,
		CreatorID: f.owner,
	})
	require.NoError(t, err)

	deleted, err := f.svc.DeleteTask(ctx, created.ID, f.owner)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = f.svc.DeleteTask(ctx, created.ID, f.owner)
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = f.svc.GetTask(ctx, created.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestGetMyTasksTriageOrder(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	soon := time.Now().Add(24 * time.Hour)
	later := time.Now().Add(72 * time.Hour)

	mk := func(title string, due *time.Time, priority Priority) {
		_, err := f.svc.CreateTask(ctx, CreateTaskInput{
			Title:      title,
			ProjectID:  f.project.ID,
			CreatorID:  f.owner,
			AssigneeID: &f.owner,
			Priority:   priority,
			DueDate:    due,
		})
		require.NoError(t, err)
	}

	mk("undated low", nil, PriorityLow)
	mk("later urgent", &later, PriorityUrgent)
	mk("soon medium", &soon, PriorityMedium)

	tasks, total, err := f.svc.GetMyTasks(ctx, f.owner, Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, tasks, 3)

	assert.Equal(t, "soon medium", tasks[0].Title)
	assert.Equal(t, "later urgent", tasks[1].Title)
	assert.Equal(t, "undated low", tasks[2].Title)
}

func TestGetMyTasksIncludesCreated(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	assignee := uuid.New()

	// Created by owner but assigned elsewhere: still the owner's task.
	_, err := f.svc.CreateTask(ctx, CreateTaskInput{
		Title:      "Delegate the audit",
		ProjectID:  f.project.ID,
		CreatorID:  f.owner,
		AssigneeID: &assignee,
	})
	require.NoError(t, err)

	tasks, total, err := f.svc.GetMyTasks(ctx, f.owner, Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Delegate the audit", tasks[0].Title)
}

func TestGetTaskStats(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	seed := []Status{
		StatusTodo, StatusTodo,
		StatusInProgress,
		StatusDone, StatusDone, StatusDone,
		StatusBlocked,
		StatusCancelled,
	}
	for i, status := range seed {
		created, err := f.svc.CreateTask(ctx, CreateTaskInput{
			Title:     "Task " + string(rune('A'+i)),
			ProjectID: f.project.ID,
			CreatorID: f.owner,
		})
		require.NoError(t, err)
		if status != StatusTodo {
			_, err = f.svc.UpdateTaskStatus(ctx, created.ID, status, 0, f.owner)
			require.NoError(t, err)
		}
	}

	stats, err := f.svc.GetTaskStats(ctx, &f.project.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.Todo)
	assert.Equal(t, int64(1), stats.InProgress)
	assert.Equal(t, int64(3), stats.Done)
	assert.Equal(t, int64(1), stats.Blocked)
	assert.Equal(t, int64(1), stats.Cancelled)

	// Cancelled is reported but excluded from the tracked total.
	assert.Equal(t, int64(7), stats.Total)
	assert.Equal(t, 43, stats.CompletionRate) // round(3/7*100)
}

func TestGetTaskStatsEmpty(t *testing.T) {
	f := newServiceFixture(t)

	stats, err := f.svc.GetTaskStats(context.Background(), &f.project.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Total)
	assert.Equal(t, 0, stats.CompletionRate)
}
