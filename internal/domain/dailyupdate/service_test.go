package dailyupdate

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
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

type updateFixture struct {
	svc      Service
	task     *task.Task
	owner    uuid.UUID
	assignee uuid.UUID
}

func newUpdateFixture(t *testing.T) *updateFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&DailyUpdate{}))

	ownerID := uuid.New()
	assigneeID := uuid.New()
	proj := &project.Project{ID: uuid.New(), Name: "Data Cleanup", OwnerID: ownerID}
	tk := &task.Task{
		ID:         uuid.New(),
		Title:      "Deduplicate customer records",
		Status:     task.StatusInProgress,
		Priority:   task.PriorityMedium,
		ProjectID:  proj.ID,
		CreatorID:  ownerID,
		AssigneeID: &assigneeID,
	}

	svc := NewService(
		NewRepository(connection.Wrap(db)),
		&stubTasks{task: tk},
		&stubProjects{project: proj},
		logger.NewLoggerWithLevel("error"),
	)

	return &updateFixture{svc: svc, task: tk, owner: ownerID, assignee: assigneeID}
}

func TestCreateUpdatePermissions(t *testing.T) {
	f := newUpdateFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		author  uuid.UUID
		allowed bool
	}{
		{name: "assignee", author: f.assignee, allowed: true},
		{name: "creator and owner", author: f.owner, allowed: true},
		{name: "stranger", author: uuid.New(), allowed: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateUpdate(ctx, CreateUpdateInput{
				TaskID:   f.task.ID,
				AuthorID: tt.author,
				Progress: 40,
				Notes:    "Merged the first batch",
			})
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrForbidden)
			}
		})
	}
}

func TestCreateUpdateDefaults(t *testing.T) {
	f := newUpdateFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateUpdate(ctx, CreateUpdateInput{
		TaskID:   f.task.ID,
		AuthorID: f.assignee,
		Progress: 55,
	})
	require.NoError(t, err)

	// Status falls back to the task's current status; date to now.
	assert.Equal(t, task.StatusInProgress, created.Status)
	assert.False(t, created.Date.IsZero())
}

func TestCreateUpdateProgressBounds(t *testing.T) {
	f := newUpdateFixture(t)
	ctx := context.Background()

	for _, progress := range []int{-5, 101} {
		_, err := f.svc.CreateUpdate(ctx, CreateUpdateInput{
			TaskID:   f.task.ID,
			AuthorID: f.assignee,
			Progress: progress,
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestDeleteUpdateAuthorOnly(t *testing.T) {
	f := newUpdateFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateUpdate(ctx, CreateUpdateInput{
		TaskID:   f.task.ID,
		AuthorID: f.assignee,
		Progress: 70,
	})
	require.NoError(t, err)

	// Project owner cannot delete someone else's update.
	_, err = f.svc.DeleteUpdate(ctx, created.ID, f.owner)
	assert.ErrorIs(t, err, ErrForbidden)

	deleted, err := f.svc.DeleteUpdate(ctx, created.ID, f.assignee)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = f.svc.DeleteUpdate(ctx, created.ID, f.assignee)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestListByTaskOrdersNewestFirst(t *testing.T) {
	f := newUpdateFixture(t)
	ctx := context.Background()

	day1 := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC)

	for _, d := range []time.Time{day1, day2} {
		_, err := f.svc.CreateUpdate(ctx, CreateUpdateInput{
			TaskID:   f.task.ID,
			AuthorID: f.assignee,
			Date:     d,
			Progress: 50,
		})
		require.NoError(t, err)
	}

	updates, total, err := f.svc.ListByTask(ctx, f.task.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, updates, 2)
	assert.True(t, updates[0].Date.After(updates[1].Date))
}
