package tag

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/karnworkspace/taskflow/internal/infrastructure/persistence/postgres/connection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTagService(t *testing.T) Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Tag{}, &TaskTag{}))
	return NewService(NewRepository(connection.Wrap(db)))
}

func TestCreateTagDuplicateName(t *testing.T) {
	svc := newTagService(t)
	ctx := context.Background()

	_, err := svc.CreateTag(ctx, CreateTagInput{Name: "urgent", Color: "#ff0000"})
	require.NoError(t, err)

	_, err = svc.CreateTag(ctx, CreateTagInput{Name: "urgent", Color: "#00ff00"})
	assert.ErrorIs(t, err, ErrNameTaken)
}

func TestTagTaskLifecycle(t *testing.T) {
	svc := newTagService(t)
	ctx := context.Background()
	taskID := uuid.New()

	created, err := svc.CreateTag(ctx, CreateTagInput{Name: "backend", Color: "#3366ff"})
	require.NoError(t, err)

	require.NoError(t, svc.TagTask(ctx, taskID, created.ID))
	// Tagging twice is a no-op, not an error.
	require.NoError(t, svc.TagTask(ctx, taskID, created.ID))

	tags, err := svc.ListByTask(ctx, taskID)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "backend", tags[0].Name)

	require.NoError(t, svc.UntagTask(ctx, taskID, created.ID))
	assert.ErrorIs(t, svc.UntagTask(ctx, taskID, created.ID), ErrNotTagged)
}

func TestTagTaskUnknownTag(t *testing.T) {
	svc := newTagService(t)
	err := svc.TagTask(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrTagNotFound)
}

func TestDeleteTagClearsJoins(t *testing.T) {
	svc := newTagService(t)
	ctx := context.Background()
	taskID := uuid.New()

	created, err := svc.CreateTag(ctx, CreateTagInput{Name: "cleanup"})
	require.NoError(t, err)
	require.NoError(t, svc.TagTask(ctx, taskID, created.ID))

	deleted, err := svc.DeleteTag(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = svc.DeleteTag(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	tags, err := svc.ListByTask(ctx, taskID)
	require.NoError(t, err)
	assert.Empty(t, tags)
}
