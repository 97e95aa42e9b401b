package notification

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/karnworkspace/taskflow/internal/infrastructure/persistence/postgres/connection"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newNotificationService(t *testing.T) Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Notification{}))

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return NewService(NewRepository(connection.Wrap(db), log), log)
}

func TestNotifyValidation(t *testing.T) {
	svc := newNotificationService(t)
	ctx := context.Background()

	_, err := svc.Notify(ctx, NotifyInput{Type: TaskAssigned, Title: "x"})
	assert.ErrorIs(t, err, ErrInvalidInput, "missing recipient")

	_, err = svc.Notify(ctx, NotifyInput{UserID: uuid.New(), Type: Type("SHOUT"), Title: "x"})
	assert.ErrorIs(t, err, ErrInvalidInput, "unknown type")

	_, err = svc.Notify(ctx, NotifyInput{UserID: uuid.New(), Type: TaskAssigned})
	assert.ErrorIs(t, err, ErrInvalidInput, "missing title")
}

func TestUnreadLifecycle(t *testing.T) {
	svc := newNotificationService(t)
	ctx := context.Background()
	userID := uuid.New()

	first, err := svc.Notify(ctx, NotifyInput{UserID: userID, Type: TaskAssigned, Title: "New task"})
	require.NoError(t, err)
	_, err = svc.Notify(ctx, NotifyInput{UserID: userID, Type: CommentAdded, Title: "New comment"})
	require.NoError(t, err)

	count, err := svc.CountUnread(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, svc.MarkAsRead(ctx, userID, first.ID))
	count, err = svc.CountUnread(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	got, err := svc.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, got.IsRead)
	assert.NotNil(t, got.ReadAt)

	require.NoError(t, svc.MarkAllAsRead(ctx, userID))
	count, err = svc.CountUnread(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestMarkAsReadOwnershipCheck(t *testing.T) {
	svc := newNotificationService(t)
	ctx := context.Background()

	n, err := svc.Notify(ctx, NotifyInput{UserID: uuid.New(), Type: TaskDueSoon, Title: "Due soon"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.MarkAsRead(ctx, uuid.New(), n.ID), ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, uuid.New(), n.ID), ErrForbidden)
	assert.ErrorIs(t, svc.MarkAsRead(ctx, uuid.New(), uuid.New()), ErrNotFound)
}

func TestListForUserFilters(t *testing.T) {
	svc := newNotificationService(t)
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.Notify(ctx, NotifyInput{UserID: userID, Type: TaskAssigned, Title: "a"})
	require.NoError(t, err)
	second, err := svc.Notify(ctx, NotifyInput{UserID: userID, Type: TaskOverdue, Title: "b"})
	require.NoError(t, err)
	_, err = svc.Notify(ctx, NotifyInput{UserID: uuid.New(), Type: TaskAssigned, Title: "other user"})
	require.NoError(t, err)

	all, total, err := svc.ListForUser(ctx, userID, Filter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, all, 2)

	overdue := TaskOverdue
	byType, total, err := svc.ListForUser(ctx, userID, Filter{Type: &overdue, Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, second.ID, byType[0].ID)

	require.NoError(t, svc.MarkAsRead(ctx, userID, second.ID))
	unread, total, err := svc.ListForUser(ctx, userID, Filter{UnreadOnly: true, Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, unread, 1)
	assert.False(t, unread[0].IsRead)
}

func TestHasOverdueNoticeSince(t *testing.T) {
	svc := newNotificationService(t)
	ctx := context.Background()
	userID := uuid.New()
	taskID := uuid.New()

	since := time.Now().Add(-time.Hour)

	found, err := svc.HasOverdueNoticeSince(ctx, userID, taskID, since)
	require.NoError(t, err)
	assert.False(t, found)

	_, err = svc.Notify(ctx, NotifyInput{UserID: userID, Type: TaskOverdue, Title: "Overdue", TaskID: &taskID})
	require.NoError(t, err)

	found, err = svc.HasOverdueNoticeSince(ctx, userID, taskID, since)
	require.NoError(t, err)
	assert.True(t, found)

	// A notice for a different task does not satisfy the check.
	found, err = svc.HasOverdueNoticeSince(ctx, userID, uuid.New(), since)
	require.NoError(t, err)
	assert.False(t, found)
}
