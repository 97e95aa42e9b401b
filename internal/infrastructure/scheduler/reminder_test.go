package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/karnworkspace/taskflow/internal/domain/notification"
	"github.com/karnworkspace/taskflow/internal/domain/task"
	"github.com/karnworkspace/taskflow/internal/infrastructure/persistence/postgres/connection"
	"github.com/karnworkspace/taskflow/pkg/logger"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type reminderFixture struct {
	reminder      *Reminder
	tasks         task.Repository
	notifications notification.Service
	assignee      uuid.UUID
	projectID     uuid.UUID
}

func newReminderFixture(t *testing.T) *reminderFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&task.Task{}, &notification.Notification{}))

	wrapped := connection.Wrap(db)
	logrusLog := logrus.New()
	logrusLog.SetLevel(logrus.ErrorLevel)

	taskRepo := task.NewRepository(wrapped)
	notifSvc := notification.NewService(notification.NewRepository(wrapped, logrusLog), logrusLog)

	return &reminderFixture{
		reminder:      NewReminder(taskRepo, notifSvc, 24*time.Hour, logger.NewLoggerWithLevel("error")),
		tasks:         taskRepo,
		notifications: notifSvc,
		assignee:      uuid.New(),
		projectID:     uuid.New(),
	}
}

func (f *reminderFixture) seedTask(t *testing.T, title string, status task.Status, due time.Time, assigned bool) {
	t.Helper()
	tk := &task.Task{
		ID:        uuid.New(),
		Title:     title,
		Status:    status,
		Priority:  task.PriorityMedium,
		ProjectID: f.projectID,
		CreatorID: uuid.New(),
		DueDate:   &due,
	}
	if assigned {
		tk.AssigneeID = &f.assignee
	}
	require.NoError(t, f.tasks.Create(context.Background(), tk))
}

func (f *reminderFixture) notificationsOfType(t *testing.T, typ notification.Type) []notification.Notification {
	t.Helper()
	all, _, err := f.notifications.ListForUser(context.Background(), f.assignee, notification.Filter{Type: &typ})
	require.NoError(t, err)
	return all
}

func TestSweepDueSoonWindow(t *testing.T) {
	f := newReminderFixture(t)
	now := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)

	f.seedTask(t, "due in 6h", task.StatusInProgress, now.Add(6*time.Hour), true)
	f.seedTask(t, "due in 3 days", task.StatusTodo, now.Add(72*time.Hour), true)
	f.seedTask(t, "done already", task.StatusDone, now.Add(2*time.Hour), true)
	f.seedTask(t, "unassigned", task.StatusTodo, now.Add(2*time.Hour), false)

	dueSoon, overdue, err := f.reminder.RunSweep(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, dueSoon)
	assert.Equal(t, 0, overdue)

	got := f.notificationsOfType(t, notification.TaskDueSoon)
	require.Len(t, got, 1)
	assert.Equal(t, "due in 6h", got[0].Content)
}

func TestSweepOverdueDedupSameDay(t *testing.T) {
	f := newReminderFixture(t)
	now := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)

	f.seedTask(t, "slipped yesterday", task.StatusInProgress, now.Add(-20*time.Hour), true)

	_, overdue, err := f.reminder.RunSweep(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, overdue)

	// Second run later the same day must not emit a duplicate.
	_, overdue, err = f.reminder.RunSweep(context.Background(), now.Add(5*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, overdue)

	got := f.notificationsOfType(t, notification.TaskOverdue)
	assert.Len(t, got, 1)
}

func TestSweepOverdueReminderNextDay(t *testing.T) {
	f := newReminderFixture(t)
	day1 := time.Date(2026, 8, 20, 23, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 21, 1, 0, 0, 0, time.UTC)

	f.seedTask(t, "still overdue", task.StatusBlocked, day1.Add(-48*time.Hour), true)

	_, overdue, err := f.reminder.RunSweep(context.Background(), day1)
	require.NoError(t, err)
	assert.Equal(t, 1, overdue)

	// Crossing midnight resets the dedup window.
	_, overdue, err = f.reminder.RunSweep(context.Background(), day2)
	require.NoError(t, err)
	assert.Equal(t, 1, overdue)

	got := f.notificationsOfType(t, notification.TaskOverdue)
	assert.Len(t, got, 2)
}

func TestSweepSkipsTerminalStatuses(t *testing.T) {
	f := newReminderFixture(t)
	now := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)

	f.seedTask(t, "cancelled", task.StatusCancelled, now.Add(-time.Hour), true)
	f.seedTask(t, "done", task.StatusDone, now.Add(-time.Hour), true)
	f.seedTask(t, "on hold but live", task.StatusHold, now.Add(-time.Hour), true)

	_, overdue, err := f.reminder.RunSweep(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, overdue)

	got := f.notificationsOfType(t, notification.TaskOverdue)
	require.Len(t, got, 1)
	assert.Equal(t, "on hold but live", got[0].Content)
}
