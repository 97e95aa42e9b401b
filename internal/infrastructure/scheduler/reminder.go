package scheduler

import (
	"context"
	"time"

	"github.com/karnworkspace/taskflow/internal/domain/notification"
	"github.com/karnworkspace/taskflow/internal/domain/task"
	"github.com/karnworkspace/taskflow/pkg/logger"
	"go.uber.org/zap"
)

// TaskSource is the slice of the task repository the reminder sweep reads.
type TaskSource interface {
	FindDueBetween(ctx context.Context, from, to time.Time) ([]task.Task, error)
	FindOverdue(ctx context.Context, now time.Time) ([]task.Task, error)
}

// Reminder runs the daily due-soon/overdue sweep over tasks.
type Reminder struct {
	tasks    TaskSource
	notifier notification.Service
	interval time.Duration
	logger   *logger.Logger
	stop     chan struct{}
}

func NewReminder(tasks TaskSource, notifier notification.Service, interval time.Duration, log *logger.Logger) *Reminder {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &Reminder{
		tasks:    tasks,
		notifier: notifier,
		interval: interval,
		logger:   log,
		stop:     make(chan struct{}),
	}
}

// Start runs one sweep immediately, then repeats on the configured interval
// until Stop is called. Sweep errors are logged; the next tick retries.
func (r *Reminder) Start() {
	r.logger.Info("Reminder scheduler initialized",
		zap.Duration("interval", r.interval),
	)

	go func() {
		r.runOnce()

		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				r.runOnce()
			case <-r.stop:
				return
			}
		}
	}()
}

// Stop halts the ticker loop. A sweep already in flight finishes.
func (r *Reminder) Stop() {
	close(r.stop)
}

func (r *Reminder) runOnce() {
	ctx := context.Background()
	start := time.Now()

	dueSoon, overdue, err := r.RunSweep(ctx, start)
	if err != nil {
		r.logger.Error("Reminder sweep failed", zap.Error(err))
		return
	}

	r.logger.Info("Completed reminder sweep",
		zap.Int("due_soon_notified", dueSoon),
		zap.Int("overdue_notified", overdue),
		zap.Duration("duration", time.Since(start)),
	)
}

// RunSweep scans tasks against the given instant and emits TASK_DUE_SOON and
// TASK_OVERDUE notifications. All day-boundary math derives from now, so a
// test can pin the sweep to any moment. Overdue notices are deduplicated per
// (user, task) per calendar day of now; due-soon notices fire every run for
// tasks inside the window. It returns the emitted counts.
func (r *Reminder) RunSweep(ctx context.Context, now time.Time) (int, int, error) {
	tomorrow := now.Add(24 * time.Hour)

	dueSoonCount := 0
	tasks, err := r.tasks.FindDueBetween(ctx, now, tomorrow)
	if err != nil {
		return 0, 0, err
	}
	for i := range tasks {
		t := &tasks[i]
		if _, err := r.notifier.Notify(ctx, notification.NotifyInput{
			UserID:    *t.AssigneeID,
			Type:      notification.TaskDueSoon,
			Title:     "Task due soon",
			Content:   t.Title,
			TaskID:    &t.ID,
			ProjectID: &t.ProjectID,
		}); err != nil {
			r.logger.Error("failed to emit due-soon notification",
				zap.String("task_id", t.ID.String()),
				zap.Error(err),
			)
			continue
		}
		dueSoonCount++
	}

	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	overdueCount := 0
	overdue, err := r.tasks.FindOverdue(ctx, now)
	if err != nil {
		return dueSoonCount, 0, err
	}
	for i := range overdue {
		t := &overdue[i]

		already, err := r.notifier.HasOverdueNoticeSince(ctx, *t.AssigneeID, t.ID, startOfDay)
		if err != nil {
			r.logger.Error("failed to check overdue dedup",
				zap.String("task_id", t.ID.String()),
				zap.Error(err),
			)
			continue
		}
		if already {
			continue
		}

		if _, err := r.notifier.Notify(ctx, notification.NotifyInput{
			UserID:    *t.AssigneeID,
			Type:      notification.TaskOverdue,
			Title:     "Task overdue",
			Content:   t.Title,
			TaskID:    &t.ID,
			ProjectID: &t.ProjectID,
		}); err != nil {
			r.logger.Error("failed to emit overdue notification",
				zap.String("task_id", t.ID.String()),
				zap.Error(err),
			)
			continue
		}
		overdueCount++
	}

	return dueSoonCount, overdueCount, nil
}
