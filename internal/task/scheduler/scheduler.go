package scheduler

import (
	"context"
	"time"

	"taskflow-backend/internal/task/domain"
	"taskflow-backend/internal/task/repository"
	"taskflow-backend/pkg/mailer"

	"go.uber.org/zap"
)

// Scheduler accepts a deferred reminder for a task. Scheduling is
// fire-and-forget from the caller's perspective; delivery happens in the
// background at-or-after the delay.
type Scheduler interface {
	Schedule(taskID string, delay time.Duration) error
}

// ReminderScheduler persists reminder rows and delivers the due ones from a
// background loop. Delivery is at-least-once: a reminder survives a restart
// and may be retried by a concurrent worker, and there is no idempotency
// key. Reminders are never cancelled; a task that has moved away from
// in_progress still gets its mail, describing the task's current state.
type ReminderScheduler struct {
	reminders repository.ReminderRepository
	tasks     repository.TaskRepository
	mail      mailer.Mailer
	interval  time.Duration
	stopChan  chan struct{}
}

// NewReminderScheduler creates a new scheduler polling at the given interval
func NewReminderScheduler(
	reminders repository.ReminderRepository,
	tasks repository.TaskRepository,
	mail mailer.Mailer,
	interval time.Duration,
) *ReminderScheduler {
	return &ReminderScheduler{
		reminders: reminders,
		tasks:     tasks,
		mail:      mail,
		interval:  interval,
		stopChan:  make(chan struct{}),
	}
}

// Schedule enqueues one reminder for the task, due after delay
func (s *ReminderScheduler) Schedule(taskID string, delay time.Duration) error {
	return s.reminders.Create(&domain.Reminder{
		TaskID:   taskID,
		RemindAt: time.Now().Add(delay),
	})
}

// Start begins the delivery loop
func (s *ReminderScheduler) Start() {
	zap.L().Info("starting reminder scheduler", zap.Duration("interval", s.interval))

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.deliverDue()
			case <-s.stopChan:
				zap.L().Info("reminder scheduler stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the scheduler
func (s *ReminderScheduler) Stop() {
	close(s.stopChan)
}

// deliverDue sends every due reminder and marks it sent. A reminder whose
// task or owner no longer exists is logged and marked sent as well; there is
// no retry policy.
func (s *ReminderScheduler) deliverDue() {
	due, err := s.reminders.FindDue(time.Now())
	if err != nil {
		zap.L().Error("finding due reminders", zap.Error(err))
		return
	}

	for _, reminder := range due {
		if err := s.deliver(reminder); err != nil {
			zap.L().Error("delivering reminder",
				zap.String("reminder_id", reminder.ID),
				zap.String("task_id", reminder.TaskID),
				zap.Error(err))
		}
		if err := s.reminders.MarkSent(reminder.ID); err != nil {
			zap.L().Error("marking reminder sent",
				zap.String("reminder_id", reminder.ID), zap.Error(err))
		}
	}
}

func (s *ReminderScheduler) deliver(reminder *domain.Reminder) error {
	task, err := s.tasks.FindByID(reminder.TaskID)
	if err != nil {
		return err
	}
	if task.User == nil {
		return domain.ErrTaskNotFound
	}

	return s.mail.SendTaskReminder(context.Background(), task.User.Email, task.User.Name, task.Title)
}
