package repository

import (
	"time"

	"taskflow-backend/internal/task/domain"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create persists a new task
	Create(task *domain.Task) error

	// FindByID finds a task by its ID with owner and parent resolved.
	// Returns domain.ErrTaskNotFound if no row exists.
	FindByID(id string) (*domain.Task, error)

	// FindAll returns every task with owner and parent resolved
	FindAll() ([]*domain.Task, error)

	// Update saves the full entity
	Update(task *domain.Task) error

	// Delete removes only the task's own row. Subtasks are neither deleted
	// nor reparented; their parent_id keeps pointing at the removed ID.
	Delete(id string) error

	// FindChildren returns the tasks whose parent_id equals parentID
	FindChildren(parentID string) ([]*domain.Task, error)

	// CountChildrenWithStatusNot counts direct children whose status
	// differs from status. Zero means every direct child (possibly none)
	// already has that status.
	CountChildrenWithStatusNot(parentID string, status domain.TaskStatus) (int64, error)

	// Transact runs fn against a transactional view of the repository so a
	// hierarchy check and the following write happen atomically.
	Transact(fn func(TaskRepository) error) error
}

// ReminderRepository defines the interface for deferred reminder rows
type ReminderRepository interface {
	// Create persists a new reminder
	Create(reminder *domain.Reminder) error

	// FindDue returns unsent reminders whose remind_at has passed.
	// Deliberately ignores the task's current status: reminders are never
	// cancelled once scheduled.
	FindDue(now time.Time) ([]*domain.Reminder, error)

	// MarkSent marks a reminder as delivered
	MarkSent(id string) error
}
