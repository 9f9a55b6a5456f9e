package domain

import (
	"time"

	authdomain "taskflow-backend/internal/auth/domain"
)

// TaskStatus represents the current state of a task
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

// Task represents a unit of work. Tasks nest through ParentID: a nil
// ParentID means a root-level task, anything else makes this a subtask of
// the referenced task. Status changes are gated on the direct subtasks only,
// see the usecase package.
type Task struct {
	ID          string     `json:"id" gorm:"primaryKey"`
	Title       string     `json:"title" gorm:"not null"`
	Description string     `json:"description,omitempty"`
	Status      TaskStatus `json:"status" gorm:"default:todo;index"`
	ParentID    *string    `json:"parent_id" gorm:"index"`
	UserID      string     `json:"user_id" gorm:"index;not null"`

	// User is the owner, set once at creation and never reassigned.
	User   *authdomain.User `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Parent *Task            `json:"parent,omitempty" gorm:"foreignKey:ParentID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StatusChanged is published after a task has successfully been moved to
// in_progress. It is ephemeral: it exists only for the duration of listener
// dispatch and is never persisted.
type StatusChanged struct {
	Task *Task
}

// Reminder is a deferred notification row. One row is written per
// in_progress transition and delivered by the scheduler once RemindAt has
// passed. There is no cancellation path: a reminder fires even if the task
// has since moved to another status, and the mail reflects the task state
// at delivery time.
type Reminder struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	TaskID    string    `json:"task_id" gorm:"index;not null"`
	RemindAt  time.Time `json:"remind_at" gorm:"index"`
	Sent      bool      `json:"sent" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
}
