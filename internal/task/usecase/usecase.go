package usecase

import (
	"taskflow-backend/internal/task/domain"
)

// TaskUsecase defines the interface for task business logic. It is the sole
// authority for status changes: every transition runs through UpdateTask so
// the subtask-consistency rules can never be bypassed.
type TaskUsecase interface {
	// CreateTask creates a new task owned by ownerID. The owner always
	// comes from the authenticated principal, never from client input.
	CreateTask(ownerID string, input CreateTaskInput) (*domain.Task, error)

	// GetTask retrieves a task by ID with owner and parent resolved
	GetTask(taskID string) (*domain.Task, error)

	// ListTasks retrieves every task with owner and parent resolved
	ListTasks() ([]*domain.Task, error)

	// UpdateTask applies a partial field set, validating any requested
	// status change against the task's direct subtasks first
	UpdateTask(task *domain.Task, updates TaskUpdateRequest) (*domain.Task, error)

	// MarkAsTodo, MarkAsInProgress and MarkAsDone change only the status,
	// through the same validation as UpdateTask
	MarkAsTodo(task *domain.Task) (*domain.Task, error)
	MarkAsInProgress(task *domain.Task) (*domain.Task, error)
	MarkAsDone(task *domain.Task) (*domain.Task, error)

	// ChangeParent moves the task under a new parent, or to root level
	// when parentID is nil
	ChangeParent(task *domain.Task, parentID *string) (*domain.Task, error)

	// DeleteTask removes the task's row. Subtasks stay in place with their
	// parent_id untouched.
	DeleteTask(task *domain.Task) error

	// SetStatusListener registers the callback invoked after a task has
	// been moved to in_progress
	SetStatusListener(fn func(domain.StatusChanged))
}

// CreateTaskInput carries the creatable task fields
type CreateTaskInput struct {
	Title       string
	Description string
	Status      string
	ParentID    *string
}

// TaskUpdateRequest represents the fields that can be updated. Nil means
// the field was not supplied; an empty ParentID string clears the parent.
type TaskUpdateRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty" binding:"omitempty,oneof=todo in_progress done"`
	ParentID    *string `json:"parent_id,omitempty"`
}
