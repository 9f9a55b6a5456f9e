package domain

import (
	"errors"
	"fmt"
)

var (
	ErrTaskNotFound   = errors.New("task not found")
	ErrHierarchyCycle = errors.New("task hierarchy cycle")
	ErrInvalidStatus  = errors.New("invalid task status")
)

// InvalidTransitionError rejects a status change whose direct subtasks do
// not all share the requested status. Message is user-facing.
type InvalidTransitionError struct {
	Status  TaskStatus
	Message string
}

func (e *InvalidTransitionError) Error() string {
	return e.Message
}

// NewInvalidTransitionError builds the rejection for a given target status.
func NewInvalidTransitionError(status TaskStatus) *InvalidTransitionError {
	var msg string
	switch status {
	case TaskStatusInProgress:
		msg = "All subtasks must be in progress before setting the task to in progress."
	case TaskStatusDone:
		msg = "All subtasks must be done before setting the task to done."
	case TaskStatusTodo:
		msg = "All subtasks must be in todo before setting the task to todo."
	default:
		msg = fmt.Sprintf("Cannot set the task to %s.", status)
	}
	return &InvalidTransitionError{Status: status, Message: msg}
}
