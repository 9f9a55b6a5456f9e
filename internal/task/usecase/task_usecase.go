package usecase

import (
	"errors"

	"taskflow-backend/internal/task/domain"
	"taskflow-backend/internal/task/repository"
)

// taskUsecase implements TaskUsecase
type taskUsecase struct {
	tasks    repository.TaskRepository
	listener func(domain.StatusChanged)
}

// NewTaskUsecase creates a new instance of taskUsecase
func NewTaskUsecase(tasks repository.TaskRepository) TaskUsecase {
	return &taskUsecase{tasks: tasks}
}

func (u *taskUsecase) SetStatusListener(fn func(domain.StatusChanged)) {
	u.listener = fn
}

func (u *taskUsecase) CreateTask(ownerID string, input CreateTaskInput) (*domain.Task, error) {
	status := domain.TaskStatusTodo
	if input.Status != "" {
		status = domain.TaskStatus(input.Status)
		if !status.Valid() {
			return nil, domain.ErrInvalidStatus
		}
	}

	task := &domain.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      status,
		UserID:      ownerID,
	}

	err := u.tasks.Transact(func(tx repository.TaskRepository) error {
		if input.ParentID != nil {
			if _, err := tx.FindByID(*input.ParentID); err != nil {
				return err
			}
			task.ParentID = input.ParentID
		}
		return tx.Create(task)
	})
	if err != nil {
		return nil, err
	}

	return u.tasks.FindByID(task.ID)
}

func (u *taskUsecase) GetTask(taskID string) (*domain.Task, error) {
	return u.tasks.FindByID(taskID)
}

func (u *taskUsecase) ListTasks() ([]*domain.Task, error) {
	return u.tasks.FindAll()
}

// UpdateTask applies a partial field set to the task. A requested status
// change is validated against the direct subtasks before anything is
// written: all of them must already hold the requested status. When the
// supplied status is in_progress, a StatusChanged event is dispatched after
// the write has committed. An update without a status field is a plain
// field update: no validation, no event.
func (u *taskUsecase) UpdateTask(task *domain.Task, updates TaskUpdateRequest) (*domain.Task, error) {
	var target domain.TaskStatus
	if updates.Status != nil {
		target = domain.TaskStatus(*updates.Status)
		if !target.Valid() {
			return nil, domain.ErrInvalidStatus
		}
	}

	err := u.tasks.Transact(func(tx repository.TaskRepository) error {
		if updates.Status != nil {
			evaluator := NewHierarchyEvaluator(tx)
			ok, err := u.childrenSatisfy(evaluator, task, target)
			if err != nil {
				return err
			}
			if !ok {
				return domain.NewInvalidTransitionError(target)
			}
			task.Status = target
		}

		if updates.Title != nil {
			task.Title = *updates.Title
		}
		if updates.Description != nil {
			task.Description = *updates.Description
		}
		if updates.ParentID != nil {
			if *updates.ParentID == "" {
				task.ParentID = nil
			} else {
				if err := ensureValidParent(tx, task, *updates.ParentID); err != nil {
					return err
				}
				task.ParentID = updates.ParentID
			}
		}

		return tx.Update(task)
	})
	if err != nil {
		return nil, err
	}

	if updates.Status != nil && target == domain.TaskStatusInProgress {
		u.publish(domain.StatusChanged{Task: task})
	}

	return u.tasks.FindByID(task.ID)
}

func (u *taskUsecase) MarkAsTodo(task *domain.Task) (*domain.Task, error) {
	return u.updateStatus(task, domain.TaskStatusTodo)
}

func (u *taskUsecase) MarkAsInProgress(task *domain.Task) (*domain.Task, error) {
	return u.updateStatus(task, domain.TaskStatusInProgress)
}

func (u *taskUsecase) MarkAsDone(task *domain.Task) (*domain.Task, error) {
	return u.updateStatus(task, domain.TaskStatusDone)
}

func (u *taskUsecase) updateStatus(task *domain.Task, status domain.TaskStatus) (*domain.Task, error) {
	s := string(status)
	return u.UpdateTask(task, TaskUpdateRequest{Status: &s})
}

func (u *taskUsecase) ChangeParent(task *domain.Task, parentID *string) (*domain.Task, error) {
	err := u.tasks.Transact(func(tx repository.TaskRepository) error {
		if parentID != nil {
			if err := ensureValidParent(tx, task, *parentID); err != nil {
				return err
			}
		}
		task.ParentID = parentID
		return tx.Update(task)
	})
	if err != nil {
		return nil, err
	}

	return u.tasks.FindByID(task.ID)
}

// DeleteTask removes the task's own row only. Subtasks keep their parent_id
// pointing at the removed task.
func (u *taskUsecase) DeleteTask(task *domain.Task) error {
	return u.tasks.Delete(task.ID)
}

func (u *taskUsecase) childrenSatisfy(evaluator *HierarchyEvaluator, task *domain.Task, status domain.TaskStatus) (bool, error) {
	switch status {
	case domain.TaskStatusInProgress:
		return evaluator.AllChildrenInProgress(task)
	case domain.TaskStatusDone:
		return evaluator.AllChildrenDone(task)
	case domain.TaskStatusTodo:
		return evaluator.AllChildrenTodo(task)
	}
	return false, domain.ErrInvalidStatus
}

func (u *taskUsecase) publish(event domain.StatusChanged) {
	if u.listener != nil {
		u.listener(event)
	}
}

// ensureValidParent checks that parentID references an existing task and
// that adopting it keeps the hierarchy a forest: the new parent must not be
// the task itself or any of its descendants. The walk climbs from the new
// parent towards the root; hitting the task on the way up means the parent
// sits inside the task's own subtree.
func ensureValidParent(tx repository.TaskRepository, task *domain.Task, parentID string) error {
	if parentID == task.ID {
		return domain.ErrHierarchyCycle
	}

	parent, err := tx.FindByID(parentID)
	if err != nil {
		return err
	}

	seen := map[string]bool{parent.ID: true}
	current := parent
	for current.ParentID != nil {
		ancestorID := *current.ParentID
		if ancestorID == task.ID {
			return domain.ErrHierarchyCycle
		}
		if seen[ancestorID] {
			// Pre-existing cycle in stored data; stop climbing.
			break
		}
		seen[ancestorID] = true

		ancestor, err := tx.FindByID(ancestorID)
		if errors.Is(err, domain.ErrTaskNotFound) {
			// Dangling parent_id left behind by a delete; treat as root.
			break
		}
		if err != nil {
			return err
		}
		current = ancestor
	}

	return nil
}
