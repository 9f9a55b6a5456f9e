package usecase

import (
	"taskflow-backend/internal/task/domain"
	"taskflow-backend/internal/task/repository"
)

// HierarchyEvaluator answers consistency predicates over a task's direct
// subtasks. Each call re-reads the current children state; nothing is
// cached. Only direct children are examined, never the full subtree.
type HierarchyEvaluator struct {
	tasks repository.TaskRepository
}

// NewHierarchyEvaluator creates an evaluator backed by the given repository
func NewHierarchyEvaluator(tasks repository.TaskRepository) *HierarchyEvaluator {
	return &HierarchyEvaluator{tasks: tasks}
}

// AllChildrenInProgress reports whether no direct subtask has a status other
// than in_progress. A task without subtasks trivially passes.
func (e *HierarchyEvaluator) AllChildrenInProgress(task *domain.Task) (bool, error) {
	return e.allChildrenHaveStatus(task, domain.TaskStatusInProgress)
}

// AllChildrenDone reports whether every direct subtask is done
func (e *HierarchyEvaluator) AllChildrenDone(task *domain.Task) (bool, error) {
	return e.allChildrenHaveStatus(task, domain.TaskStatusDone)
}

// AllChildrenTodo reports whether every direct subtask is still todo
func (e *HierarchyEvaluator) AllChildrenTodo(task *domain.Task) (bool, error) {
	return e.allChildrenHaveStatus(task, domain.TaskStatusTodo)
}

func (e *HierarchyEvaluator) allChildrenHaveStatus(task *domain.Task, status domain.TaskStatus) (bool, error) {
	count, err := e.tasks.CountChildrenWithStatusNot(task.ID, status)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}
