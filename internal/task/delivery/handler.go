package delivery

import (
	"errors"
	"net/http"

	"taskflow-backend/internal/task/domain"
	"taskflow-backend/internal/task/usecase"

	"github.com/gin-gonic/gin"
)

// TaskHandler handles task-related HTTP requests. Ownership is enforced
// here, before the usecase runs: only the task owner may update, delete,
// change status or reparent. Reading a task or the full list is open to any
// authenticated user.
type TaskHandler struct {
	taskUsecase usecase.TaskUsecase
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskUsecase usecase.TaskUsecase) *TaskHandler {
	return &TaskHandler{taskUsecase: taskUsecase}
}

// CreateTaskRequest represents the request body for creating a task.
// Any client-supplied owner field is ignored; the owner always comes from
// the authenticated principal.
type CreateTaskRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	Status      string  `json:"status" binding:"omitempty,oneof=todo in_progress done"`
	ParentID    *string `json:"parent_id"`
}

// ChangeParentRequest carries the new parent id, null for root level
type ChangeParentRequest struct {
	ParentID *string `json:"parent_id"`
}

// GetTasks returns every task with owner and parent resolved
// GET /api/tasks
func (h *TaskHandler) GetTasks(c *gin.Context) {
	tasks, err := h.taskUsecase.ListTasks()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if tasks == nil {
		tasks = []*domain.Task{}
	}
	c.JSON(http.StatusOK, tasks)
}

// GetTaskByID returns a specific task
// GET /api/tasks/:id
func (h *TaskHandler) GetTaskByID(c *gin.Context) {
	task, err := h.taskUsecase.GetTask(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// CreateTask creates a new task owned by the authenticated user
// POST /api/tasks
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID := c.GetString("userID")

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskUsecase.CreateTask(userID, usecase.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		ParentID:    req.ParentID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// UpdateTask updates an existing task
// PUT /api/tasks/:id
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	task, ok := h.ownedTask(c)
	if !ok {
		return
	}

	var updates usecase.TaskUpdateRequest
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.taskUsecase.UpdateTask(task, updates)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteTask deletes a task. Subtasks are left in place.
// DELETE /api/tasks/:id
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	task, ok := h.ownedTask(c)
	if !ok {
		return
	}

	if err := h.taskUsecase.DeleteTask(task); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// MarkAsTodo sets the task status to todo
// PUT /api/tasks/:id/todo
func (h *TaskHandler) MarkAsTodo(c *gin.Context) {
	h.markStatus(c, h.taskUsecase.MarkAsTodo)
}

// MarkAsInProgress sets the task status to in_progress
// PUT /api/tasks/:id/in-progress
func (h *TaskHandler) MarkAsInProgress(c *gin.Context) {
	h.markStatus(c, h.taskUsecase.MarkAsInProgress)
}

// MarkAsDone sets the task status to done
// PUT /api/tasks/:id/done
func (h *TaskHandler) MarkAsDone(c *gin.Context) {
	h.markStatus(c, h.taskUsecase.MarkAsDone)
}

// ChangeParent reassigns the task's parent
// PUT /api/tasks/:id/change-parent
func (h *TaskHandler) ChangeParent(c *gin.Context) {
	task, ok := h.ownedTask(c)
	if !ok {
		return
	}

	var req ChangeParentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.taskUsecase.ChangeParent(task, req.ParentID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *TaskHandler) markStatus(c *gin.Context, mark func(*domain.Task) (*domain.Task, error)) {
	task, ok := h.ownedTask(c)
	if !ok {
		return
	}

	updated, err := mark(task)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// ownedTask loads the task from the :id param and checks that the
// authenticated user owns it. Responds and returns false otherwise.
func (h *TaskHandler) ownedTask(c *gin.Context) (*domain.Task, bool) {
	task, err := h.taskUsecase.GetTask(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return nil, false
	}

	if task.UserID != c.GetString("userID") {
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized"})
		return nil, false
	}

	return task, true
}

func respondError(c *gin.Context, err error) {
	var transitionErr *domain.InvalidTransitionError
	switch {
	case errors.Is(err, domain.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
	case errors.As(err, &transitionErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  transitionErr.Message,
			"errors": gin.H{"status": []string{transitionErr.Message}},
		})
	case errors.Is(err, domain.ErrHierarchyCycle):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "The new parent would create a cycle in the task hierarchy"})
	case errors.Is(err, domain.ErrInvalidStatus):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid task status"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
