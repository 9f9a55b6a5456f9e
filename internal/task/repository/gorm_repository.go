package repository

import (
	"errors"
	"time"

	"taskflow-backend/internal/task/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormTaskRepository implements TaskRepository using GORM
type gormTaskRepository struct {
	db *gorm.DB
}

// NewGormTaskRepository creates a new GORM-based TaskRepository
func NewGormTaskRepository(db *gorm.DB) TaskRepository {
	return &gormTaskRepository{db: db}
}

func (r *gormTaskRepository) Create(task *domain.Task) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	if task.Status == "" {
		task.Status = domain.TaskStatusTodo
	}
	task.CreatedAt = time.Now()
	task.UpdatedAt = time.Now()
	return r.db.Create(task).Error
}

func (r *gormTaskRepository) FindByID(id string) (*domain.Task, error) {
	var task domain.Task
	err := r.db.Preload("User").Preload("Parent").Where("id = ?", id).First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

func (r *gormTaskRepository) FindAll() ([]*domain.Task, error) {
	var tasks []*domain.Task
	err := r.db.Preload("User").Preload("Parent").
		Order("created_at ASC").Find(&tasks).Error
	return tasks, err
}

func (r *gormTaskRepository) Update(task *domain.Task) error {
	task.UpdatedAt = time.Now()
	// Save without the preloaded associations so an update can never touch
	// the owner or parent rows.
	return r.db.Omit("User", "Parent").Save(task).Error
}

func (r *gormTaskRepository) Delete(id string) error {
	return r.db.Delete(&domain.Task{}, "id = ?", id).Error
}

func (r *gormTaskRepository) FindChildren(parentID string) ([]*domain.Task, error) {
	var tasks []*domain.Task
	err := r.db.Where("parent_id = ?", parentID).Find(&tasks).Error
	return tasks, err
}

func (r *gormTaskRepository) CountChildrenWithStatusNot(parentID string, status domain.TaskStatus) (int64, error) {
	var count int64
	err := r.db.Model(&domain.Task{}).
		Where("parent_id = ? AND status <> ?", parentID, status).
		Count(&count).Error
	return count, err
}

func (r *gormTaskRepository) Transact(fn func(TaskRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&gormTaskRepository{db: tx})
	})
}
