package repository

import (
	"time"

	"taskflow-backend/internal/task/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormReminderRepository implements ReminderRepository using GORM
type gormReminderRepository struct {
	db *gorm.DB
}

// NewGormReminderRepository creates a new GORM-based ReminderRepository
func NewGormReminderRepository(db *gorm.DB) ReminderRepository {
	return &gormReminderRepository{db: db}
}

func (r *gormReminderRepository) Create(reminder *domain.Reminder) error {
	if reminder.ID == "" {
		reminder.ID = uuid.New().String()
	}
	reminder.CreatedAt = time.Now()
	return r.db.Create(reminder).Error
}

func (r *gormReminderRepository) FindDue(now time.Time) ([]*domain.Reminder, error) {
	var reminders []*domain.Reminder
	err := r.db.Where("remind_at <= ? AND sent = ?", now, false).
		Order("remind_at ASC").Find(&reminders).Error
	return reminders, err
}

func (r *gormReminderRepository) MarkSent(id string) error {
	return r.db.Model(&domain.Reminder{}).Where("id = ?", id).
		Update("sent", true).Error
}
