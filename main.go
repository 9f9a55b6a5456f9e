package main

import (
	api "taskflow-backend/cmd/api"
	authdomain "taskflow-backend/internal/auth/domain"
	authRepo "taskflow-backend/internal/auth/repository"
	authUsecase "taskflow-backend/internal/auth/usecase"
	taskDelivery "taskflow-backend/internal/task/delivery"
	taskdomain "taskflow-backend/internal/task/domain"
	taskRepo "taskflow-backend/internal/task/repository"
	"taskflow-backend/internal/task/scheduler"
	taskUsecase "taskflow-backend/internal/task/usecase"
	"taskflow-backend/pkg/config"
	"taskflow-backend/pkg/database"
	"taskflow-backend/pkg/mailer"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(logger)
	defer logger.Sync()

	cfg := config.Load()

	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&authdomain.User{},
		&authdomain.RefreshToken{},
		&taskdomain.Task{},
		&taskdomain.Reminder{},
	); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	// Repositories
	userRepository := authRepo.NewUserRepository(db)
	taskRepository := taskRepo.NewGormTaskRepository(db)
	reminderRepository := taskRepo.NewGormReminderRepository(db)

	// Reminder delivery
	mail := mailer.NewSMTPMailer(&mailer.Config{
		Host:      cfg.SMTPHost,
		Port:      cfg.SMTPPort,
		Username:  cfg.SMTPUsername,
		Password:  cfg.SMTPPassword,
		FromEmail: cfg.FromEmail,
		FromName:  cfg.FromName,
	})
	reminderScheduler := scheduler.NewReminderScheduler(reminderRepository, taskRepository, mail, cfg.ReminderPollInterval)
	reminderScheduler.Start()
	defer reminderScheduler.Stop()

	// Use cases
	auth := authUsecase.NewAuthUsecase(userRepository, cfg)
	tasks := taskUsecase.NewTaskUsecase(taskRepository)

	// A task moving to in_progress schedules one reminder mail for its
	// owner after the configured delay.
	tasks.SetStatusListener(func(event taskdomain.StatusChanged) {
		if event.Task.Status != taskdomain.TaskStatusInProgress {
			return
		}
		if err := reminderScheduler.Schedule(event.Task.ID, cfg.ReminderDelay); err != nil {
			zap.L().Error("scheduling reminder",
				zap.String("task_id", event.Task.ID), zap.Error(err))
		}
	})

	r := gin.New()
	r.Use(gin.Recovery(), api.RequestLogger(logger))
	api.SetupRoutes(r, auth, taskDelivery.NewTaskHandler(tasks))

	addr := ":" + cfg.Port
	logger.Info("starting server", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		logger.Fatal("could not start server", zap.Error(err))
	}
}
