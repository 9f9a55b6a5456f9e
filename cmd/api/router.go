package api

import (
	"net/http"

	authDelivery "taskflow-backend/internal/auth/delivery"
	authUsecase "taskflow-backend/internal/auth/usecase"
	taskDelivery "taskflow-backend/internal/task/delivery"

	"github.com/gin-gonic/gin"
)

// SetupRoutes registers every HTTP route on the engine
func SetupRoutes(r *gin.Engine, auth authUsecase.AuthUsecase, taskHandler *taskDelivery.TaskHandler) {
	authHandler := authDelivery.NewAuthHandler(auth)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Auth routes
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)
		api.POST("/refresh", authHandler.RefreshToken)
		api.POST("/logout", authDelivery.AuthMiddleware(auth), authHandler.Logout)
		api.GET("/me", authDelivery.AuthMiddleware(auth), authHandler.Me)

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(authDelivery.AuthMiddleware(auth))
		{
			tasks.GET("", taskHandler.GetTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", taskHandler.GetTaskByID)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)

			// Separate routes for each status
			tasks.PUT("/:id/todo", taskHandler.MarkAsTodo)
			tasks.PUT("/:id/in-progress", taskHandler.MarkAsInProgress)
			tasks.PUT("/:id/done", taskHandler.MarkAsDone)

			tasks.PUT("/:id/change-parent", taskHandler.ChangeParent)
		}
	}
}
