package routes

import (
	"tasknest/internal/auth"
	"tasknest/internal/handlers"

	"github.com/labstack/echo/v4"
)

func SetupRoutes(api *echo.Group) {
	// Public routes
	api.GET("/health", handlers.HealthCheck)

	// Auth routes with rate limiting
	authGroup := api.Group("/auth")
	authGroup.Use(auth.RateLimitMiddleware)
	authGroup.POST("/signup", handlers.Signup)
	authGroup.POST("/login", handlers.Login)

	// Protected routes
	api.Use(auth.JWTMiddleware)

	todos := api.Group("/todos")
	todos.GET("", handlers.ListTodos)
	todos.POST("", handlers.CreateTodo)
	todos.DELETE("", handlers.DeleteAllTodos)
	todos.GET("/:id", handlers.GetTodo)
	todos.PUT("/:id", handlers.UpdateTodo)
	todos.DELETE("/:id", handlers.DeleteTodo)

	notifications := api.Group("/notifications")
	notifications.GET("", handlers.ListNotifications)
	notifications.POST("", handlers.CreateNotification)
	notifications.PUT("", handlers.UpdateNotifications)
	notifications.DELETE("", handlers.DeleteNotifications)
}
