package main

import (
	"context"
	"log"
	"log/slog"
	"os/signal"
	"syscall"

	"tasknest/internal/auth"
	"tasknest/internal/db"
	"tasknest/internal/handlers"
	"tasknest/internal/migrations"
	"tasknest/internal/queue"
	"tasknest/internal/reminder"
	"tasknest/internal/routes"
	"tasknest/internal/worker"

	"github.com/labstack/echo/v4"
)

func main() {
	if err := migrations.Up(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	db.InitDB()

	if err := queue.InitQueue(); err != nil {
		log.Fatalf("Failed to initialize task queue: %v", err)
	}
	defer queue.Close()

	auth.InitSecurity()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	engine := reminder.New(db.NotificationStore{})
	if err := engine.Load(ctx); err != nil {
		// Degrade to an empty notification list; reminders the store
		// already holds stay deduplicated by the create path.
		slog.Warn("Starting with empty notification list", "error", err)
	}
	handlers.InitNotifications(engine)

	w := worker.NewWorker(engine)
	go func() {
		if err := w.Start(ctx); err != nil {
			log.Fatalf("Failed to start worker: %v", err)
		}
	}()

	e := echo.New()
	api := e.Group("/api")
	routes.SetupRoutes(api)

	e.Logger.Fatal(e.Start(":8080"))
}
