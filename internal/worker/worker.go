package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"tasknest/internal/db"
	"tasknest/internal/queue"
	"tasknest/internal/reminder"
)

const todoPageSize = 200

type Worker struct {
	server    *asynq.Server
	scheduler *asynq.Scheduler
	engine    *reminder.Engine
}

func NewWorker(engine *reminder.Engine) *Worker {
	redisOpt := queue.RedisOpt()

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 1,
			Queues: map[string]int{
				queue.QueueReminderScan: 1,
			},
		},
	)

	// Reminder delivery is best-effort polling: a fixed 60-second sweep
	// plus the scans enqueued on todo mutations.
	scheduler := asynq.NewScheduler(redisOpt, nil)

	return &Worker{
		server:    server,
		scheduler: scheduler,
		engine:    engine,
	}
}

func (w *Worker) Start(ctx context.Context) error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.QueueReminderScan, w.handleReminderScan)

	if _, err := w.scheduler.Register("@every 1m",
		asynq.NewTask(queue.QueueReminderScan, nil),
		asynq.Queue(queue.QueueReminderScan),
	); err != nil {
		return err
	}

	slog.Info("Starting worker", "queues", []string{queue.QueueReminderScan})

	if err := w.server.Start(mux); err != nil {
		return err
	}

	if err := w.scheduler.Start(); err != nil {
		w.server.Stop()
		return err
	}

	slog.Info("Worker started successfully")

	<-ctx.Done()

	w.scheduler.Shutdown()
	w.server.Stop()
	slog.Info("Worker stopped")
	return nil
}

// handleReminderScan feeds the full todo set through the rule engine.
// Two scans racing is fine: the store's lookup-before-insert keeps the
// result to one notification per (task, type).
func (w *Worker) handleReminderScan(ctx context.Context, t *asynq.Task) error {
	var payload queue.ReminderScanPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return err
		}
	}

	now := time.Now()
	scanned := 0

	for skip := 0; ; skip += todoPageSize {
		todos, _, err := db.ListTodos(ctx, skip, todoPageSize)
		if err != nil {
			slog.Error("Failed to load todos for reminder scan", "error", err, "skip", skip)
			return err
		}
		if len(todos) == 0 {
			break
		}

		w.engine.Evaluate(ctx, todos, now)
		scanned += len(todos)

		if len(todos) < todoPageSize {
			break
		}
	}

	slog.Info("Reminder scan complete", "todos", scanned, "reason", payload.Reason)
	return nil
}
