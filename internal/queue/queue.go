package queue

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/hibiken/asynq"
)

const (
	QueueReminderScan = "reminder_scan"
)

type ReminderScanPayload struct {
	Reason string `json:"reason"`
}

var client *asynq.Client

func RedisOpt() asynq.RedisClientOpt {
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	return asynq.RedisClientOpt{
		Addr: redisAddr,
	}
}

// InitQueue initializes the Redis connection for Asynq
func InitQueue() error {
	redisOpt := RedisOpt()

	client = asynq.NewClient(redisOpt)

	// Test connection
	if err := client.Close(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	// Recreate client after test
	client = asynq.NewClient(redisOpt)

	slog.Info("Successfully initialized task queue")
	return nil
}

// EnqueueReminderScan asks the worker to run a reminder evaluation pass.
// Scans are cheap and idempotent, so a duplicate enqueue is harmless.
func EnqueueReminderScan(reason string) (string, error) {
	payloadBytes, err := json.Marshal(ReminderScanPayload{Reason: reason})
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %v", err)
	}

	task := asynq.NewTask(QueueReminderScan, payloadBytes)

	info, err := client.Enqueue(task,
		asynq.Queue(QueueReminderScan),
		asynq.MaxRetry(3),
		asynq.Timeout(1*time.Minute),
		asynq.Retention(1*time.Hour),
	)
	if err != nil {
		return "", fmt.Errorf("failed to enqueue task: %v", err)
	}

	return info.ID, nil
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		return client.Close()
	}
	return nil
}
