package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationStartTime NotificationType = "start_time"
	NotificationEndTime   NotificationType = "end_time"
	NotificationOverdue   NotificationType = "overdue"
)

type Notification struct {
	ID        string           `db:"id" json:"id"`
	Type      NotificationType `db:"type" json:"type"`
	Title     string           `db:"title" json:"title"`
	Message   string           `db:"message" json:"message"`
	TaskID    string           `db:"task_id" json:"taskId"`
	TaskTitle string           `db:"task_title" json:"taskTitle"`
	Read      bool             `db:"read" json:"read"`
	CreatedAt time.Time        `db:"created_at" json:"createdAt"`
}

type NotificationParams struct {
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	TaskID    string           `json:"taskId"`
	TaskTitle string           `json:"taskTitle"`
}

// NotificationStore is the durable half of the reminder dedup contract.
// Uniqueness of (task_id, type) is enforced by CreateIfAbsent's
// lookup-before-insert, not by a database constraint.
type NotificationStore struct{}

func (NotificationStore) List(ctx context.Context, limit int) ([]Notification, error) {
	notifications := []Notification{}
	err := DB.SelectContext(ctx, &notifications, `
		SELECT * FROM notifications
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// CreateIfAbsent returns the existing record unchanged when one is
// already stored for (task_id, type), otherwise inserts a new one.
func (NotificationStore) CreateIfAbsent(ctx context.Context, p NotificationParams) (*Notification, error) {
	existing := &Notification{}
	err := DB.GetContext(ctx, existing, `
		SELECT * FROM notifications
		WHERE task_id = $1 AND type = $2
		LIMIT 1
	`, p.TaskID, p.Type)
	if err == nil {
		return existing, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to look up notification: %w", err)
	}

	notification := &Notification{}
	err = DB.GetContext(ctx, notification, `
		INSERT INTO notifications (id, type, title, message, task_id, task_title)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING *
	`, uuid.New().String(), p.Type, p.Title, p.Message, p.TaskID, p.TaskTitle)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	return notification, nil
}

func (NotificationStore) MarkRead(ctx context.Context, id string) error {
	if _, err := DB.ExecContext(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}
	return nil
}

func (NotificationStore) MarkAllRead(ctx context.Context) error {
	if _, err := DB.ExecContext(ctx, `UPDATE notifications SET read = TRUE WHERE read = FALSE`); err != nil {
		return fmt.Errorf("failed to mark notifications as read: %w", err)
	}
	return nil
}

func (NotificationStore) Delete(ctx context.Context, id string) error {
	if _, err := DB.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return nil
}

func (NotificationStore) DeleteAll(ctx context.Context) error {
	if _, err := DB.ExecContext(ctx, `DELETE FROM notifications`); err != nil {
		return fmt.Errorf("failed to delete notifications: %w", err)
	}
	return nil
}
