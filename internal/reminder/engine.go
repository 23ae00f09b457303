// Package reminder derives time-based notifications from the todo set:
// a task starting soon, a task ending soon, or a task past its deadline.
// Each (task, condition) pair fires at most once per reminder cycle.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"tasknest/internal/db"
)

// ThresholdMinutes is how far ahead of a start or end time a reminder
// becomes eligible.
const ThresholdMinutes = 15

// Store is the durable side of the dedup contract, implemented by
// db.NotificationStore. Its CreateIfAbsent is the source of truth for
// uniqueness; the engine's key set only avoids redundant calls.
type Store interface {
	List(ctx context.Context, limit int) ([]db.Notification, error)
	CreateIfAbsent(ctx context.Context, p db.NotificationParams) (*db.Notification, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
}

type Engine struct {
	mu    sync.Mutex
	store Store

	// seen holds taskID-type keys already fired this cycle.
	seen  map[string]struct{}
	items []db.Notification
}

func New(store Store) *Engine {
	return &Engine{
		store: store,
		seen:  make(map[string]struct{}),
	}
}

// Load hydrates the in-memory list from the store and seeds the dedup
// set from the persisted rows, so a restart does not re-fire reminders
// the store already holds. On error the engine starts empty.
func (e *Engine) Load(ctx context.Context) error {
	notifications, err := e.store.List(ctx, 100)
	if err != nil {
		return fmt.Errorf("failed to load notifications: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.items = notifications
	for _, n := range notifications {
		e.seen[dedupKey(n.TaskID, n.Type)] = struct{}{}
	}

	return nil
}

// Evaluate scans the given todos against now and creates a notification
// for each newly satisfied reminder condition. A failed create is logged
// and skipped without committing its dedup key, so the condition stays
// eligible for the next pass.
func (e *Engine) Evaluate(ctx context.Context, todos []db.Todo, now time.Time) {
	for _, todo := range todos {
		if todo.Completed {
			continue
		}

		startAt := combineDateTime(todo.StartDate, todo.StartTime)
		endAt := combineDateTime(todo.EndDate, todo.EndTime)

		if startAt != nil && !todo.Ongoing {
			minutes := startAt.Sub(now).Minutes()
			if minutes > 0 && minutes <= ThresholdMinutes {
				e.fire(ctx, todo, db.NotificationStartTime, "Task Starting Soon",
					fmt.Sprintf("%q is starting in %d minutes", todo.Title, roundMinutes(minutes)))
			}
		}

		// End-soon is independent of the ongoing flag.
		if endAt != nil {
			minutes := endAt.Sub(now).Minutes()
			if minutes > 0 && minutes <= ThresholdMinutes {
				e.fire(ctx, todo, db.NotificationEndTime, "Task Ending Soon",
					fmt.Sprintf("%q is ending in %d minutes", todo.Title, roundMinutes(minutes)))
			}
		}

		if endAt != nil && now.After(*endAt) {
			e.fire(ctx, todo, db.NotificationOverdue, "Task Overdue",
				fmt.Sprintf("%q is overdue by %s", todo.Title, overdueText(now.Sub(*endAt))))
		}
	}
}

func (e *Engine) fire(ctx context.Context, todo db.Todo, typ db.NotificationType, title, message string) {
	key := dedupKey(todo.ID, typ)

	e.mu.Lock()
	if _, ok := e.seen[key]; ok {
		e.mu.Unlock()
		return
	}
	e.mu.Unlock()

	notification, err := e.store.CreateIfAbsent(ctx, db.NotificationParams{
		Type:      typ,
		Title:     title,
		Message:   message,
		TaskID:    todo.ID,
		TaskTitle: todo.Title,
	})
	if err != nil {
		slog.Error("Failed to create notification", "error", err, "task_id", todo.ID, "type", typ)
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.seen[key] = struct{}{}
	e.items = append([]db.Notification{*notification}, e.items...)
}

// List returns the in-memory notifications, most recent first.
func (e *Engine) List() []db.Notification {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]db.Notification, len(e.items))
	copy(out, e.items)
	return out
}

func (e *Engine) UnreadCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	count := 0
	for _, n := range e.items {
		if !n.Read {
			count++
		}
	}
	return count
}

// MarkRead flips the notification locally, then persists best-effort.
// Unknown ids are a no-op.
func (e *Engine) MarkRead(ctx context.Context, id string) error {
	e.mu.Lock()
	for i := range e.items {
		if e.items[i].ID == id {
			e.items[i].Read = true
			break
		}
	}
	e.mu.Unlock()

	if err := e.store.MarkRead(ctx, id); err != nil {
		slog.Error("Failed to persist read flag", "error", err, "notification_id", id)
		return err
	}
	return nil
}

func (e *Engine) MarkAllRead(ctx context.Context) error {
	e.mu.Lock()
	for i := range e.items {
		e.items[i].Read = true
	}
	e.mu.Unlock()

	if err := e.store.MarkAllRead(ctx); err != nil {
		slog.Error("Failed to persist read flags", "error", err)
		return err
	}
	return nil
}

func (e *Engine) Remove(ctx context.Context, id string) error {
	e.mu.Lock()
	for i := range e.items {
		if e.items[i].ID == id {
			e.items = append(e.items[:i], e.items[i+1:]...)
			break
		}
	}
	e.mu.Unlock()

	if err := e.store.Delete(ctx, id); err != nil {
		slog.Error("Failed to delete notification", "error", err, "notification_id", id)
		return err
	}
	return nil
}

// ClearAll empties the store and the local list, and resets the dedup
// set so a still-eligible condition can fire again on a later pass.
func (e *Engine) ClearAll(ctx context.Context) error {
	e.mu.Lock()
	e.items = nil
	e.seen = make(map[string]struct{})
	e.mu.Unlock()

	if err := e.store.DeleteAll(ctx); err != nil {
		slog.Error("Failed to clear notifications", "error", err)
		return err
	}
	return nil
}

func dedupKey(taskID string, typ db.NotificationType) string {
	return taskID + "-" + string(typ)
}

// combineDateTime joins calendar-date and HH:MM strings into a local
// timestamp. Both parts are required; a date-only schedule yields nil,
// so such tasks never generate end or overdue reminders.
func combineDateTime(date, clock *string) *time.Time {
	if date == nil || *date == "" || clock == nil || *clock == "" {
		return nil
	}

	t, err := time.ParseInLocation("2006-01-02T15:04", *date+"T"+*clock, time.Local)
	if err != nil {
		return nil
	}
	return &t
}

func roundMinutes(minutes float64) int {
	return int(math.Round(minutes))
}

// overdueText renders an elapsed duration as whole minutes below an
// hour, rounded hours above.
func overdueText(elapsed time.Duration) string {
	minutes := int(math.Round(elapsed.Minutes()))
	if minutes < 60 {
		return fmt.Sprintf("%d minute%s", minutes, pluralSuffix(minutes))
	}

	hours := int(math.Round(float64(minutes) / 60))
	return fmt.Sprintf("%d hour%s", hours, pluralSuffix(hours))
}

func pluralSuffix(n int) string {
	if n > 1 {
		return "s"
	}
	return ""
}
