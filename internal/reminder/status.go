package reminder

import (
	"time"

	"tasknest/internal/db"
)

const (
	StatusCompleted = "completed"
	StatusOverdue   = "overdue"
	StatusOngoing   = "ongoing"
	StatusPending   = "pending"
)

// Status computes the display state of a todo for list views. Unlike
// Evaluate, a date-only deadline counts here: the missing end time is
// defaulted to 23:59:59 so the task shows as overdue after its end day
// even though no overdue reminder will fire for it.
func Status(todo db.Todo, now time.Time) string {
	if todo.Completed {
		return StatusCompleted
	}

	if deadline := displayDeadline(todo); deadline != nil && now.After(*deadline) {
		return StatusOverdue
	}

	if todo.Ongoing {
		return StatusOngoing
	}

	return StatusPending
}

func displayDeadline(todo db.Todo) *time.Time {
	if at := combineDateTime(todo.EndDate, todo.EndTime); at != nil {
		return at
	}

	if todo.EndDate == nil || *todo.EndDate == "" {
		return nil
	}

	t, err := time.ParseInLocation("2006-01-02T15:04:05", *todo.EndDate+"T23:59:59", time.Local)
	if err != nil {
		return nil
	}
	return &t
}
