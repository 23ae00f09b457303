package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

var ErrTodoNotFound = errors.New("todo not found")

type Todo struct {
	ID          string     `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	Completed   bool       `db:"completed" json:"completed"`
	Ongoing     bool       `db:"ongoing" json:"ongoing"`
	Priority    string     `db:"priority" json:"priority"`
	Category    string     `db:"category" json:"category"`
	StartDate   *string    `db:"start_date" json:"startDate,omitempty"`
	StartTime   *string    `db:"start_time" json:"startTime,omitempty"`
	EndDate     *string    `db:"end_date" json:"endDate,omitempty"`
	EndTime     *string    `db:"end_time" json:"endTime,omitempty"`
	CompletedAt *time.Time `db:"completed_at" json:"completedAt,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
}

type TodoParams struct {
	Title       string
	Description string
	Completed   bool
	Ongoing     bool
	Priority    string
	Category    string
	StartDate   *string
	StartTime   *string
	EndDate     *string
	EndTime     *string
}

func ListTodos(ctx context.Context, skip, limit int) ([]Todo, int64, error) {
	var total int64
	if err := DB.GetContext(ctx, &total, `SELECT COUNT(*) FROM todos`); err != nil {
		return nil, 0, fmt.Errorf("failed to count todos: %w", err)
	}

	todos := []Todo{}
	err := DB.SelectContext(ctx, &todos, `
		SELECT * FROM todos
		ORDER BY created_at DESC
		OFFSET $1 LIMIT $2
	`, skip, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list todos: %w", err)
	}

	return todos, total, nil
}

func GetTodo(ctx context.Context, id string) (*Todo, error) {
	todo := &Todo{}
	err := DB.GetContext(ctx, todo, `SELECT * FROM todos WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrTodoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get todo: %w", err)
	}
	return todo, nil
}

func CreateTodo(ctx context.Context, p TodoParams) (*Todo, error) {
	todo := &Todo{}
	err := DB.GetContext(ctx, todo, `
		INSERT INTO todos (
			id, title, description, completed, ongoing,
			priority, category, start_date, start_time, end_date, end_time
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING *
	`, uuid.New().String(), p.Title, p.Description, p.Completed, p.Ongoing,
		p.Priority, p.Category, p.StartDate, p.StartTime, p.EndDate, p.EndTime)
	if err != nil {
		slog.Error("Failed to create todo", "error", err, "title", p.Title)
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}

	slog.Info("Successfully created todo", "todo_id", todo.ID)
	return todo, nil
}

// UpdateTodo replaces every mutable column. Flipping completed to true
// stamps completed_at once; flipping it back clears the stamp.
func UpdateTodo(ctx context.Context, id string, p TodoParams) (*Todo, error) {
	todo := &Todo{}
	err := DB.GetContext(ctx, todo, `
		UPDATE todos SET
			title = $2,
			description = $3,
			completed = $4,
			ongoing = $5,
			priority = $6,
			category = $7,
			start_date = $8,
			start_time = $9,
			end_date = $10,
			end_time = $11,
			completed_at = CASE
				WHEN $4 AND completed_at IS NULL THEN CURRENT_TIMESTAMP
				WHEN NOT $4 THEN NULL
				ELSE completed_at
			END,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING *
	`, id, p.Title, p.Description, p.Completed, p.Ongoing,
		p.Priority, p.Category, p.StartDate, p.StartTime, p.EndDate, p.EndTime)
	if err == sql.ErrNoRows {
		return nil, ErrTodoNotFound
	}
	if err != nil {
		slog.Error("Failed to update todo", "error", err, "todo_id", id)
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}

	return todo, nil
}

func DeleteTodo(ctx context.Context, id string) error {
	res, err := DB.ExecContext(ctx, `DELETE FROM todos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	if affected == 0 {
		return ErrTodoNotFound
	}

	return nil
}

func DeleteAllTodos(ctx context.Context) error {
	if _, err := DB.ExecContext(ctx, `DELETE FROM todos`); err != nil {
		return fmt.Errorf("failed to delete todos: %w", err)
	}
	return nil
}
