package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"tasknest/internal/auth"
	"tasknest/internal/db"
	"tasknest/internal/queue"
	"tasknest/internal/reminder"

	"github.com/labstack/echo/v4"
)

type TodoRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description"`
	Completed   bool    `json:"completed"`
	Ongoing     *bool   `json:"ongoing"`
	Priority    string  `json:"priority" validate:"omitempty,oneof=low medium high"`
	Category    string  `json:"category"`
	StartDate   *string `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	StartTime   *string `json:"startTime" validate:"omitempty,datetime=15:04"`
	EndDate     *string `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
	EndTime     *string `json:"endTime" validate:"omitempty,datetime=15:04"`
}

// todoView decorates a stored todo with its computed display status.
type todoView struct {
	db.Todo
	Status string `json:"status"`
}

type todoPagination struct {
	Total   int64 `json:"total"`
	Skip    int   `json:"skip"`
	Limit   int   `json:"limit"`
	HasMore bool  `json:"hasMore"`
}

func (r *TodoRequest) params() db.TodoParams {
	p := db.TodoParams{
		Title:       r.Title,
		Description: r.Description,
		Completed:   r.Completed,
		Priority:    r.Priority,
		Category:    r.Category,
		StartDate:   r.StartDate,
		StartTime:   r.StartTime,
		EndDate:     r.EndDate,
		EndTime:     r.EndTime,
	}
	// An absent ongoing flag means false, matching how clients send
	// partial updates.
	if r.Ongoing != nil {
		p.Ongoing = *r.Ongoing
	}
	if p.Priority == "" {
		p.Priority = "medium"
	}
	if p.Category == "" {
		p.Category = "Personal"
	}
	return p
}

func ListTodos(c echo.Context) error {
	skip := 0
	limit := 10

	if s := c.QueryParam("skip"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			skip = v
		}
	}
	if l := c.QueryParam("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}

	todos, total, err := db.ListTodos(c.Request().Context(), skip, limit)
	if err != nil {
		slog.Error("Failed to list todos", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch todos"})
	}

	now := time.Now()
	views := make([]todoView, len(todos))
	for i, todo := range todos {
		views[i] = todoView{Todo: todo, Status: reminder.Status(todo, now)}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"todos": views,
		"pagination": todoPagination{
			Total:   total,
			Skip:    skip,
			Limit:   limit,
			HasMore: int64(skip+limit) < total,
		},
	})
}

func GetTodo(c echo.Context) error {
	todo, err := db.GetTodo(c.Request().Context(), c.Param("id"))
	if errors.Is(err, db.ErrTodoNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Todo not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch todo"})
	}

	return c.JSON(http.StatusOK, todoView{Todo: *todo, Status: reminder.Status(*todo, time.Now())})
}

func CreateTodo(c echo.Context) error {
	var req TodoRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	if err := auth.Validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid todo payload"})
	}

	todo, err := db.CreateTodo(c.Request().Context(), req.params())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create todo"})
	}

	requestReminderScan("todo created")

	return c.JSON(http.StatusCreated, todo)
}

func UpdateTodo(c echo.Context) error {
	var req TodoRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	if err := auth.Validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid todo payload"})
	}

	todo, err := db.UpdateTodo(c.Request().Context(), c.Param("id"), req.params())
	if errors.Is(err, db.ErrTodoNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Todo not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update todo"})
	}

	requestReminderScan("todo updated")

	return c.JSON(http.StatusOK, todo)
}

func DeleteTodo(c echo.Context) error {
	err := db.DeleteTodo(c.Request().Context(), c.Param("id"))
	if errors.Is(err, db.ErrTodoNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Todo not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete todo"})
	}

	requestReminderScan("todo deleted")

	return c.JSON(http.StatusOK, map[string]string{"message": "Todo deleted"})
}

func DeleteAllTodos(c echo.Context) error {
	if err := db.DeleteAllTodos(c.Request().Context()); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete todos"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "All todos deleted"})
}

// requestReminderScan is best-effort: a missed scan is picked up by the
// next periodic one.
func requestReminderScan(reason string) {
	if _, err := queue.EnqueueReminderScan(reason); err != nil {
		slog.Warn("Failed to enqueue reminder scan", "error", err, "reason", reason)
	}
}
