package handlers

import (
	"log/slog"
	"net/http"

	"tasknest/internal/db"
	"tasknest/internal/reminder"

	"github.com/labstack/echo/v4"
)

// notificationEngine is the process-wide rule engine instance. Reads and
// mutations go through it so its dedup set stays in step with the store,
// in particular so clearing all notifications re-arms still-eligible
// reminder conditions.
var notificationEngine *reminder.Engine

func InitNotifications(engine *reminder.Engine) {
	notificationEngine = engine
}

type UpdateNotificationRequest struct {
	ID          string `json:"id"`
	MarkAllRead bool   `json:"markAllRead"`
}

func ListNotifications(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"notifications": notificationEngine.List(),
		"unreadCount":   notificationEngine.UnreadCount(),
	})
}

// CreateNotification exposes the store's create-or-return-existing
// operation directly. Callers get the existing record back unchanged
// when the (taskId, type) pair has already fired.
func CreateNotification(c echo.Context) error {
	var req db.NotificationParams
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	switch req.Type {
	case db.NotificationStartTime, db.NotificationEndTime, db.NotificationOverdue:
	default:
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid notification type"})
	}

	if req.TaskID == "" || req.Title == "" || req.Message == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "taskId, title and message are required"})
	}

	notification, err := db.NotificationStore{}.CreateIfAbsent(c.Request().Context(), req)
	if err != nil {
		slog.Error("Failed to create notification", "error", err, "task_id", req.TaskID)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create notification"})
	}

	return c.JSON(http.StatusCreated, notification)
}

func UpdateNotifications(c echo.Context) error {
	var req UpdateNotificationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	if req.MarkAllRead {
		if err := notificationEngine.MarkAllRead(c.Request().Context()); err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update notifications"})
		}
		return c.JSON(http.StatusOK, map[string]bool{"success": true})
	}

	if req.ID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Notification ID is required"})
	}

	if err := notificationEngine.MarkRead(c.Request().Context(), req.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update notification"})
	}

	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

func DeleteNotifications(c echo.Context) error {
	if id := c.QueryParam("id"); id != "" {
		if err := notificationEngine.Remove(c.Request().Context(), id); err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete notification"})
		}
		return c.JSON(http.StatusOK, map[string]bool{"success": true})
	}

	if err := notificationEngine.ClearAll(c.Request().Context()); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to clear notifications"})
	}

	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
