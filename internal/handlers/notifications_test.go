package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tasknest/internal/db"
	"tasknest/internal/reminder"

	"github.com/labstack/echo/v4"
)

// stubStore implements reminder.Store without a database
type stubStore struct {
	notifications []db.Notification
}

func (s *stubStore) List(ctx context.Context, limit int) ([]db.Notification, error) {
	return s.notifications, nil
}

func (s *stubStore) CreateIfAbsent(ctx context.Context, p db.NotificationParams) (*db.Notification, error) {
	return &db.Notification{ID: "new", Type: p.Type, TaskID: p.TaskID}, nil
}

func (s *stubStore) MarkRead(ctx context.Context, id string) error { return nil }
func (s *stubStore) MarkAllRead(ctx context.Context) error         { return nil }
func (s *stubStore) Delete(ctx context.Context, id string) error   { return nil }
func (s *stubStore) DeleteAll(ctx context.Context) error           { return nil }

func setupEngine(t *testing.T, notifications []db.Notification) *reminder.Engine {
	t.Helper()

	engine := reminder.New(&stubStore{notifications: notifications})
	if err := engine.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	InitNotifications(engine)
	return engine
}

func doRequest(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestListNotificationsHandler(t *testing.T) {
	setupEngine(t, []db.Notification{
		{ID: "n1", Type: db.NotificationOverdue, TaskID: "t1", Read: false},
		{ID: "n2", Type: db.NotificationEndTime, TaskID: "t2", Read: true},
	})

	c, rec := doRequest(http.MethodGet, "/api/notifications", "")
	if err := ListNotifications(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Notifications []db.Notification `json:"notifications"`
		UnreadCount   int               `json:"unreadCount"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Notifications) != 2 {
		t.Errorf("expected 2 notifications, got %d", len(resp.Notifications))
	}
	if resp.UnreadCount != 1 {
		t.Errorf("expected unread count 1, got %d", resp.UnreadCount)
	}
}

func TestUpdateNotificationsMarkRead(t *testing.T) {
	engine := setupEngine(t, []db.Notification{
		{ID: "n1", Type: db.NotificationOverdue, TaskID: "t1"},
	})

	c, rec := doRequest(http.MethodPut, "/api/notifications", `{"id":"n1"}`)
	if err := UpdateNotifications(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := engine.UnreadCount(); got != 0 {
		t.Errorf("expected unread count 0, got %d", got)
	}
}

func TestUpdateNotificationsMarkAllRead(t *testing.T) {
	engine := setupEngine(t, []db.Notification{
		{ID: "n1", Type: db.NotificationOverdue, TaskID: "t1"},
		{ID: "n2", Type: db.NotificationEndTime, TaskID: "t2"},
	})

	c, rec := doRequest(http.MethodPut, "/api/notifications", `{"markAllRead":true}`)
	if err := UpdateNotifications(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := engine.UnreadCount(); got != 0 {
		t.Errorf("expected unread count 0, got %d", got)
	}
}

func TestUpdateNotificationsMissingID(t *testing.T) {
	setupEngine(t, nil)

	c, rec := doRequest(http.MethodPut, "/api/notifications", `{}`)
	if err := UpdateNotifications(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestDeleteSingleNotification(t *testing.T) {
	engine := setupEngine(t, []db.Notification{
		{ID: "n1", Type: db.NotificationOverdue, TaskID: "t1"},
		{ID: "n2", Type: db.NotificationEndTime, TaskID: "t2"},
	})

	c, rec := doRequest(http.MethodDelete, "/api/notifications?id=n1", "")
	if err := DeleteNotifications(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := len(engine.List()); got != 1 {
		t.Errorf("expected 1 notification remaining, got %d", got)
	}
}

func TestDeleteAllNotifications(t *testing.T) {
	engine := setupEngine(t, []db.Notification{
		{ID: "n1", Type: db.NotificationOverdue, TaskID: "t1"},
	})

	c, rec := doRequest(http.MethodDelete, "/api/notifications", "")
	if err := DeleteNotifications(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := len(engine.List()); got != 0 {
		t.Errorf("expected empty list, got %d notifications", got)
	}
}

func TestCreateNotificationRejectsUnknownType(t *testing.T) {
	setupEngine(t, nil)

	c, rec := doRequest(http.MethodPost, "/api/notifications",
		`{"type":"push","taskId":"t1","title":"x","message":"y"}`)
	if err := CreateNotification(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCreateNotificationRejectsMissingFields(t *testing.T) {
	setupEngine(t, nil)

	c, rec := doRequest(http.MethodPost, "/api/notifications",
		`{"type":"overdue","taskId":"","title":"x","message":"y"}`)
	if err := CreateNotification(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
