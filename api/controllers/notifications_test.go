package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/emontecinos/campusmarket-backend/api/middleware"
	"github.com/emontecinos/campusmarket-backend/internal/notifications"
	pkgerrors "github.com/emontecinos/campusmarket-backend/pkg/errors"
	"github.com/emontecinos/campusmarket-backend/pkg/logger"
)

type testNotificationsService struct {
	listFn        func(ctx context.Context, params notifications.ListParams) (*notifications.ListResult, error)
	markReadFn    func(ctx context.Context, accountID, notificationID int64) error
	markAllReadFn func(ctx context.Context, accountID int64) (int64, error)
	unreadFn      func(ctx context.Context, accountID int64) (int64, error)
}

func (s *testNotificationsService) List(ctx context.Context, params notifications.ListParams) (*notifications.ListResult, error) {
	if s.listFn != nil {
		return s.listFn(ctx, params)
	}
	return &notifications.ListResult{}, nil
}

func (s *testNotificationsService) MarkRead(ctx context.Context, accountID, notificationID int64) error {
	if s.markReadFn != nil {
		return s.markReadFn(ctx, accountID, notificationID)
	}
	return nil
}

func (s *testNotificationsService) MarkAllRead(ctx context.Context, accountID int64) (int64, error) {
	if s.markAllReadFn != nil {
		return s.markAllReadFn(ctx, accountID)
	}
	return 0, nil
}

func (s *testNotificationsService) UnreadCount(ctx context.Context, accountID int64) (int64, error) {
	if s.unreadFn != nil {
		return s.unreadFn(ctx, accountID)
	}
	return 0, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func addRouteParam(r *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, routeCtx))
}

func TestMarkNotificationReadSuccess(t *testing.T) {
	called := false
	svc := &testNotificationsService{
		markReadFn: func(ctx context.Context, accountID, notificationID int64) error {
			called = true
			if accountID != 7 {
				t.Fatalf("unexpected account %d", accountID)
			}
			if notificationID != 12 {
				t.Fatalf("unexpected notification %d", notificationID)
			}
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodPatch, "/api/notifications/12/read", nil)
	req = req.WithContext(middleware.WithAccountID(req.Context(), 7))
	req = addRouteParam(req, "notificationId", "12")

	resp := httptest.NewRecorder()
	MarkNotificationRead(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if !called {
		t.Fatal("expected service called")
	}
	var envelope struct {
		Data map[string]bool `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !envelope.Data["read"] {
		t.Fatal("response missing read flag")
	}
}

func TestMarkNotificationReadInvalidID(t *testing.T) {
	req := httptest.NewRequest(http.MethodPatch, "/api/notifications/abc/read", nil)
	req = req.WithContext(middleware.WithAccountID(req.Context(), 7))
	req = addRouteParam(req, "notificationId", "abc")

	resp := httptest.NewRecorder()
	MarkNotificationRead(&testNotificationsService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestMarkNotificationReadNotFound(t *testing.T) {
	svc := &testNotificationsService{
		markReadFn: func(ctx context.Context, accountID, notificationID int64) error {
			return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
		},
	}

	req := httptest.NewRequest(http.MethodPatch, "/api/notifications/99/read", nil)
	req = req.WithContext(middleware.WithAccountID(req.Context(), 7))
	req = addRouteParam(req, "notificationId", "99")

	resp := httptest.NewRecorder()
	MarkNotificationRead(svc, testLogger())(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestListNotificationsPassesFilters(t *testing.T) {
	var got notifications.ListParams
	svc := &testNotificationsService{
		listFn: func(ctx context.Context, params notifications.ListParams) (*notifications.ListResult, error) {
			got = params
			return &notifications.ListResult{Cursor: "next"}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/notifications?limit=5&cursor=abc&unreadOnly=true", nil)
	req = req.WithContext(middleware.WithAccountID(req.Context(), 7))

	resp := httptest.NewRecorder()
	ListNotifications(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if got.AccountID != 7 || got.Limit != 5 || got.Cursor != "abc" || !got.UnreadOnly {
		t.Fatalf("filters not forwarded: %+v", got)
	}
}

func TestListNotificationsRejectsBadLimit(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/notifications?limit=nope", nil)
	req = req.WithContext(middleware.WithAccountID(req.Context(), 7))

	resp := httptest.NewRecorder()
	ListNotifications(&testNotificationsService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestUnreadNotificationsCount(t *testing.T) {
	svc := &testNotificationsService{
		unreadFn: func(ctx context.Context, accountID int64) (int64, error) {
			return 3, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/notifications/unread-count", nil)
	req = req.WithContext(middleware.WithAccountID(req.Context(), 7))

	resp := httptest.NewRecorder()
	UnreadNotificationsCount(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	var envelope struct {
		Data map[string]int64 `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data["unread"] != 3 {
		t.Fatalf("expected unread 3, got %+v", envelope.Data)
	}
}
