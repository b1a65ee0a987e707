package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/emontecinos/campusmarket-backend/pkg/db/models"
	pkgerrors "github.com/emontecinos/campusmarket-backend/pkg/errors"
	"github.com/emontecinos/campusmarket-backend/pkg/pagination"
	"gorm.io/gorm"
)

type stubNotificationRepo struct {
	rows       []models.Notification
	nextCursor *pagination.Cursor
	lastQuery  listNotificationsParams

	markResult notificationMarkResult
	markedAll  int64
	unread     int64
}

func (s *stubNotificationRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubNotificationRepo) Create(ctx context.Context, notification *models.Notification) error {
	return nil
}

func (s *stubNotificationRepo) List(ctx context.Context, params listNotificationsParams) ([]models.Notification, *pagination.Cursor, error) {
	s.lastQuery = params
	return s.rows, s.nextCursor, nil
}

func (s *stubNotificationRepo) MarkRead(ctx context.Context, accountID, notificationID int64, now time.Time) (notificationMarkResult, error) {
	return s.markResult, nil
}

func (s *stubNotificationRepo) MarkAllRead(ctx context.Context, accountID int64, now time.Time) (int64, error) {
	return s.markedAll, nil
}

func (s *stubNotificationRepo) CountUnread(ctx context.Context, accountID int64) (int64, error) {
	return s.unread, nil
}

func newNotificationService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("wiring notifications service: %v", err)
	}
	return svc
}

func TestListEncodesNextCursor(t *testing.T) {
	t.Parallel()

	cursorTime := time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC)
	repo := &stubNotificationRepo{
		rows:       []models.Notification{{ID: 12, AccountID: 3}},
		nextCursor: &pagination.Cursor{CreatedAt: cursorTime, ID: 12},
	}
	svc := newNotificationService(t, repo)

	result, err := svc.List(context.Background(), ListParams{AccountID: 3, Limit: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Items) != 1 {
		t.Fatalf("expected one row, got %d", len(result.Items))
	}
	if result.Cursor == "" {
		t.Fatal("expected an encoded cursor for the next page")
	}

	parsed, err := pagination.ParseCursor(result.Cursor)
	if err != nil || parsed == nil || parsed.ID != 12 {
		t.Fatalf("cursor did not round trip: %+v err %v", parsed, err)
	}
	if repo.lastQuery.Limit != pagination.LimitWithBuffer(1) {
		t.Fatalf("repo must receive the buffered limit, got %d", repo.lastQuery.Limit)
	}
}

func TestListUnreadOnlyReachesRepo(t *testing.T) {
	t.Parallel()

	repo := &stubNotificationRepo{}
	svc := newNotificationService(t, repo)

	if _, err := svc.List(context.Background(), ListParams{AccountID: 3, UnreadOnly: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !repo.lastQuery.UnreadOnly {
		t.Fatal("unread filter was dropped on the way to the repository")
	}
}

func TestListRejectsBadCursor(t *testing.T) {
	t.Parallel()

	svc := newNotificationService(t, &stubNotificationRepo{})
	_, err := svc.List(context.Background(), ListParams{AccountID: 3, Cursor: "%%%"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestMarkReadNotFound(t *testing.T) {
	t.Parallel()

	svc := newNotificationService(t, &stubNotificationRepo{})
	err := svc.MarkRead(context.Background(), 3, 99)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMarkReadAlreadyReadIsIdempotent(t *testing.T) {
	t.Parallel()

	repo := &stubNotificationRepo{markResult: notificationMarkResult{Found: true}}
	svc := newNotificationService(t, repo)

	if err := svc.MarkRead(context.Background(), 3, 12); err != nil {
		t.Fatalf("marking an already-read notification must succeed: %v", err)
	}
}

func TestMarkAllReadReturnsCount(t *testing.T) {
	t.Parallel()

	repo := &stubNotificationRepo{markedAll: 4}
	svc := newNotificationService(t, repo)

	count, err := svc.MarkAllRead(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 4 {
		t.Fatalf("expected 4 updated rows, got %d", count)
	}
}

func TestUnreadCountRequiresAccount(t *testing.T) {
	t.Parallel()

	svc := newNotificationService(t, &stubNotificationRepo{unread: 2})
	if _, err := svc.UnreadCount(context.Background(), 0); pkgerrors.As(err) == nil {
		t.Fatal("expected validation error for missing account id")
	}

	count, err := svc.UnreadCount(context.Background(), 3)
	if err != nil || count != 2 {
		t.Fatalf("expected count 2, got %d err %v", count, err)
	}
}
