package reports

import (
	"context"
	"testing"

	"github.com/emontecinos/campusmarket-backend/internal/notifications"
	"github.com/emontecinos/campusmarket-backend/pkg/db/models"
	"github.com/emontecinos/campusmarket-backend/pkg/enums"
	pkgerrors "github.com/emontecinos/campusmarket-backend/pkg/errors"
	"gorm.io/gorm"
)

type stubReportRepo struct {
	nextID int64
	stored map[int64]*models.Report
}

func newStubReportRepo() *stubReportRepo {
	return &stubReportRepo{stored: make(map[int64]*models.Report)}
}

func (s *stubReportRepo) Create(ctx context.Context, report *models.Report) error {
	s.nextID++
	report.ID = s.nextID
	stored := *report
	s.stored[report.ID] = &stored
	return nil
}

func (s *stubReportRepo) FindByID(ctx context.Context, id int64) (*models.Report, error) {
	if report, ok := s.stored[id]; ok {
		copied := *report
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubReportRepo) ListForReporter(ctx context.Context, reporterID int64, offset, limit int) ([]models.Report, int64, error) {
	return nil, 0, nil
}

func (s *stubReportRepo) List(ctx context.Context, status enums.ReportStatus, offset, limit int) ([]models.Report, int64, error) {
	return nil, 0, nil
}

func (s *stubReportRepo) Save(ctx context.Context, report *models.Report) error {
	stored := *report
	s.stored[report.ID] = &stored
	return nil
}

func (s *stubReportRepo) CountOpen(ctx context.Context) (int64, error) { return 0, nil }

type stubNotifRepo struct {
	notifications.Repository
	created []models.Notification
	fail    error
}

func (s *stubNotifRepo) Create(ctx context.Context, notification *models.Notification) error {
	if s.fail != nil {
		return s.fail
	}
	s.created = append(s.created, *notification)
	return nil
}

func newReportService(t *testing.T, repo Repository, notif *stubNotifRepo) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: repo, NotificationRepo: notif})
	if err != nil {
		t.Fatalf("wiring reports service: %v", err)
	}
	return svc
}

func TestCreateRequiresExactlyOneTarget(t *testing.T) {
	t.Parallel()

	svc := newReportService(t, newStubReportRepo(), &stubNotifRepo{})
	accountID := int64(4)
	productID := int64(9)

	cases := []struct {
		name string
		in   CreateInput
	}{
		{"no target", CreateInput{Reason: "spam"}},
		{"both targets", CreateInput{ReportedAccountID: &accountID, ProductID: &productID, Reason: "spam"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), 1, tc.in)
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateOpensReport(t *testing.T) {
	t.Parallel()

	repo := newStubReportRepo()
	svc := newReportService(t, repo, &stubNotifRepo{})
	productID := int64(9)

	dto, err := svc.Create(context.Background(), 1, CreateInput{ProductID: &productID, Reason: "producto falso"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dto.Status != enums.ReportStatusOpen {
		t.Fatalf("new reports start open, got %q", dto.Status)
	}
	if dto.ReporterID != 1 || dto.ProductID == nil || *dto.ProductID != 9 {
		t.Fatalf("unexpected report: %+v", dto)
	}
}

func TestAdminResolveNotifiesReporter(t *testing.T) {
	t.Parallel()

	repo := newStubReportRepo()
	repo.stored[1] = &models.Report{ID: 1, ReporterID: 6, Reason: "spam", Status: enums.ReportStatusOpen}
	notif := &stubNotifRepo{}
	svc := newReportService(t, repo, notif)

	dto, err := svc.AdminResolve(context.Background(), 1, ResolveInput{Status: "reviewed"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dto.Status != enums.ReportStatusReviewed || dto.ResolvedAt == nil {
		t.Fatalf("unexpected resolved report: %+v", dto)
	}
	if len(notif.created) != 1 || notif.created[0].AccountID != 6 {
		t.Fatalf("expected reporter notification, got %+v", notif.created)
	}
	if notif.created[0].Type != enums.NotificationTypeReportResolved {
		t.Fatalf("unexpected notification type %q", notif.created[0].Type)
	}
}

func TestAdminResolveAlreadyClosed(t *testing.T) {
	t.Parallel()

	repo := newStubReportRepo()
	repo.stored[1] = &models.Report{ID: 1, ReporterID: 6, Reason: "spam", Status: enums.ReportStatusReviewed}
	svc := newReportService(t, repo, &stubNotifRepo{})

	_, err := svc.AdminResolve(context.Background(), 1, ResolveInput{Status: "dismissed"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodePrecondition {
		t.Fatalf("expected precondition error, got %v", err)
	}
}

func TestAdminResolveRejectsOpen(t *testing.T) {
	t.Parallel()

	svc := newReportService(t, newStubReportRepo(), &stubNotifRepo{})
	_, err := svc.AdminResolve(context.Background(), 1, ResolveInput{Status: "open"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAdminResolveSurvivesNotificationFailure(t *testing.T) {
	t.Parallel()

	repo := newStubReportRepo()
	repo.stored[1] = &models.Report{ID: 1, ReporterID: 6, Reason: "spam", Status: enums.ReportStatusOpen}
	notif := &stubNotifRepo{fail: gorm.ErrInvalidDB}
	svc := newReportService(t, repo, notif)

	dto, err := svc.AdminResolve(context.Background(), 1, ResolveInput{Status: "reviewed"})
	if err != nil {
		t.Fatalf("notification failure must not fail the resolve: %v", err)
	}
	if dto.Status != enums.ReportStatusReviewed {
		t.Fatalf("unexpected status %q", dto.Status)
	}
}
