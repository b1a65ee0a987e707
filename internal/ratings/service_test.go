package ratings

import (
	"context"
	"testing"

	"github.com/emontecinos/campusmarket-backend/internal/notifications"
	"github.com/emontecinos/campusmarket-backend/pkg/db/models"
	"github.com/emontecinos/campusmarket-backend/pkg/enums"
	pkgerrors "github.com/emontecinos/campusmarket-backend/pkg/errors"
	"github.com/emontecinos/campusmarket-backend/pkg/pagination"
	"gorm.io/gorm"
)

type stubRatingRepo struct {
	transaction *models.Transaction
	txErr       error
	exists      bool
	average     float64

	created    *models.Rating
	reputation *float64
}

func (s *stubRatingRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRatingRepo) FindCompletedTransaction(ctx context.Context, buyerID, sellerID int64) (*models.Transaction, error) {
	if s.txErr != nil {
		return nil, s.txErr
	}
	if s.transaction == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.transaction, nil
}

func (s *stubRatingRepo) Exists(ctx context.Context, raterID, ratedID, transactionID int64) (bool, error) {
	return s.exists, nil
}

func (s *stubRatingRepo) Create(ctx context.Context, rating *models.Rating) error {
	rating.ID = 1
	s.created = rating
	return nil
}

func (s *stubRatingRepo) AverageForAccount(ctx context.Context, accountID int64) (float64, error) {
	return s.average, nil
}

func (s *stubRatingRepo) SetReputation(ctx context.Context, accountID int64, value float64) error {
	s.reputation = &value
	return nil
}

func (s *stubRatingRepo) ListForSeller(ctx context.Context, sellerID int64, offset, limit int) ([]models.Rating, int64, error) {
	return nil, 0, nil
}

type stubNotifRepo struct {
	notifications.Repository
	created []models.Notification
}

func (s *stubNotifRepo) WithTx(tx *gorm.DB) notifications.Repository { return s }

func (s *stubNotifRepo) Create(ctx context.Context, notification *models.Notification) error {
	s.created = append(s.created, *notification)
	return nil
}

type passthroughTx struct{}

func (passthroughTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newRatingService(t *testing.T, repo Repository, notif *stubNotifRepo) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: repo, NotificationRepo: notif, Tx: passthroughTx{}})
	if err != nil {
		t.Fatalf("wiring ratings service: %v", err)
	}
	return svc
}

func TestRateRecomputesReputationAndNotifies(t *testing.T) {
	t.Parallel()

	repo := &stubRatingRepo{
		transaction: &models.Transaction{ID: 10, BuyerID: 1, SellerID: 2},
		average:     4.0,
	}
	notif := &stubNotifRepo{}
	svc := newRatingService(t, repo, notif)

	result, err := svc.Rate(context.Background(), 1, 2, RateInput{Score: 4, Comment: "buen vendedor"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Reputation != 4.0 {
		t.Fatalf("expected reputation 4.0, got %v", result.Reputation)
	}
	if repo.created == nil || repo.created.TransactionID != 10 || repo.created.Score != 4 {
		t.Fatalf("unexpected stored rating: %+v", repo.created)
	}
	if repo.reputation == nil || *repo.reputation != 4.0 {
		t.Fatal("reputation was not written back to the account")
	}
	if len(notif.created) != 1 || notif.created[0].Type != enums.NotificationTypeRatingReceived {
		t.Fatalf("expected one rating notification, got %+v", notif.created)
	}
	if notif.created[0].AccountID != 2 {
		t.Fatalf("notification targeted account %d", notif.created[0].AccountID)
	}
}

func TestRateScoreOutOfRange(t *testing.T) {
	t.Parallel()

	svc := newRatingService(t, &stubRatingRepo{}, &stubNotifRepo{})

	for _, score := range []int{0, 6, -1} {
		_, err := svc.Rate(context.Background(), 1, 2, RateInput{Score: score})
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("score %d: expected validation error, got %v", score, err)
		}
	}
}

func TestRateWithoutCompletedTransaction(t *testing.T) {
	t.Parallel()

	svc := newRatingService(t, &stubRatingRepo{}, &stubNotifRepo{})

	_, err := svc.Rate(context.Background(), 1, 2, RateInput{Score: 5})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodePrecondition {
		t.Fatalf("expected precondition error, got %v", err)
	}
}

func TestRateDuplicate(t *testing.T) {
	t.Parallel()

	repo := &stubRatingRepo{
		transaction: &models.Transaction{ID: 10, BuyerID: 1, SellerID: 2},
		exists:      true,
	}
	svc := newRatingService(t, repo, &stubNotifRepo{})

	_, err := svc.Rate(context.Background(), 1, 2, RateInput{Score: 5})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if repo.created != nil {
		t.Fatal("duplicate rating must not be stored")
	}
}

func TestListForSellerRequiresID(t *testing.T) {
	t.Parallel()

	svc := newRatingService(t, &stubRatingRepo{}, &stubNotifRepo{})
	_, _, err := svc.ListForSeller(context.Background(), 0, pagination.Params{})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
