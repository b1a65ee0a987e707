package favorites

import (
	"context"
	"testing"

	"github.com/emontecinos/campusmarket-backend/internal/products"
	"github.com/emontecinos/campusmarket-backend/pkg/db/models"
	pkgerrors "github.com/emontecinos/campusmarket-backend/pkg/errors"
	"gorm.io/gorm"
)

type stubFavoriteRepo struct {
	exists  bool
	added   *models.Favorite
	removed int64
}

func (s *stubFavoriteRepo) Add(ctx context.Context, favorite *models.Favorite) error {
	favorite.ID = 1
	s.added = favorite
	return nil
}

func (s *stubFavoriteRepo) Remove(ctx context.Context, accountID, productID int64) (int64, error) {
	return s.removed, nil
}

func (s *stubFavoriteRepo) Exists(ctx context.Context, accountID, productID int64) (bool, error) {
	return s.exists, nil
}

func (s *stubFavoriteRepo) List(ctx context.Context, accountID int64, offset, limit int) ([]models.Favorite, int64, error) {
	return nil, 0, nil
}

type stubCatalog struct {
	products.Repository
	product *models.Product
}

func (s *stubCatalog) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	if s.product == nil || s.product.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.product, nil
}

func newFavoriteService(t *testing.T, repo Repository, catalog products.Repository) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: repo, ProductRepo: catalog})
	if err != nil {
		t.Fatalf("wiring favorites service: %v", err)
	}
	return svc
}

func TestAddBookmarksProduct(t *testing.T) {
	t.Parallel()

	repo := &stubFavoriteRepo{}
	svc := newFavoriteService(t, repo, &stubCatalog{product: &models.Product{ID: 3}})

	dto, err := svc.Add(context.Background(), 7, AddInput{ProductID: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dto.ID != 1 {
		t.Fatalf("unexpected favorite: %+v", dto)
	}
	if repo.added == nil || repo.added.AccountID != 7 || repo.added.ProductID != 3 {
		t.Fatalf("unexpected stored favorite: %+v", repo.added)
	}
}

func TestAddUnknownProduct(t *testing.T) {
	t.Parallel()

	svc := newFavoriteService(t, &stubFavoriteRepo{}, &stubCatalog{})
	_, err := svc.Add(context.Background(), 7, AddInput{ProductID: 3})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAddDuplicate(t *testing.T) {
	t.Parallel()

	repo := &stubFavoriteRepo{exists: true}
	svc := newFavoriteService(t, repo, &stubCatalog{product: &models.Product{ID: 3}})

	_, err := svc.Add(context.Background(), 7, AddInput{ProductID: 3})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if repo.added != nil {
		t.Fatal("duplicate bookmark must not be stored")
	}
}

func TestRemoveReportsDeleteCount(t *testing.T) {
	t.Parallel()

	svc := newFavoriteService(t, &stubFavoriteRepo{removed: 1}, &stubCatalog{})

	count, err := svc.Remove(context.Background(), 7, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one deleted row, got %d", count)
	}

	if _, err := svc.Remove(context.Background(), 7, 0); pkgerrors.As(err) == nil {
		t.Fatal("expected validation error for missing product id")
	}
}
