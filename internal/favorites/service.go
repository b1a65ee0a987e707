package favorites

import (
	"context"
	"time"

	"github.com/emontecinos/campusmarket-backend/internal/products"
	"github.com/emontecinos/campusmarket-backend/pkg/db"
	"github.com/emontecinos/campusmarket-backend/pkg/db/models"
	pkgerrors "github.com/emontecinos/campusmarket-backend/pkg/errors"
	"github.com/emontecinos/campusmarket-backend/pkg/pagination"
	"github.com/emontecinos/campusmarket-backend/pkg/types"
)

// AddInput is the wire body for bookmarking a product.
type AddInput struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
}

// FavoriteDTO is one bookmarked listing.
type FavoriteDTO struct {
	ID        int64                `json:"id"`
	Product   *products.ProductDTO `json:"product,omitempty"`
	CreatedAt time.Time            `json:"createdAt"`
}

// Service exposes favorite bookmarking operations.
type Service interface {
	List(ctx context.Context, accountID int64, params pagination.Params) ([]FavoriteDTO, types.Pagination, error)
	Add(ctx context.Context, accountID int64, in AddInput) (*FavoriteDTO, error)
	Remove(ctx context.Context, accountID, productID int64) (int64, error)
}

// ServiceParams groups dependencies for the favorites service.
type ServiceParams struct {
	Repo        Repository
	ProductRepo products.Repository
}

type service struct {
	repo        Repository
	productRepo products.Repository
}

// NewService wires favorite dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "favorites repository required")
	}
	if params.ProductRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "products repository required")
	}
	return &service{
		repo:        params.Repo,
		productRepo: params.ProductRepo,
	}, nil
}

func (s *service) List(ctx context.Context, accountID int64, params pagination.Params) ([]FavoriteDTO, types.Pagination, error) {
	page := pagination.NormalizePage(params.Page)
	limit := pagination.NormalizeLimit(params.Limit)

	rows, total, err := s.repo.List(ctx, accountID, pagination.Offset(page, limit), limit)
	if err != nil {
		return nil, types.Pagination{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list favorites")
	}

	items := make([]FavoriteDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, toDTO(row))
	}

	meta := types.Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: pagination.TotalPages(total, limit),
	}
	return items, meta, nil
}

// Add bookmarks a product: unknown product is a 404, an existing bookmark a
// conflict. The composite unique index backs the duplicate check under races.
func (s *service) Add(ctx context.Context, accountID int64, in AddInput) (*FavoriteDTO, error) {
	if in.ProductID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	if _, err := s.productRepo.FindByID(ctx, in.ProductID); err != nil {
		if products.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	exists, err := s.repo.Exists(ctx, accountID, in.ProductID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check favorite")
	}
	if exists {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "product already in favorites")
	}

	favorite := models.Favorite{
		AccountID: accountID,
		ProductID: in.ProductID,
	}
	if err := s.repo.Add(ctx, &favorite); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product already in favorites")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist favorite")
	}

	dto := toDTO(favorite)
	return &dto, nil
}

// Remove drops the bookmark and reports how many rows were deleted.
func (s *service) Remove(ctx context.Context, accountID, productID int64) (int64, error) {
	if productID <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	count, err := s.repo.Remove(ctx, accountID, productID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove favorite")
	}
	return count, nil
}

func toDTO(favorite models.Favorite) FavoriteDTO {
	dto := FavoriteDTO{
		ID:        favorite.ID,
		CreatedAt: favorite.CreatedAt,
	}
	if favorite.Product != nil {
		product := products.ToDTO(*favorite.Product)
		dto.Product = &product
	}
	return dto
}
