package transactions

import (
	"context"

	"github.com/emontecinos/campusmarket-backend/internal/products"
	"github.com/emontecinos/campusmarket-backend/pkg/db/models"
	"github.com/emontecinos/campusmarket-backend/pkg/enums"
	pkgerrors "github.com/emontecinos/campusmarket-backend/pkg/errors"
	"github.com/emontecinos/campusmarket-backend/pkg/logger"
	"github.com/emontecinos/campusmarket-backend/pkg/pagination"
	"github.com/emontecinos/campusmarket-backend/pkg/types"
	"gorm.io/gorm"
)

// TxRunner executes a function inside one database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes purchase recording and seller sales reads.
type Service interface {
	Purchase(ctx context.Context, buyerID int64, in PurchaseInput) (*SaleDTO, error)
	ListSales(ctx context.Context, sellerID int64, state string, params pagination.Params) ([]SaleDTO, SalesStats, types.Pagination, error)
	Get(ctx context.Context, actorID, saleID int64) (*SaleDTO, error)
}

// ServiceParams groups dependencies for the sales service.
type ServiceParams struct {
	Repo        Repository
	ProductRepo products.Repository
	Tx          TxRunner
	Logger      *logger.Logger
}

type service struct {
	repo        Repository
	productRepo products.Repository
	tx          TxRunner
	logg        *logger.Logger
}

// NewService wires sales dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transactions repository required")
	}
	if params.ProductRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "products repository required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	return &service{
		repo:        params.Repo,
		productRepo: params.ProductRepo,
		tx:          params.Tx,
		logg:        params.Logger,
	}, nil
}

// Purchase records a completed sale: quantity moves off the listing, the
// transaction row links buyer and seller, and a drained listing flips to the
// sold state. All inside one database transaction.
func (s *service) Purchase(ctx context.Context, buyerID int64, in PurchaseInput) (*SaleDTO, error) {
	if in.Quantity <= 0 {
		in.Quantity = 1
	}

	var transaction models.Transaction
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txProducts := s.productRepo.WithTx(tx)
		txRepo := s.repo.WithTx(tx)

		product, err := txProducts.FindByID(ctx, in.ProductID)
		if err != nil {
			if products.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}
		if product.SellerID == buyerID {
			return pkgerrors.New(pkgerrors.CodePrecondition, "cannot buy your own product")
		}
		if !product.Visible || product.State == nil || product.State.Name != enums.ProductStateAvailable {
			return pkgerrors.New(pkgerrors.CodePrecondition, "product is not available")
		}
		if product.Quantity < in.Quantity {
			return pkgerrors.New(pkgerrors.CodePrecondition, "insufficient quantity")
		}

		product.Quantity -= in.Quantity
		if product.Quantity == 0 {
			soldState, err := txProducts.FindStateByName(ctx, enums.ProductStateSold)
			if err != nil {
				if products.IsNotFound(err) {
					return pkgerrors.New(pkgerrors.CodeConfiguration, "sold product state missing")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve product state")
			}
			product.StateID = soldState.ID
		}
		if err := txProducts.Save(ctx, product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product stock")
		}

		completed, err := txRepo.FindStateByName(ctx, enums.TransactionStateCompleted)
		if err != nil {
			if IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeConfiguration, "completed transaction state missing")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve transaction state")
		}

		transaction = models.Transaction{
			ProductID:  product.ID,
			BuyerID:    buyerID,
			SellerID:   product.SellerID,
			Quantity:   in.Quantity,
			TotalPrice: product.CurrentPrice * float64(in.Quantity),
			StateID:    completed.ID,
		}
		if err := txRepo.Create(ctx, &transaction); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record purchase")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	stored, err := s.repo.FindByID(ctx, transaction.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sale")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"sale_id":  stored.ID,
			"buyer_id": buyerID,
		}), "transactions.purchase recorded")
	}

	dto := toDTO(*stored)
	return &dto, nil
}

// ListSales pages the seller's sales and returns aggregate totals alongside.
func (s *service) ListSales(ctx context.Context, sellerID int64, state string, params pagination.Params) ([]SaleDTO, SalesStats, types.Pagination, error) {
	var stateFilter enums.TransactionState
	if state != "" {
		parsed, err := enums.ParseTransactionState(state)
		if err != nil {
			return nil, SalesStats{}, types.Pagination{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid state filter")
		}
		stateFilter = parsed
	}

	page := pagination.NormalizePage(params.Page)
	limit := pagination.NormalizeLimit(params.Limit)

	rows, total, err := s.repo.ListForSeller(ctx, sellerID, stateFilter, pagination.Offset(page, limit), limit)
	if err != nil {
		return nil, SalesStats{}, types.Pagination{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sales")
	}

	stats, err := s.repo.StatsForSeller(ctx, sellerID)
	if err != nil {
		return nil, SalesStats{}, types.Pagination{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sales stats")
	}

	items := make([]SaleDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, toDTO(row))
	}

	meta := types.Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: pagination.TotalPages(total, limit),
	}
	return items, stats, meta, nil
}

// Get returns one sale, visible only to its buyer or seller.
func (s *service) Get(ctx context.Context, actorID, saleID int64) (*SaleDTO, error) {
	if saleID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sale id is required")
	}

	transaction, err := s.repo.FindByID(ctx, saleID)
	if err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "sale not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sale")
	}
	if transaction.SellerID != actorID && transaction.BuyerID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not a party to this sale")
	}

	dto := toDTO(*transaction)
	return &dto, nil
}
