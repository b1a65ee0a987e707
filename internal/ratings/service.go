package ratings

import (
	"context"
	"fmt"

	"github.com/emontecinos/campusmarket-backend/internal/notifications"
	"github.com/emontecinos/campusmarket-backend/pkg/db"
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

// Service exposes seller rating and reputation operations.
type Service interface {
	Rate(ctx context.Context, raterID, ratedID int64, in RateInput) (*RateResult, error)
	ListForSeller(ctx context.Context, sellerID int64, params pagination.Params) ([]RatingDTO, types.Pagination, error)
}

// ServiceParams groups dependencies for the ratings service.
type ServiceParams struct {
	Repo             Repository
	NotificationRepo notifications.Repository
	Tx               TxRunner
	Logger           *logger.Logger
}

type service struct {
	repo      Repository
	notifRepo notifications.Repository
	tx        TxRunner
	logg      *logger.Logger
}

// NewService wires rating dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "ratings repository required")
	}
	if params.NotificationRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications repository required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	return &service{
		repo:      params.Repo,
		notifRepo: params.NotificationRepo,
		tx:        params.Tx,
		logg:      params.Logger,
	}, nil
}

// Rate stores a score for the seller and recomputes their reputation. Checks
// run in a fixed order: score range, completed transaction linking the pair,
// then duplicate rating. The insert, the reputation recompute, and the
// notification row all commit in one transaction; the composite unique index
// on (rater, rated, transaction) turns a lost race into the same conflict the
// fast-path check reports.
func (s *service) Rate(ctx context.Context, raterID, ratedID int64, in RateInput) (*RateResult, error) {
	if in.Score < 1 || in.Score > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "score must be between 1 and 5")
	}

	transaction, err := s.repo.FindCompletedTransaction(ctx, raterID, ratedID)
	if err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodePrecondition, "no completed transaction with this seller")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load transaction")
	}

	exists, err := s.repo.Exists(ctx, raterID, ratedID, transaction.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing rating")
	}
	if exists {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "seller already rated for this transaction")
	}

	rating := models.Rating{
		RaterID:       raterID,
		RatedID:       ratedID,
		TransactionID: transaction.ID,
		Score:         in.Score,
		Comment:       in.Comment,
	}

	var reputation float64
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		if err := txRepo.Create(ctx, &rating); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "seller already rated for this transaction")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist rating")
		}

		average, err := txRepo.AverageForAccount(ctx, ratedID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recompute reputation")
		}
		if err := txRepo.SetReputation(ctx, ratedID, average); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store reputation")
		}
		reputation = average

		notification := models.Notification{
			AccountID: ratedID,
			Type:      enums.NotificationTypeRatingReceived,
			Title:     "New rating received",
			Message:   fmt.Sprintf("You received a %d-star rating", in.Score),
		}
		if err := s.notifRepo.WithTx(tx).Create(ctx, &notification); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store notification")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"rating_id":  rating.ID,
			"rated_id":   ratedID,
			"reputation": reputation,
		}), "ratings.rate reputation recomputed")
	}

	return &RateResult{
		Rating:     toDTO(rating),
		Reputation: reputation,
	}, nil
}

// ListForSeller pages the ratings an account has received.
func (s *service) ListForSeller(ctx context.Context, sellerID int64, params pagination.Params) ([]RatingDTO, types.Pagination, error) {
	if sellerID <= 0 {
		return nil, types.Pagination{}, pkgerrors.New(pkgerrors.CodeValidation, "seller id is required")
	}

	page := pagination.NormalizePage(params.Page)
	limit := pagination.NormalizeLimit(params.Limit)
	offset := pagination.Offset(page, limit)

	rows, total, err := s.repo.ListForSeller(ctx, sellerID, offset, limit)
	if err != nil {
		return nil, types.Pagination{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list ratings")
	}

	items := make([]RatingDTO, 0, len(rows))
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
