package ratings

import (
	"context"
	"errors"

	"github.com/emontecinos/campusmarket-backend/pkg/db/models"
	"github.com/emontecinos/campusmarket-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository defines rating persistence operations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindCompletedTransaction(ctx context.Context, buyerID, sellerID int64) (*models.Transaction, error)
	Exists(ctx context.Context, raterID, ratedID, transactionID int64) (bool, error)
	Create(ctx context.Context, rating *models.Rating) error
	AverageForAccount(ctx context.Context, accountID int64) (float64, error)
	SetReputation(ctx context.Context, accountID int64, value float64) error
	ListForSeller(ctx context.Context, sellerID int64, offset, limit int) ([]models.Rating, int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository constructs a rating repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// WithTx rebinds the repository to a transaction handle.
func (r *gormRepository) WithTx(tx *gorm.DB) Repository {
	return &gormRepository{db: tx}
}

// FindCompletedTransaction returns the latest completed purchase linking the
// buyer to the seller, or gorm.ErrRecordNotFound.
func (r *gormRepository) FindCompletedTransaction(ctx context.Context, buyerID, sellerID int64) (*models.Transaction, error) {
	var transaction models.Transaction
	err := r.db.WithContext(ctx).
		Joins("JOIN transaction_states ts ON ts.id = transactions.state_id").
		Where("transactions.buyer_id = ? AND transactions.seller_id = ? AND ts.name = ?",
			buyerID, sellerID, enums.TransactionStateCompleted.String()).
		Order("transactions.transacted_at DESC").Order("transactions.id DESC").
		First(&transaction).Error
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (r *gormRepository) Exists(ctx context.Context, raterID, ratedID, transactionID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Rating{}).
		Where("rater_id = ? AND rated_id = ? AND transaction_id = ?", raterID, ratedID, transactionID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *gormRepository) Create(ctx context.Context, rating *models.Rating) error {
	return r.db.WithContext(ctx).Create(rating).Error
}

// AverageForAccount recomputes the mean score over every rating the account
// has received; no ratings yields zero.
func (r *gormRepository) AverageForAccount(ctx context.Context, accountID int64) (float64, error) {
	var row struct {
		Average float64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Rating{}).
		Select("COALESCE(AVG(score), 0) AS average").
		Where("rated_id = ?", accountID).
		Scan(&row).Error
	if err != nil {
		return 0, err
	}
	return row.Average, nil
}

func (r *gormRepository) SetReputation(ctx context.Context, accountID int64, value float64) error {
	result := r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ?", accountID).
		Update("reputation", value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListForSeller pages the ratings an account has received, newest first,
// with the rater preloaded.
func (r *gormRepository) ListForSeller(ctx context.Context, sellerID int64, offset, limit int) ([]models.Rating, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&models.Rating{}).
		Where("rated_id = ?", sellerID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Rating
	if err := base.
		Preload("Rater").
		Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// IsNotFound reports whether the error is the repository's missing-row signal.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
