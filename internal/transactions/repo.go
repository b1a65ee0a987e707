package transactions

import (
	"context"
	"errors"

	"github.com/emontecinos/campusmarket-backend/pkg/db/models"
	"github.com/emontecinos/campusmarket-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository defines sales persistence operations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, transaction *models.Transaction) error
	FindByID(ctx context.Context, id int64) (*models.Transaction, error)
	ListForSeller(ctx context.Context, sellerID int64, state enums.TransactionState, offset, limit int) ([]models.Transaction, int64, error)
	StatsForSeller(ctx context.Context, sellerID int64) (SalesStats, error)
	FindStateByName(ctx context.Context, name enums.TransactionState) (*models.TransactionState, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository constructs a sales repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// WithTx rebinds the repository to a transaction handle.
func (r *gormRepository) WithTx(tx *gorm.DB) Repository {
	return &gormRepository{db: tx}
}

func (r *gormRepository) Create(ctx context.Context, transaction *models.Transaction) error {
	return r.db.WithContext(ctx).Create(transaction).Error
}

func (r *gormRepository) FindByID(ctx context.Context, id int64) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Buyer").
		Preload("Seller").
		Preload("State").
		First(&transaction, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (r *gormRepository) ListForSeller(ctx context.Context, sellerID int64, state enums.TransactionState, offset, limit int) ([]models.Transaction, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("transactions.seller_id = ?", sellerID)

	if state != "" {
		base = base.
			Joins("JOIN transaction_states ts ON ts.id = transactions.state_id").
			Where("ts.name = ?", state.String())
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Transaction
	if err := base.
		Preload("Product").
		Preload("Buyer").
		Preload("State").
		Order("transactions.transacted_at DESC").Order("transactions.id DESC").
		Offset(offset).Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// StatsForSeller totals the seller's sales and breaks the count down by state.
func (r *gormRepository) StatsForSeller(ctx context.Context, sellerID int64) (SalesStats, error) {
	stats := SalesStats{ByState: make(map[string]int64)}

	var totals struct {
		TotalAmount float64
		Count       int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Select("COALESCE(SUM(total_price), 0) AS total_amount, COUNT(*) AS count").
		Where("seller_id = ?", sellerID).
		Scan(&totals).Error; err != nil {
		return stats, err
	}
	stats.TotalAmount = totals.TotalAmount
	stats.Count = totals.Count

	var rows []struct {
		Name  string
		Count int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Select("ts.name AS name, COUNT(*) AS count").
		Joins("JOIN transaction_states ts ON ts.id = transactions.state_id").
		Where("transactions.seller_id = ?", sellerID).
		Group("ts.name").
		Scan(&rows).Error; err != nil {
		return stats, err
	}
	for _, row := range rows {
		stats.ByState[row.Name] = row.Count
	}
	return stats, nil
}

func (r *gormRepository) FindStateByName(ctx context.Context, name enums.TransactionState) (*models.TransactionState, error) {
	var state models.TransactionState
	if err := r.db.WithContext(ctx).
		First(&state, "name = ?", name.String()).Error; err != nil {
		return nil, err
	}
	return &state, nil
}

// IsNotFound reports whether the error is the repository's missing-row signal.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
