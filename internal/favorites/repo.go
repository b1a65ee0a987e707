package favorites

import (
	"context"
	"errors"

	"github.com/emontecinos/campusmarket-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository defines favorite persistence operations.
type Repository interface {
	Add(ctx context.Context, favorite *models.Favorite) error
	Remove(ctx context.Context, accountID, productID int64) (int64, error)
	Exists(ctx context.Context, accountID, productID int64) (bool, error)
	List(ctx context.Context, accountID int64, offset, limit int) ([]models.Favorite, int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository constructs a favorites repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Add(ctx context.Context, favorite *models.Favorite) error {
	return r.db.WithContext(ctx).Create(favorite).Error
}

func (r *gormRepository) Remove(ctx context.Context, accountID, productID int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("account_id = ? AND product_id = ?", accountID, productID).
		Delete(&models.Favorite{})
	return result.RowsAffected, result.Error
}

func (r *gormRepository) Exists(ctx context.Context, accountID, productID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Favorite{}).
		Where("account_id = ? AND product_id = ?", accountID, productID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *gormRepository) List(ctx context.Context, accountID int64, offset, limit int) ([]models.Favorite, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&models.Favorite{}).
		Where("account_id = ?", accountID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Favorite
	if err := base.
		Preload("Product").
		Preload("Product.Seller").
		Preload("Product.State").
		Preload("Product.Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
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
