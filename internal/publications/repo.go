package publications

import (
	"context"
	"errors"
	"strings"

	"github.com/emontecinos/campusmarket-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository defines bulletin publication persistence operations.
type Repository interface {
	Create(ctx context.Context, publication *models.Publication) error
	FindByID(ctx context.Context, id int64) (*models.Publication, error)
	List(ctx context.Context, search string, offset, limit int) ([]models.Publication, int64, error)
	Save(ctx context.Context, publication *models.Publication) error
	Delete(ctx context.Context, id int64) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository constructs a publication repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, publication *models.Publication) error {
	return r.db.WithContext(ctx).Create(publication).Error
}

func (r *gormRepository) FindByID(ctx context.Context, id int64) (*models.Publication, error) {
	var publication models.Publication
	if err := r.db.WithContext(ctx).
		Preload("Author").
		First(&publication, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &publication, nil
}

func (r *gormRepository) List(ctx context.Context, search string, offset, limit int) ([]models.Publication, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Publication{})
	if search = strings.TrimSpace(search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		base = base.Where("LOWER(title) LIKE ? OR LOWER(body) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Publication
	if err := base.
		Preload("Author").
		Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *gormRepository) Save(ctx context.Context, publication *models.Publication) error {
	return r.db.WithContext(ctx).
		Omit("Author").
		Save(publication).Error
}

func (r *gormRepository) Delete(ctx context.Context, id int64) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.Publication{}, "id = ?", id)
	return result.RowsAffected, result.Error
}

// IsNotFound reports whether the error is the repository's missing-row signal.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
