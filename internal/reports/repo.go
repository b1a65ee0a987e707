package reports

import (
	"context"
	"errors"

	"github.com/emontecinos/campusmarket-backend/pkg/db/models"
	"github.com/emontecinos/campusmarket-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository defines moderation report persistence operations.
type Repository interface {
	Create(ctx context.Context, report *models.Report) error
	FindByID(ctx context.Context, id int64) (*models.Report, error)
	ListForReporter(ctx context.Context, reporterID int64, offset, limit int) ([]models.Report, int64, error)
	List(ctx context.Context, status enums.ReportStatus, offset, limit int) ([]models.Report, int64, error)
	Save(ctx context.Context, report *models.Report) error
	CountOpen(ctx context.Context) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository constructs a report repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, report *models.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *gormRepository) FindByID(ctx context.Context, id int64) (*models.Report, error) {
	var report models.Report
	if err := r.db.WithContext(ctx).
		Preload("Reporter").
		Preload("ReportedAccount").
		Preload("Product").
		First(&report, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *gormRepository) ListForReporter(ctx context.Context, reporterID int64, offset, limit int) ([]models.Report, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&models.Report{}).
		Where("reporter_id = ?", reporterID)
	return r.page(ctx, base, offset, limit)
}

func (r *gormRepository) List(ctx context.Context, status enums.ReportStatus, offset, limit int) ([]models.Report, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Report{})
	if status != "" {
		base = base.Where("status = ?", status.String())
	}
	return r.page(ctx, base, offset, limit)
}

func (r *gormRepository) page(ctx context.Context, base *gorm.DB, offset, limit int) ([]models.Report, int64, error) {
	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Report
	if err := base.
		Preload("Reporter").
		Preload("ReportedAccount").
		Preload("Product").
		Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *gormRepository) Save(ctx context.Context, report *models.Report) error {
	return r.db.WithContext(ctx).
		Omit("Reporter", "ReportedAccount", "Product").
		Save(report).Error
}

func (r *gormRepository) CountOpen(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Report{}).
		Where("status = ?", enums.ReportStatusOpen.String()).
		Count(&count).Error
	return count, err
}

// IsNotFound reports whether the error is the repository's missing-row signal.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
