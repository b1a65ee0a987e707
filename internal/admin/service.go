package admin

import (
	"context"

	"github.com/emontecinos/campusmarket-backend/pkg/db/models"
	pkgerrors "github.com/emontecinos/campusmarket-backend/pkg/errors"
	"gorm.io/gorm"
)

// Metrics is the admin dashboard counter set.
type Metrics struct {
	Accounts    int64 `json:"accounts"`
	Products    int64 `json:"products"`
	Messages    int64 `json:"messages"`
	Reports     int64 `json:"reports"`
	OpenReports int64 `json:"openReports"`
}

// Service exposes admin aggregate reads.
type Service interface {
	Metrics(ctx context.Context) (*Metrics, error)
}

type service struct {
	db *gorm.DB
}

// NewService wires the admin metrics service.
func NewService(db *gorm.DB) (Service, error) {
	if db == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "database handle required")
	}
	return &service{db: db}, nil
}

func (s *service) Metrics(ctx context.Context) (*Metrics, error) {
	metrics := &Metrics{}

	counts := []struct {
		model any
		dest  *int64
	}{
		{&models.Account{}, &metrics.Accounts},
		{&models.Product{}, &metrics.Products},
		{&models.Message{}, &metrics.Messages},
		{&models.Report{}, &metrics.Reports},
	}
	for _, c := range counts {
		if err := s.db.WithContext(ctx).Model(c.model).Count(c.dest).Error; err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count rows")
		}
	}

	if err := s.db.WithContext(ctx).
		Model(&models.Report{}).
		Where("status = ?", "open").
		Count(&metrics.OpenReports).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count open reports")
	}

	return metrics, nil
}
