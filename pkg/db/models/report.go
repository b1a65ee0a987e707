package models

import (
	"time"

	"github.com/emontecinos/campusmarket-backend/pkg/enums"
)

// Report is a moderation report filed against an account or a product.
type Report struct {
	ID                int64              `gorm:"primaryKey;autoIncrement"`
	ReporterID        int64              `gorm:"column:reporter_id;not null;index:idx_reports_reporter"`
	Reporter          *Account           `gorm:"foreignKey:ReporterID"`
	ReportedAccountID *int64             `gorm:"column:reported_account_id;index:idx_reports_account"`
	ReportedAccount   *Account           `gorm:"foreignKey:ReportedAccountID"`
	ProductID         *int64             `gorm:"column:product_id;index:idx_reports_product"`
	Product           *Product           `gorm:"foreignKey:ProductID"`
	Reason            string             `gorm:"type:text;not null"`
	Detail            string             `gorm:"type:text;not null;default:''"`
	Status            enums.ReportStatus `gorm:"type:text;not null;default:'open'"`
	CreatedAt         time.Time          `gorm:"column:created_at;autoCreateTime"`
	ResolvedAt        *time.Time         `gorm:"column:resolved_at"`
}
