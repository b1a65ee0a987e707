package models

import (
	"time"

	"github.com/emontecinos/campusmarket-backend/pkg/enums"
)

// Notification stores in-app notification payloads scoped to accounts.
type Notification struct {
	ID        int64                  `gorm:"primaryKey;autoIncrement"`
	AccountID int64                  `gorm:"column:account_id;not null;index:idx_notifications_account"`
	Type      enums.NotificationType `gorm:"type:text;not null"`
	Title     string                 `gorm:"type:text;not null"`
	Message   string                 `gorm:"type:text;not null"`
	Link      *string                `gorm:"type:text"`
	ReadAt    *time.Time             `gorm:"column:read_at"`
	CreatedAt time.Time              `gorm:"column:created_at;autoCreateTime"`
}
