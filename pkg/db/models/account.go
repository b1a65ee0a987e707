package models

import "time"

// Account represents the canonical identity entity. Reputation is derived from
// ratings and is never written directly by profile updates.
type Account struct {
	ID           int64          `gorm:"primaryKey;autoIncrement"`
	Email        string         `gorm:"type:text;not null;uniqueIndex"`
	Username     string         `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	FirstName    string         `gorm:"column:first_name;not null"`
	LastName     string         `gorm:"column:last_name;not null;default:''"`
	Phone        *string        `gorm:"column:phone"`
	Address      *string        `gorm:"column:address"`
	Campus       string         `gorm:"column:campus;not null;default:''"`
	RoleID       int64          `gorm:"column:role_id;not null"`
	Role         *Role          `gorm:"foreignKey:RoleID"`
	StatusID     int64          `gorm:"column:status_id;not null"`
	Status       *AccountStatus `gorm:"foreignKey:StatusID"`
	Reputation   float64        `gorm:"column:reputation;not null;default:0"`
	RegisteredAt time.Time      `gorm:"column:registered_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
