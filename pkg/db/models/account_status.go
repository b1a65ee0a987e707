package models

import "github.com/emontecinos/campusmarket-backend/pkg/enums"

// AccountStatus is seeded reference data (active/banned).
type AccountStatus struct {
	ID   int64               `gorm:"primaryKey;autoIncrement"`
	Name enums.AccountStatus `gorm:"type:text;not null;uniqueIndex"`
}
