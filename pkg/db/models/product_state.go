package models

import "github.com/emontecinos/campusmarket-backend/pkg/enums"

// ProductState is seeded reference data (available/sold/suspended).
type ProductState struct {
	ID   int64              `gorm:"primaryKey;autoIncrement"`
	Name enums.ProductState `gorm:"type:text;not null;uniqueIndex"`
}
