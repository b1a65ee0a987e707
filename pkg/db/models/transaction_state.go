package models

import "github.com/emontecinos/campusmarket-backend/pkg/enums"

// TransactionState is seeded reference data (pending/completed/cancelled).
type TransactionState struct {
	ID   int64                  `gorm:"primaryKey;autoIncrement"`
	Name enums.TransactionState `gorm:"type:text;not null;uniqueIndex"`
}
