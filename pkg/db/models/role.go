package models

import "github.com/emontecinos/campusmarket-backend/pkg/enums"

// Role is seeded reference data; accounts hold exactly one role at a time.
type Role struct {
	ID   int64      `gorm:"primaryKey;autoIncrement"`
	Name enums.Role `gorm:"type:text;not null;uniqueIndex"`
}
