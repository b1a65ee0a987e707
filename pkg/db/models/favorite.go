package models

import "time"

// Favorite bookmarks a product for an account; one row per (account, product).
type Favorite struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	AccountID int64     `gorm:"column:account_id;not null;uniqueIndex:ux_favorites_account_product"`
	ProductID int64     `gorm:"column:product_id;not null;uniqueIndex:ux_favorites_account_product"`
	Product   *Product  `gorm:"foreignKey:ProductID"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
