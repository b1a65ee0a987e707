package models

import "time"

// Product is a marketplace listing owned by a seller account.
type Product struct {
	ID            int64          `gorm:"primaryKey;autoIncrement"`
	Name          string         `gorm:"type:text;not null"`
	Description   string         `gorm:"type:text;not null"`
	PreviousPrice *float64       `gorm:"column:previous_price"`
	CurrentPrice  float64        `gorm:"column:current_price;not null"`
	CategoryID    int64          `gorm:"column:category_id;not null;index:idx_products_category"`
	Category      *Category      `gorm:"foreignKey:CategoryID"`
	SellerID      int64          `gorm:"column:seller_id;not null;index:idx_products_seller"`
	Seller        *Account       `gorm:"foreignKey:SellerID"`
	Quantity      int            `gorm:"column:quantity;not null;default:1"`
	StateID       int64          `gorm:"column:state_id;not null"`
	State         *ProductState  `gorm:"foreignKey:StateID"`
	Visible       bool           `gorm:"column:visible;not null;default:true"`
	Rating        float64        `gorm:"column:rating;not null;default:0"`
	Images        []ProductImage `gorm:"foreignKey:ProductID"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
