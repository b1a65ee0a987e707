package models

import "time"

// Transaction records a purchase linking buyer and seller through a product.
type Transaction struct {
	ID           int64             `gorm:"primaryKey;autoIncrement"`
	ProductID    int64             `gorm:"column:product_id;not null;index:idx_transactions_product"`
	Product      *Product          `gorm:"foreignKey:ProductID"`
	BuyerID      int64             `gorm:"column:buyer_id;not null;index:idx_transactions_buyer"`
	Buyer        *Account          `gorm:"foreignKey:BuyerID"`
	SellerID     int64             `gorm:"column:seller_id;not null;index:idx_transactions_seller"`
	Seller       *Account          `gorm:"foreignKey:SellerID"`
	Quantity     int               `gorm:"column:quantity;not null;default:1"`
	TotalPrice   float64           `gorm:"column:total_price;not null"`
	StateID      int64             `gorm:"column:state_id;not null"`
	State        *TransactionState `gorm:"foreignKey:StateID"`
	TransactedAt time.Time         `gorm:"column:transacted_at;autoCreateTime"`
}
