package models

// ProductImage stores a listing image URL; upload storage is external.
type ProductImage struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	ProductID int64  `gorm:"column:product_id;not null;index:idx_product_images_product"`
	URL       string `gorm:"type:text;not null"`
	Position  int    `gorm:"column:position;not null;default:0"`
}
