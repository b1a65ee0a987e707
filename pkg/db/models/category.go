package models

// Category is seeded reference data; ParentID builds the subcategory tree.
type Category struct {
	ID            int64      `gorm:"primaryKey;autoIncrement"`
	Name          string     `gorm:"type:text;not null;uniqueIndex"`
	ParentID      *int64     `gorm:"column:parent_id;index:idx_categories_parent"`
	Subcategories []Category `gorm:"foreignKey:ParentID"`
}
