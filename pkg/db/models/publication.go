package models

import "time"

// Publication is a community bulletin post.
type Publication struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	AuthorID  int64     `gorm:"column:author_id;not null;index:idx_publications_author"`
	Author    *Account  `gorm:"foreignKey:AuthorID"`
	Title     string    `gorm:"type:text;not null"`
	Body      string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
