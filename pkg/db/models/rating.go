package models

import "time"

// Rating scores a seller for one completed transaction. The composite unique
// index is the source of truth for the one-rating-per-transaction rule; the
// service-level existence check is only a fast path.
type Rating struct {
	ID            int64        `gorm:"primaryKey;autoIncrement"`
	RaterID       int64        `gorm:"column:rater_id;not null;uniqueIndex:ux_ratings_rater_rated_tx"`
	Rater         *Account     `gorm:"foreignKey:RaterID"`
	RatedID       int64        `gorm:"column:rated_id;not null;uniqueIndex:ux_ratings_rater_rated_tx;index:idx_ratings_rated"`
	Rated         *Account     `gorm:"foreignKey:RatedID"`
	TransactionID int64        `gorm:"column:transaction_id;not null;uniqueIndex:ux_ratings_rater_rated_tx"`
	Transaction   *Transaction `gorm:"foreignKey:TransactionID"`
	Score         int          `gorm:"column:score;not null"`
	Comment       string       `gorm:"type:text;not null;default:''"`
	CreatedAt     time.Time    `gorm:"column:created_at;autoCreateTime"`
}
