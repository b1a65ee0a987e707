package models

import (
	"time"

	"github.com/emontecinos/campusmarket-backend/pkg/enums"
)

// Message is a direct chat message. Immutable after creation except Read.
type Message struct {
	ID          int64             `gorm:"primaryKey;autoIncrement"`
	SenderID    int64             `gorm:"column:sender_id;not null;index:idx_messages_sender"`
	Sender      *Account          `gorm:"foreignKey:SenderID"`
	RecipientID int64             `gorm:"column:recipient_id;not null;index:idx_messages_recipient"`
	Recipient   *Account          `gorm:"foreignKey:RecipientID"`
	Body        string            `gorm:"type:text;not null"`
	Type        enums.MessageType `gorm:"type:text;not null;default:'text'"`
	Read        bool              `gorm:"column:read;not null;default:false"`
	SentAt      time.Time         `gorm:"column:sent_at;autoCreateTime;index:idx_messages_sent_at"`
}
