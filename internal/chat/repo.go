package chat

import (
	"context"

	"github.com/emontecinos/campusmarket-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository defines message persistence operations.
type Repository interface {
	Create(ctx context.Context, message *models.Message) error
	FindByID(ctx context.Context, id int64) (*models.Message, error)
	Conversation(ctx context.Context, userID, peerID int64, offset, limit int) ([]models.Message, int64, error)
	AllTouching(ctx context.Context, userID int64) ([]models.Message, error)
	UnreadBySender(ctx context.Context, userID int64) (map[int64]int64, error)
	MarkRead(ctx context.Context, userID, peerID int64) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository constructs a message repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, message *models.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *gormRepository) FindByID(ctx context.Context, id int64) (*models.Message, error) {
	var message models.Message
	if err := r.db.WithContext(ctx).
		Preload("Sender").
		Preload("Recipient").
		First(&message, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

// Conversation returns the union of both directions between the two accounts,
// oldest first. Symmetric in the argument order.
func (r *gormRepository) Conversation(ctx context.Context, userID, peerID int64, offset, limit int) ([]models.Message, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			userID, peerID, peerID, userID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var messages []models.Message
	if err := base.
		Preload("Sender").
		Preload("Recipient").
		Order("sent_at ASC").Order("id ASC").
		Offset(offset).Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}

// AllTouching returns every message the account sent or received, newest
// first with id as the stable tie-break.
func (r *gormRepository) AllTouching(ctx context.Context, userID int64) ([]models.Message, error) {
	var messages []models.Message
	if err := r.db.WithContext(ctx).
		Preload("Sender").
		Preload("Recipient").
		Where("sender_id = ? OR recipient_id = ?", userID, userID).
		Order("sent_at DESC").Order("id DESC").
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

// UnreadBySender returns the account's unread message count per sender in a
// single grouped query.
func (r *gormRepository) UnreadBySender(ctx context.Context, userID int64) (map[int64]int64, error) {
	var rows []struct {
		SenderID int64
		Total    int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Select("sender_id, COUNT(*) AS total").
		Where("recipient_id = ? AND read = ?", userID, false).
		Group("sender_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[int64]int64, len(rows))
	for _, row := range rows {
		counts[row.SenderID] = row.Total
	}
	return counts, nil
}

// MarkRead flags every message the account received from the peer.
func (r *gormRepository) MarkRead(ctx context.Context, userID, peerID int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("recipient_id = ? AND sender_id = ? AND read = ?", userID, peerID, false).
		Update("read", true)
	return result.RowsAffected, result.Error
}
