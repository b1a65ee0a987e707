package notifications

import (
	"context"
	"time"

	"github.com/emontecinos/campusmarket-backend/pkg/db/models"
	"github.com/emontecinos/campusmarket-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository defines notification persistence operations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, notification *models.Notification) error
	List(ctx context.Context, params listNotificationsParams) ([]models.Notification, *pagination.Cursor, error)
	MarkRead(ctx context.Context, accountID, notificationID int64, now time.Time) (notificationMarkResult, error)
	MarkAllRead(ctx context.Context, accountID int64, now time.Time) (int64, error)
	CountUnread(ctx context.Context, accountID int64) (int64, error)
}

type listNotificationsParams struct {
	AccountID  int64
	Limit      int
	Cursor     *pagination.Cursor
	UnreadOnly bool
}

type notificationMarkResult struct {
	Found   bool
	Updated bool
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository constructs a notification repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// WithTx rebinds the repository to a transaction handle.
func (r *gormRepository) WithTx(tx *gorm.DB) Repository {
	return &gormRepository{db: tx}
}

func (r *gormRepository) Create(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

// List pages the account's notifications newest first with keyset pagination.
// The caller passes a limit with buffer; a full result yields the next cursor.
func (r *gormRepository) List(ctx context.Context, params listNotificationsParams) ([]models.Notification, *pagination.Cursor, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("account_id = ?", params.AccountID)

	if params.UnreadOnly {
		query = query.Where("read_at IS NULL")
	}
	if params.Cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)",
			params.Cursor.CreatedAt, params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var rows []models.Notification
	if err := query.
		Order("created_at DESC").Order("id DESC").
		Limit(params.Limit).
		Find(&rows).Error; err != nil {
		return nil, nil, err
	}

	if params.Limit > 1 && len(rows) == params.Limit {
		rows = rows[:params.Limit-1]
		last := rows[len(rows)-1]
		return rows, &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}, nil
	}
	return rows, nil, nil
}

func (r *gormRepository) MarkRead(ctx context.Context, accountID, notificationID int64, now time.Time) (notificationMarkResult, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND account_id = ?", notificationID, accountID).
		Where("read_at IS NULL").
		Update("read_at", now)
	if result.Error != nil {
		return notificationMarkResult{}, result.Error
	}
	if result.RowsAffected > 0 {
		return notificationMarkResult{Found: true, Updated: true}, nil
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND account_id = ?", notificationID, accountID).
		Count(&count).Error; err != nil {
		return notificationMarkResult{}, err
	}
	return notificationMarkResult{Found: count > 0}, nil
}

func (r *gormRepository) MarkAllRead(ctx context.Context, accountID int64, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("account_id = ? AND read_at IS NULL", accountID).
		Update("read_at", now)
	return result.RowsAffected, result.Error
}

func (r *gormRepository) CountUnread(ctx context.Context, accountID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("account_id = ? AND read_at IS NULL", accountID).
		Count(&count).Error
	return count, err
}
