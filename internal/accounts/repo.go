package accounts

import (
	"context"
	"errors"
	"strings"

	"github.com/emontecinos/campusmarket-backend/pkg/db/models"
	"github.com/emontecinos/campusmarket-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository defines account persistence operations.
type Repository interface {
	Create(ctx context.Context, account *models.Account) error
	FindByID(ctx context.Context, id int64) (*models.Account, error)
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	UsernameTaken(ctx context.Context, username string, excludeID int64) (bool, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
	Save(ctx context.Context, account *models.Account) error
	List(ctx context.Context, search string, offset, limit int) ([]models.Account, int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
	SetStatus(ctx context.Context, id, statusID int64) error
	FindRoleByName(ctx context.Context, name enums.Role) (*models.Role, error)
	FindStatusByName(ctx context.Context, name enums.AccountStatus) (*models.AccountStatus, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository constructs an account repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, account *models.Account) error {
	return r.db.WithContext(ctx).Create(account).Error
}

func (r *gormRepository) FindByID(ctx context.Context, id int64) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).
		Preload("Role").
		Preload("Status").
		First(&account, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *gormRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).
		Preload("Role").
		Preload("Status").
		First(&account, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *gormRepository) UsernameTaken(ctx context.Context, username string, excludeID int64) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("username = ?", username)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *gormRepository) EmailTaken(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *gormRepository) Save(ctx context.Context, account *models.Account) error {
	return r.db.WithContext(ctx).
		Omit("Role", "Status").
		Save(account).Error
}

func (r *gormRepository) List(ctx context.Context, search string, offset, limit int) ([]models.Account, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Account{})
	if search = strings.TrimSpace(search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		base = base.Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Account
	if err := base.
		Preload("Role").
		Preload("Status").
		Order("registered_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *gormRepository) Delete(ctx context.Context, id int64) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.Account{}, "id = ?", id)
	return result.RowsAffected, result.Error
}

func (r *gormRepository) SetStatus(ctx context.Context, id, statusID int64) error {
	result := r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ?", id).
		Update("status_id", statusID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *gormRepository) FindRoleByName(ctx context.Context, name enums.Role) (*models.Role, error) {
	var role models.Role
	if err := r.db.WithContext(ctx).
		First(&role, "name = ?", name.String()).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *gormRepository) FindStatusByName(ctx context.Context, name enums.AccountStatus) (*models.AccountStatus, error) {
	var status models.AccountStatus
	if err := r.db.WithContext(ctx).
		First(&status, "name = ?", name.String()).Error; err != nil {
		return nil, err
	}
	return &status, nil
}

// IsNotFound reports whether the error is the repository's missing-row signal.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
