package products

import (
	"context"
	"errors"
	"strings"

	"github.com/emontecinos/campusmarket-backend/pkg/db/models"
	"github.com/emontecinos/campusmarket-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository defines catalog persistence operations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id int64) (*models.Product, error)
	List(ctx context.Context, query ListQuery) ([]models.Product, int64, error)
	Save(ctx context.Context, product *models.Product) error
	SetVisibility(ctx context.Context, id int64, visible bool) (int64, error)
	SetState(ctx context.Context, id, stateID int64) error
	FindStateByName(ctx context.Context, name enums.ProductState) (*models.ProductState, error)
	FindRoleByName(ctx context.Context, name enums.Role) (*models.Role, error)
	FindAccountByID(ctx context.Context, id int64) (*models.Account, error)
	SetAccountRole(ctx context.Context, accountID, roleID int64) error
	Categories(ctx context.Context) ([]models.Category, error)
}

// ListQuery narrows and pages the catalog scan. OnlyPublic restricts to
// visible listings in the available state; SellerID restricts to one seller.
type ListQuery struct {
	CategoryID int64
	Search     string
	SellerID   int64
	OnlyPublic bool
	Offset     int
	Limit      int
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository constructs a catalog repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// WithTx rebinds the repository to a transaction handle.
func (r *gormRepository) WithTx(tx *gorm.DB) Repository {
	return &gormRepository{db: tx}
}

func (r *gormRepository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *gormRepository) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Seller").
		Preload("State").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *gormRepository) List(ctx context.Context, query ListQuery) ([]models.Product, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Product{})

	if query.OnlyPublic {
		base = base.
			Joins("JOIN product_states ps ON ps.id = products.state_id").
			Where("products.visible = ? AND ps.name = ?", true, enums.ProductStateAvailable.String())
	}
	if query.SellerID > 0 {
		base = base.Where("products.seller_id = ?", query.SellerID)
	}
	if query.CategoryID > 0 {
		base = base.Where("products.category_id = ?", query.CategoryID)
	}
	if search := strings.TrimSpace(query.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		base = base.Where("LOWER(products.name) LIKE ? OR LOWER(products.description) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Product
	if err := base.
		Preload("Category").
		Preload("Seller").
		Preload("State").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("products.created_at DESC").Order("products.id DESC").
		Offset(query.Offset).Limit(query.Limit).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *gormRepository) Save(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).
		Omit("Images", "Category", "Seller", "State").
		Save(product).Error
}

func (r *gormRepository) SetVisibility(ctx context.Context, id int64, visible bool) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Update("visible", visible)
	return result.RowsAffected, result.Error
}

func (r *gormRepository) SetState(ctx context.Context, id, stateID int64) error {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Update("state_id", stateID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *gormRepository) FindStateByName(ctx context.Context, name enums.ProductState) (*models.ProductState, error) {
	var state models.ProductState
	if err := r.db.WithContext(ctx).
		First(&state, "name = ?", name.String()).Error; err != nil {
		return nil, err
	}
	return &state, nil
}

func (r *gormRepository) FindRoleByName(ctx context.Context, name enums.Role) (*models.Role, error) {
	var role models.Role
	if err := r.db.WithContext(ctx).
		First(&role, "name = ?", name.String()).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *gormRepository) FindAccountByID(ctx context.Context, id int64) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).
		Preload("Role").
		First(&account, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *gormRepository) SetAccountRole(ctx context.Context, accountID, roleID int64) error {
	result := r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ?", accountID).
		Update("role_id", roleID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Categories returns the top-level category tree with one level of children.
func (r *gormRepository) Categories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).
		Preload("Subcategories").
		Where("parent_id IS NULL").
		Order("name ASC").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// IsNotFound reports whether the error is the repository's missing-row signal.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
