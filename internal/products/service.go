package products

import (
	"context"

	"github.com/emontecinos/campusmarket-backend/pkg/db/models"
	"github.com/emontecinos/campusmarket-backend/pkg/enums"
	pkgerrors "github.com/emontecinos/campusmarket-backend/pkg/errors"
	"github.com/emontecinos/campusmarket-backend/pkg/logger"
	"github.com/emontecinos/campusmarket-backend/pkg/pagination"
	"github.com/emontecinos/campusmarket-backend/pkg/types"
	"gorm.io/gorm"
)

// TxRunner executes a function inside one database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes catalog operations and the role auto-promotion workflow.
type Service interface {
	Create(ctx context.Context, sellerID int64, in CreateInput) (*CreateResult, error)
	List(ctx context.Context, viewer Viewer, filter ListFilter) ([]ProductDTO, types.Pagination, error)
	Get(ctx context.Context, viewer Viewer, id int64) (*ProductDTO, error)
	Update(ctx context.Context, actor Viewer, id int64, in UpdateInput) (*ProductDTO, error)
	SetVisibility(ctx context.Context, actor Viewer, id int64, visible bool) error
	Delete(ctx context.Context, actor Viewer, id int64) error
	Mine(ctx context.Context, sellerID int64, params pagination.Params) ([]ProductDTO, types.Pagination, error)
	Categories(ctx context.Context) ([]CategoryDTO, error)
}

// ServiceParams groups dependencies for the catalog service.
type ServiceParams struct {
	Repo   Repository
	Tx     TxRunner
	Logger *logger.Logger
}

type service struct {
	repo Repository
	tx   TxRunner
	logg *logger.Logger
}

// NewService wires catalog dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "products repository required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	return &service{
		repo: params.Repo,
		tx:   params.Tx,
		logg: params.Logger,
	}, nil
}

// Create stores a listing and, when the creator is still a client, promotes
// them to vendor inside the same transaction. A missing vendor role row aborts
// the whole creation: selling must not proceed with reference data absent.
func (s *service) Create(ctx context.Context, sellerID int64, in CreateInput) (*CreateResult, error) {
	if in.Quantity <= 0 {
		in.Quantity = 1
	}

	var (
		product     models.Product
		roleChanged bool
		newRole     enums.Role
	)

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		account, err := txRepo.FindAccountByID(ctx, sellerID)
		if err != nil {
			if IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load account")
		}
		if account.Role == nil {
			return pkgerrors.New(pkgerrors.CodeConfiguration, "account role not resolved")
		}

		if account.Role.Name == enums.RoleClient {
			vendorRole, err := txRepo.FindRoleByName(ctx, enums.RoleVendor)
			if err != nil {
				if IsNotFound(err) {
					return pkgerrors.New(pkgerrors.CodeConfiguration, "vendor role missing")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve vendor role")
			}
			if err := txRepo.SetAccountRole(ctx, sellerID, vendorRole.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "promote account")
			}
			roleChanged = true
			newRole = enums.RoleVendor
		}

		state, err := txRepo.FindStateByName(ctx, enums.ProductStateAvailable)
		if err != nil {
			if IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeConfiguration, "available product state missing")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve product state")
		}

		images := make([]models.ProductImage, 0, len(in.Images))
		for position, url := range in.Images {
			images = append(images, models.ProductImage{URL: url, Position: position})
		}

		product = models.Product{
			Name:         in.Name,
			Description:  in.Description,
			CurrentPrice: in.Price,
			CategoryID:   in.CategoryID,
			SellerID:     sellerID,
			Quantity:     in.Quantity,
			StateID:      state.ID,
			Visible:      true,
			Images:       images,
		}
		if err := txRepo.Create(ctx, &product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist product")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	stored, err := s.repo.FindByID(ctx, product.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if s.logg != nil && roleChanged {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"account_id": sellerID,
			"product_id": product.ID,
		}), "products.create account promoted to vendor")
	}

	result := &CreateResult{
		Product:     ToDTO(*stored),
		RoleChanged: roleChanged,
	}
	if roleChanged {
		result.NewRole = newRole.String()
	}
	return result, nil
}

// List pages the catalog. Anonymous viewers and clients only see visible
// listings in the available state; admins see everything.
func (s *service) List(ctx context.Context, viewer Viewer, filter ListFilter) ([]ProductDTO, types.Pagination, error) {
	page := pagination.NormalizePage(filter.Page)
	limit := pagination.NormalizeLimit(filter.Limit)

	query := ListQuery{
		CategoryID: filter.CategoryID,
		Search:     filter.Search,
		OnlyPublic: viewer.Role != enums.RoleAdmin,
		Offset:     pagination.Offset(page, limit),
		Limit:      limit,
	}

	rows, total, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, types.Pagination{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return collect(rows), pageMeta(page, limit, total), nil
}

// Get returns a listing by id. A hidden or non-available listing is a 404
// for everyone except its owner and admins.
func (s *service) Get(ctx context.Context, viewer Viewer, id int64) (*ProductDTO, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canSee(viewer, product) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	dto := ToDTO(*product)
	return &dto, nil
}

// Update modifies the mutable fields. Changing the price archives the old one
// into previousPrice. Owner or admin only.
func (s *service) Update(ctx context.Context, actor Viewer, id int64, in UpdateInput) (*ProductDTO, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwnership(actor, product); err != nil {
		return nil, err
	}

	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil && *in.Price != product.CurrentPrice {
		previous := product.CurrentPrice
		product.PreviousPrice = &previous
		product.CurrentPrice = *in.Price
	}
	if in.CategoryID != nil {
		product.CategoryID = *in.CategoryID
	}
	if in.Quantity != nil {
		product.Quantity = *in.Quantity
	}

	if err := s.repo.Save(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}

	stored, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	dto := ToDTO(*stored)
	return &dto, nil
}

// SetVisibility toggles the listing on or off the public catalog.
func (s *service) SetVisibility(ctx context.Context, actor Viewer, id int64, visible bool) error {
	product, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.requireOwnership(actor, product); err != nil {
		return err
	}
	if _, err := s.repo.SetVisibility(ctx, id, visible); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set visibility")
	}
	return nil
}

// Delete is soft: the listing moves to the suspended state and drops out of
// the public catalog, keeping transaction history intact.
func (s *service) Delete(ctx context.Context, actor Viewer, id int64) error {
	product, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.requireOwnership(actor, product); err != nil {
		return err
	}

	state, err := s.repo.FindStateByName(ctx, enums.ProductStateSuspended)
	if err != nil {
		if IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeConfiguration, "suspended product state missing")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve product state")
	}
	if err := s.repo.SetState(ctx, id, state.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "suspend product")
	}
	return nil
}

// Mine pages the caller's own listings regardless of visibility or state.
func (s *service) Mine(ctx context.Context, sellerID int64, params pagination.Params) ([]ProductDTO, types.Pagination, error) {
	page := pagination.NormalizePage(params.Page)
	limit := pagination.NormalizeLimit(params.Limit)

	rows, total, err := s.repo.List(ctx, ListQuery{
		SellerID: sellerID,
		Offset:   pagination.Offset(page, limit),
		Limit:    limit,
	})
	if err != nil {
		return nil, types.Pagination{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list own products")
	}
	return collect(rows), pageMeta(page, limit, total), nil
}

// Categories returns the public category tree.
func (s *service) Categories(ctx context.Context) ([]CategoryDTO, error) {
	categories, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	items := make([]CategoryDTO, 0, len(categories))
	for _, category := range categories {
		items = append(items, toCategoryDTO(category))
	}
	return items, nil
}

func (s *service) load(ctx context.Context, id int64) (*models.Product, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) canSee(viewer Viewer, product *models.Product) bool {
	if viewer.Role == enums.RoleAdmin || viewer.AccountID == product.SellerID {
		return true
	}
	if !product.Visible {
		return false
	}
	return product.State != nil && product.State.Name == enums.ProductStateAvailable
}

func (s *service) requireOwnership(actor Viewer, product *models.Product) error {
	if actor.Role == enums.RoleAdmin || actor.AccountID == product.SellerID {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "not the product owner")
}

func collect(rows []models.Product) []ProductDTO {
	items := make([]ProductDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, ToDTO(row))
	}
	return items
}

func pageMeta(page, limit int, total int64) types.Pagination {
	return types.Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: pagination.TotalPages(total, limit),
	}
}
