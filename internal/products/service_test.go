package products

import (
	"context"
	"testing"

	"github.com/emontecinos/campusmarket-backend/pkg/db/models"
	"github.com/emontecinos/campusmarket-backend/pkg/enums"
	pkgerrors "github.com/emontecinos/campusmarket-backend/pkg/errors"
	"gorm.io/gorm"
)

type stubProductRepo struct {
	account    *models.Account
	vendorRole *models.Role
	states     map[enums.ProductState]*models.ProductState

	nextID    int64
	stored    map[int64]*models.Product
	roleSets  []int64
	saveCalls int
	lastQuery ListQuery
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{
		states: map[enums.ProductState]*models.ProductState{
			enums.ProductStateAvailable: {ID: 1, Name: enums.ProductStateAvailable},
			enums.ProductStateSuspended: {ID: 3, Name: enums.ProductStateSuspended},
		},
		stored: make(map[int64]*models.Product),
	}
}

func (s *stubProductRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubProductRepo) Create(ctx context.Context, product *models.Product) error {
	s.nextID++
	product.ID = s.nextID
	copy := *product
	copy.State = s.stateByID(product.StateID)
	s.stored[product.ID] = &copy
	return nil
}

func (s *stubProductRepo) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	if product, ok := s.stored[id]; ok {
		return product, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProductRepo) List(ctx context.Context, query ListQuery) ([]models.Product, int64, error) {
	s.lastQuery = query
	return nil, 0, nil
}

func (s *stubProductRepo) Save(ctx context.Context, product *models.Product) error {
	s.saveCalls++
	copy := *product
	s.stored[product.ID] = &copy
	return nil
}

func (s *stubProductRepo) SetVisibility(ctx context.Context, id int64, visible bool) (int64, error) {
	if product, ok := s.stored[id]; ok {
		product.Visible = visible
		return 1, nil
	}
	return 0, nil
}

func (s *stubProductRepo) SetState(ctx context.Context, id, stateID int64) error {
	if product, ok := s.stored[id]; ok {
		product.StateID = stateID
		product.State = s.stateByID(stateID)
	}
	return nil
}

func (s *stubProductRepo) FindStateByName(ctx context.Context, name enums.ProductState) (*models.ProductState, error) {
	if state, ok := s.states[name]; ok {
		return state, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProductRepo) FindRoleByName(ctx context.Context, name enums.Role) (*models.Role, error) {
	if name == enums.RoleVendor && s.vendorRole != nil {
		return s.vendorRole, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProductRepo) FindAccountByID(ctx context.Context, id int64) (*models.Account, error) {
	if s.account == nil || s.account.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.account, nil
}

func (s *stubProductRepo) SetAccountRole(ctx context.Context, accountID, roleID int64) error {
	s.roleSets = append(s.roleSets, roleID)
	s.account.RoleID = roleID
	s.account.Role = &models.Role{ID: roleID, Name: enums.RoleVendor}
	return nil
}

func (s *stubProductRepo) Categories(ctx context.Context) ([]models.Category, error) {
	return nil, nil
}

func (s *stubProductRepo) stateByID(id int64) *models.ProductState {
	for _, state := range s.states {
		if state.ID == id {
			return state
		}
	}
	return nil
}

type noopTx struct{}

func (noopTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newCatalogService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: repo, Tx: noopTx{}})
	if err != nil {
		t.Fatalf("wiring catalog service: %v", err)
	}
	return svc
}

func TestCreatePromotesClientOnce(t *testing.T) {
	t.Parallel()

	repo := newStubProductRepo()
	repo.account = &models.Account{ID: 5, RoleID: 1, Role: &models.Role{ID: 1, Name: enums.RoleClient}}
	repo.vendorRole = &models.Role{ID: 2, Name: enums.RoleVendor}
	svc := newCatalogService(t, repo)

	in := CreateInput{Name: "Calculadora", Description: "Casio fx-991, poco uso", Price: 15000, CategoryID: 1}

	first, err := svc.Create(context.Background(), 5, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !first.RoleChanged || first.NewRole != enums.RoleVendor.String() {
		t.Fatalf("expected promotion on first listing, got %+v", first)
	}

	second, err := svc.Create(context.Background(), 5, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.RoleChanged {
		t.Fatal("already-vendor account must not report a role change")
	}
	if len(repo.roleSets) != 1 {
		t.Fatalf("expected exactly one role write, got %d", len(repo.roleSets))
	}
}

func TestCreateFailsWhenVendorRoleMissing(t *testing.T) {
	t.Parallel()

	repo := newStubProductRepo()
	repo.account = &models.Account{ID: 5, RoleID: 1, Role: &models.Role{ID: 1, Name: enums.RoleClient}}
	svc := newCatalogService(t, repo)

	_, err := svc.Create(context.Background(), 5, CreateInput{Name: "Calculadora", Description: "Casio fx-991, poco uso", Price: 15000, CategoryID: 1})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConfiguration {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if len(repo.stored) != 0 {
		t.Fatal("listing must not be stored when promotion cannot run")
	}
}

func TestCreateDefaultsQuantityAndVisibility(t *testing.T) {
	t.Parallel()

	repo := newStubProductRepo()
	repo.account = &models.Account{ID: 5, RoleID: 2, Role: &models.Role{ID: 2, Name: enums.RoleVendor}}
	svc := newCatalogService(t, repo)

	result, err := svc.Create(context.Background(), 5, CreateInput{Name: "Apuntes", Description: "Apuntes de calculo 1 completos", Price: 3000, CategoryID: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Product.Quantity != 1 {
		t.Fatalf("expected default quantity 1, got %d", result.Product.Quantity)
	}
	if !result.Product.Visible {
		t.Fatal("new listings start visible")
	}
	if result.Product.State != enums.ProductStateAvailable {
		t.Fatalf("expected available state, got %q", result.Product.State)
	}
}

func TestGetHiddenListingIsNotFoundForStrangers(t *testing.T) {
	t.Parallel()

	repo := newStubProductRepo()
	repo.stored[8] = &models.Product{
		ID:       8,
		SellerID: 5,
		Visible:  false,
		State:    repo.states[enums.ProductStateAvailable],
	}
	svc := newCatalogService(t, repo)

	_, err := svc.Get(context.Background(), Viewer{AccountID: 99, Role: enums.RoleClient}, 8)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for stranger, got %v", err)
	}

	if _, err := svc.Get(context.Background(), Viewer{AccountID: 5, Role: enums.RoleVendor}, 8); err != nil {
		t.Fatalf("owner must see hidden listing: %v", err)
	}
	if _, err := svc.Get(context.Background(), Viewer{AccountID: 99, Role: enums.RoleAdmin}, 8); err != nil {
		t.Fatalf("admin must see hidden listing: %v", err)
	}
}

func TestUpdatePriceArchivesPrevious(t *testing.T) {
	t.Parallel()

	repo := newStubProductRepo()
	repo.stored[8] = &models.Product{
		ID:           8,
		SellerID:     5,
		CurrentPrice: 10000,
		Visible:      true,
		State:        repo.states[enums.ProductStateAvailable],
	}
	svc := newCatalogService(t, repo)

	price := 8000.0
	dto, err := svc.Update(context.Background(), Viewer{AccountID: 5, Role: enums.RoleVendor}, 8, UpdateInput{Price: &price})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dto.CurrentPrice != 8000 {
		t.Fatalf("expected new price 8000, got %v", dto.CurrentPrice)
	}
	if dto.PreviousPrice == nil || *dto.PreviousPrice != 10000 {
		t.Fatalf("expected previous price archived, got %+v", dto.PreviousPrice)
	}
}

func TestUpdateRejectsNonOwner(t *testing.T) {
	t.Parallel()

	repo := newStubProductRepo()
	repo.stored[8] = &models.Product{ID: 8, SellerID: 5, Visible: true, State: repo.states[enums.ProductStateAvailable]}
	svc := newCatalogService(t, repo)

	name := "Nuevo nombre de producto"
	_, err := svc.Update(context.Background(), Viewer{AccountID: 6, Role: enums.RoleVendor}, 8, UpdateInput{Name: &name})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if repo.saveCalls != 0 {
		t.Fatal("rejected update must not persist")
	}
}

func TestDeleteSuspendsListing(t *testing.T) {
	t.Parallel()

	repo := newStubProductRepo()
	repo.stored[8] = &models.Product{ID: 8, SellerID: 5, Visible: true, State: repo.states[enums.ProductStateAvailable]}
	svc := newCatalogService(t, repo)

	if err := svc.Delete(context.Background(), Viewer{AccountID: 5, Role: enums.RoleVendor}, 8); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.stored[8].StateID != repo.states[enums.ProductStateSuspended].ID {
		t.Fatalf("expected suspended state, got %d", repo.stored[8].StateID)
	}
}

func TestListScopesVisibilityByRole(t *testing.T) {
	t.Parallel()

	repo := newStubProductRepo()
	svc := newCatalogService(t, repo)

	if _, _, err := svc.List(context.Background(), Viewer{}, ListFilter{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !repo.lastQuery.OnlyPublic {
		t.Fatal("anonymous viewers must only see public listings")
	}

	if _, _, err := svc.List(context.Background(), Viewer{AccountID: 1, Role: enums.RoleAdmin}, ListFilter{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastQuery.OnlyPublic {
		t.Fatal("admins see the full catalog")
	}
}
