package accounts

import (
	"context"

	"github.com/emontecinos/campusmarket-backend/pkg/enums"
	pkgerrors "github.com/emontecinos/campusmarket-backend/pkg/errors"
	"github.com/emontecinos/campusmarket-backend/pkg/logger"
	"github.com/emontecinos/campusmarket-backend/pkg/pagination"
	"github.com/emontecinos/campusmarket-backend/pkg/types"
)

// Service exposes profile and admin account operations.
type Service interface {
	Profile(ctx context.Context, accountID int64) (*ProfileDTO, error)
	UpdateProfile(ctx context.Context, accountID int64, in UpdateProfileInput) (*ProfileDTO, error)
	AdminList(ctx context.Context, search string, params pagination.Params) ([]ProfileDTO, types.Pagination, error)
	AdminDelete(ctx context.Context, accountID int64) error
	AdminSetBanned(ctx context.Context, accountID int64, banned bool) (*ProfileDTO, error)
}

// ServiceParams groups dependencies for the accounts service.
type ServiceParams struct {
	Repo   Repository
	Logger *logger.Logger
}

type service struct {
	repo Repository
	logg *logger.Logger
}

// NewService wires account dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "accounts repository required")
	}
	return &service{repo: params.Repo, logg: params.Logger}, nil
}

func (s *service) Profile(ctx context.Context, accountID int64) (*ProfileDTO, error) {
	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load account")
	}
	dto := ToProfileDTO(*account)
	return &dto, nil
}

// UpdateProfile applies the provided fields. A username change is checked for
// uniqueness against every other account first.
func (s *service) UpdateProfile(ctx context.Context, accountID int64, in UpdateProfileInput) (*ProfileDTO, error) {
	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load account")
	}

	if in.Username != nil && *in.Username != account.Username {
		taken, err := s.repo.UsernameTaken(ctx, *in.Username, accountID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check username")
		}
		if taken {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "username already in use")
		}
		account.Username = *in.Username
	}
	if in.FirstName != nil {
		account.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		account.LastName = *in.LastName
	}
	if in.Phone != nil {
		account.Phone = in.Phone
	}
	if in.Address != nil {
		account.Address = in.Address
	}
	if in.Campus != nil {
		account.Campus = *in.Campus
	}

	if err := s.repo.Save(ctx, account); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update account")
	}

	stored, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load account")
	}
	dto := ToProfileDTO(*stored)
	return &dto, nil
}

func (s *service) AdminList(ctx context.Context, search string, params pagination.Params) ([]ProfileDTO, types.Pagination, error) {
	page := pagination.NormalizePage(params.Page)
	limit := pagination.NormalizeLimit(params.Limit)

	rows, total, err := s.repo.List(ctx, search, pagination.Offset(page, limit), limit)
	if err != nil {
		return nil, types.Pagination{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list accounts")
	}

	items := make([]ProfileDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, ToProfileDTO(row))
	}

	meta := types.Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: pagination.TotalPages(total, limit),
	}
	return items, meta, nil
}

// AdminDelete removes the account row permanently.
func (s *service) AdminDelete(ctx context.Context, accountID int64) error {
	if accountID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "account id is required")
	}
	affected, err := s.repo.Delete(ctx, accountID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete account")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
	}
	if s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "account_id", accountID), "accounts.admin account deleted")
	}
	return nil
}

// AdminSetBanned swaps the account status between active and banned.
func (s *service) AdminSetBanned(ctx context.Context, accountID int64, banned bool) (*ProfileDTO, error) {
	if accountID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "account id is required")
	}

	target := enums.AccountStatusActive
	if banned {
		target = enums.AccountStatusBanned
	}
	status, err := s.repo.FindStatusByName(ctx, target)
	if err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConfiguration, "account status missing")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve account status")
	}

	if err := s.repo.SetStatus(ctx, accountID, status.ID); err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update account status")
	}

	stored, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load account")
	}
	dto := ToProfileDTO(*stored)
	return &dto, nil
}
