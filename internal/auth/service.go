package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/emontecinos/campusmarket-backend/internal/accounts"
	"github.com/emontecinos/campusmarket-backend/pkg/auth"
	"github.com/emontecinos/campusmarket-backend/pkg/auth/session"
	"github.com/emontecinos/campusmarket-backend/pkg/config"
	"github.com/emontecinos/campusmarket-backend/pkg/db"
	"github.com/emontecinos/campusmarket-backend/pkg/db/models"
	"github.com/emontecinos/campusmarket-backend/pkg/enums"
	pkgerrors "github.com/emontecinos/campusmarket-backend/pkg/errors"
	"github.com/emontecinos/campusmarket-backend/pkg/logger"
	"github.com/emontecinos/campusmarket-backend/pkg/security"
)

const (
	staffEmailDomain   = "@uct.cl"
	studentEmailDomain = "@alu.uct.cl"
)

// SessionManager is the refresh-session surface the service depends on.
type SessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

// Service exposes registration, login, and session lifecycle operations.
type Service interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, in LoginInput) (*AuthResult, error)
	Refresh(ctx context.Context, accessToken, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, accessID string) error
}

// RegisterInput is the wire body for account registration.
type RegisterInput struct {
	Email     string `json:"email" validate:"required,email,max=120"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	Username  string `json:"username" validate:"required,min=3,max=40,alphanum"`
	FirstName string `json:"firstName" validate:"required,min=1,max=80"`
	LastName  string `json:"lastName" validate:"omitempty,max=80"`
	Campus    string `json:"campus" validate:"omitempty,max=80"`
	Phone     string `json:"phone" validate:"omitempty,max=20"`
}

// LoginInput is the wire body for credential login.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenPair carries a freshly minted access/refresh token set.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthResult is the login/register response: tokens plus the profile.
type AuthResult struct {
	TokenPair
	Profile accounts.ProfileDTO `json:"profile"`
}

// ServiceParams groups dependencies for the auth service.
type ServiceParams struct {
	Repo     accounts.Repository
	Sessions SessionManager
	JWT      config.JWTConfig
	Password config.PasswordConfig
	Logger   *logger.Logger
}

type service struct {
	repo        accounts.Repository
	sessions    SessionManager
	jwtConfig   config.JWTConfig
	passwordCfg config.PasswordConfig
	logg        *logger.Logger
}

// NewService wires auth dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "accounts repository required")
	}
	if params.Sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "session manager required")
	}
	return &service{
		repo:        params.Repo,
		sessions:    params.Sessions,
		jwtConfig:   params.JWT,
		passwordCfg: params.Password,
		logg:        params.Logger,
	}, nil
}

// Register creates an account for a university email address. The mail domain
// decides the initial role: staff addresses start as vendor, student addresses
// as client.
func (s *service) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	role, err := roleForEmail(email)
	if err != nil {
		return nil, err
	}

	if taken, err := s.repo.EmailTaken(ctx, email); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check email")
	} else if taken {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	}
	if taken, err := s.repo.UsernameTaken(ctx, in.Username, 0); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check username")
	} else if taken {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "username already in use")
	}

	hash, err := security.HashPassword(in.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	roleRow, err := s.repo.FindRoleByName(ctx, role)
	if err != nil {
		if accounts.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConfiguration, "role reference data missing")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve role")
	}
	statusRow, err := s.repo.FindStatusByName(ctx, enums.AccountStatusActive)
	if err != nil {
		if accounts.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConfiguration, "account status reference data missing")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve account status")
	}

	account := models.Account{
		Email:        email,
		Username:     in.Username,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Campus:       in.Campus,
		RoleID:       roleRow.ID,
		StatusID:     statusRow.ID,
	}
	if phone := strings.TrimSpace(in.Phone); phone != "" {
		account.Phone = &phone
	}

	if err := s.repo.Create(ctx, &account); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email or username already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create account")
	}

	account.Role = roleRow
	account.Status = statusRow

	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"account_id": account.ID,
			"role":       role.String(),
		}), "auth.register account created")
	}

	return s.issueTokens(ctx, &account)
}

// Login verifies the credential and opens a refresh session. Banned accounts
// cannot log in; credential failures are indistinguishable on the wire.
func (s *service) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	account, err := s.repo.FindByEmail(ctx, in.Email)
	if err != nil {
		if accounts.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load account")
	}

	if account.Status != nil && account.Status.Name == enums.AccountStatusBanned {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "account is banned")
	}

	match, err := security.VerifyPassword(in.Password, account.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !match {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	return s.issueTokens(ctx, account)
}

// Refresh rotates the session tied to the presented (possibly expired) access
// token and mints a fresh pair.
func (s *service) Refresh(ctx context.Context, accessToken, refreshToken string) (*TokenPair, error) {
	claims, err := auth.ParseAccessTokenAllowExpired(s.jwtConfig, accessToken)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid access token")
	}

	newAccessID, newRefresh, err := s.sessions.Rotate(ctx, claims.ID, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session")
	}

	signed, err := auth.MintAccessToken(s.jwtConfig, time.Now().UTC(), auth.AccessTokenPayload{
		AccountID:   claims.AccountID,
		Username:    claims.Username,
		DisplayName: claims.DisplayName,
		Role:        claims.Role,
		JTI:         newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	return &TokenPair{AccessToken: signed, RefreshToken: newRefresh}, nil
}

// Logout revokes the refresh session tied to the access identifier.
func (s *service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "access id is required")
	}
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func (s *service) issueTokens(ctx context.Context, account *models.Account) (*AuthResult, error) {
	role := enums.RoleClient
	if account.Role != nil {
		role = account.Role.Name
	}

	accessID := session.NewAccessID()
	signed, err := auth.MintAccessToken(s.jwtConfig, time.Now().UTC(), auth.AccessTokenPayload{
		AccountID:   account.ID,
		Username:    account.Username,
		DisplayName: strings.TrimSpace(account.FirstName + " " + account.LastName),
		Role:        role,
		JTI:         accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	refresh, err := s.sessions.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "open session")
	}

	return &AuthResult{
		TokenPair: TokenPair{AccessToken: signed, RefreshToken: refresh},
		Profile:   accounts.ToProfileDTO(*account),
	}, nil
}

func roleForEmail(email string) (enums.Role, error) {
	switch {
	case strings.HasSuffix(email, studentEmailDomain):
		return enums.RoleClient, nil
	case strings.HasSuffix(email, staffEmailDomain):
		return enums.RoleVendor, nil
	default:
		return "", pkgerrors.New(pkgerrors.CodeValidation, "email must belong to the university domain")
	}
}
