package accounts

import (
	"time"

	"github.com/emontecinos/campusmarket-backend/pkg/db/models"
	"github.com/emontecinos/campusmarket-backend/pkg/enums"
)

// UpdateProfileInput carries the mutable profile fields; nil means unchanged.
type UpdateProfileInput struct {
	Username  *string `json:"username" validate:"omitempty,min=3,max=40,alphanum"`
	FirstName *string `json:"firstName" validate:"omitempty,min=1,max=80"`
	LastName  *string `json:"lastName" validate:"omitempty,max=80"`
	Phone     *string `json:"phone" validate:"omitempty,max=20"`
	Address   *string `json:"address" validate:"omitempty,max=200"`
	Campus    *string `json:"campus" validate:"omitempty,max=80"`
}

// ProfileDTO is the outbound account representation.
type ProfileDTO struct {
	ID           int64               `json:"id"`
	Email        string              `json:"email"`
	Username     string              `json:"username"`
	FirstName    string              `json:"firstName"`
	LastName     string              `json:"lastName"`
	Phone        *string             `json:"phone,omitempty"`
	Address      *string             `json:"address,omitempty"`
	Campus       string              `json:"campus"`
	Role         enums.Role          `json:"role"`
	Status       enums.AccountStatus `json:"status"`
	Reputation   float64             `json:"reputation"`
	RegisteredAt time.Time           `json:"registeredAt"`
}

// ToProfileDTO maps an account row with its references resolved.
func ToProfileDTO(account models.Account) ProfileDTO {
	dto := ProfileDTO{
		ID:           account.ID,
		Email:        account.Email,
		Username:     account.Username,
		FirstName:    account.FirstName,
		LastName:     account.LastName,
		Phone:        account.Phone,
		Address:      account.Address,
		Campus:       account.Campus,
		Reputation:   account.Reputation,
		RegisteredAt: account.RegisteredAt,
	}
	if account.Role != nil {
		dto.Role = account.Role.Name
	}
	if account.Status != nil {
		dto.Status = account.Status.Name
	}
	return dto
}
