package transactions

import (
	"time"

	"github.com/emontecinos/campusmarket-backend/pkg/db/models"
	"github.com/emontecinos/campusmarket-backend/pkg/enums"
)

// PurchaseInput is the wire body for recording a purchase.
type PurchaseInput struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"omitempty,gte=1"`
}

// PartyRef is the embedded buyer/seller view on sale payloads.
type PartyRef struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// ProductRef is the embedded product view on sale payloads.
type ProductRef struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// SaleDTO is the outbound representation of a transaction.
type SaleDTO struct {
	ID           int64                  `json:"id"`
	Product      *ProductRef            `json:"product,omitempty"`
	Buyer        *PartyRef              `json:"buyer,omitempty"`
	Seller       *PartyRef              `json:"seller,omitempty"`
	Quantity     int                    `json:"quantity"`
	TotalPrice   float64                `json:"totalPrice"`
	State        enums.TransactionState `json:"state"`
	TransactedAt time.Time              `json:"transactedAt"`
}

// SalesStats aggregates a seller's sales.
type SalesStats struct {
	TotalAmount float64          `json:"totalAmount"`
	Count       int64            `json:"count"`
	ByState     map[string]int64 `json:"byState"`
}

func partyRef(account *models.Account) *PartyRef {
	if account == nil {
		return nil
	}
	return &PartyRef{
		ID:        account.ID,
		Username:  account.Username,
		FirstName: account.FirstName,
		LastName:  account.LastName,
	}
}

func toDTO(transaction models.Transaction) SaleDTO {
	dto := SaleDTO{
		ID:           transaction.ID,
		Buyer:        partyRef(transaction.Buyer),
		Seller:       partyRef(transaction.Seller),
		Quantity:     transaction.Quantity,
		TotalPrice:   transaction.TotalPrice,
		TransactedAt: transaction.TransactedAt,
	}
	if transaction.Product != nil {
		dto.Product = &ProductRef{
			ID:    transaction.Product.ID,
			Name:  transaction.Product.Name,
			Price: transaction.Product.CurrentPrice,
		}
	}
	if transaction.State != nil {
		dto.State = transaction.State.Name
	}
	return dto
}
