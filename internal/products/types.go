package products

import (
	"time"

	"github.com/emontecinos/campusmarket-backend/pkg/db/models"
	"github.com/emontecinos/campusmarket-backend/pkg/enums"
)

// CreateInput is the wire body for creating a listing.
type CreateInput struct {
	Name        string   `json:"name" validate:"required,min=3,max=120"`
	Description string   `json:"description" validate:"required,min=10,max=4000"`
	Price       float64  `json:"price" validate:"required,gt=0"`
	CategoryID  int64    `json:"categoryId" validate:"required,gt=0"`
	Quantity    int      `json:"quantity" validate:"omitempty,gte=1"`
	Images      []string `json:"images" validate:"omitempty,max=10,dive,url"`
}

// UpdateInput carries the mutable listing fields; nil means leave unchanged.
type UpdateInput struct {
	Name        *string  `json:"name" validate:"omitempty,min=3,max=120"`
	Description *string  `json:"description" validate:"omitempty,min=10,max=4000"`
	Price       *float64 `json:"price" validate:"omitempty,gt=0"`
	CategoryID  *int64   `json:"categoryId" validate:"omitempty,gt=0"`
	Quantity    *int     `json:"quantity" validate:"omitempty,gte=0"`
}

// ListFilter narrows the public catalog query.
type ListFilter struct {
	CategoryID int64
	Search     string
	Page       int
	Limit      int
}

// Viewer identifies who is looking at the catalog; zero values mean anonymous.
type Viewer struct {
	AccountID int64
	Role      enums.Role
}

// SellerRef is the embedded seller view on product payloads.
type SellerRef struct {
	ID         int64   `json:"id"`
	Username   string  `json:"username"`
	FirstName  string  `json:"firstName"`
	LastName   string  `json:"lastName"`
	Reputation float64 `json:"reputation"`
}

// ProductDTO is the outbound representation of a listing.
type ProductDTO struct {
	ID            int64              `json:"id"`
	Name          string             `json:"name"`
	Description   string             `json:"description"`
	PreviousPrice *float64           `json:"previousPrice,omitempty"`
	CurrentPrice  float64            `json:"currentPrice"`
	CategoryID    int64              `json:"categoryId"`
	CategoryName  string             `json:"categoryName,omitempty"`
	SellerID      int64              `json:"sellerId"`
	Seller        *SellerRef         `json:"seller,omitempty"`
	Quantity      int                `json:"quantity"`
	State         enums.ProductState `json:"state"`
	Visible       bool               `json:"visible"`
	Rating        float64            `json:"rating"`
	Images        []string           `json:"images"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

// CreateResult reports the stored listing plus any role transition the
// creation triggered.
type CreateResult struct {
	Product     ProductDTO `json:"product"`
	RoleChanged bool       `json:"roleChanged"`
	NewRole     string     `json:"newRole,omitempty"`
}

// CategoryDTO is one node of the public category tree.
type CategoryDTO struct {
	ID            int64         `json:"id"`
	Name          string        `json:"name"`
	Subcategories []CategoryDTO `json:"subcategories"`
}

// ToDTO maps a product row with its references resolved.
func ToDTO(product models.Product) ProductDTO {
	dto := ProductDTO{
		ID:            product.ID,
		Name:          product.Name,
		Description:   product.Description,
		PreviousPrice: product.PreviousPrice,
		CurrentPrice:  product.CurrentPrice,
		CategoryID:    product.CategoryID,
		SellerID:      product.SellerID,
		Quantity:      product.Quantity,
		Visible:       product.Visible,
		Rating:        product.Rating,
		Images:        make([]string, 0, len(product.Images)),
		CreatedAt:     product.CreatedAt,
		UpdatedAt:     product.UpdatedAt,
	}
	if product.Category != nil {
		dto.CategoryName = product.Category.Name
	}
	if product.State != nil {
		dto.State = product.State.Name
	}
	if product.Seller != nil {
		dto.Seller = &SellerRef{
			ID:         product.Seller.ID,
			Username:   product.Seller.Username,
			FirstName:  product.Seller.FirstName,
			LastName:   product.Seller.LastName,
			Reputation: product.Seller.Reputation,
		}
	}
	for _, image := range product.Images {
		dto.Images = append(dto.Images, image.URL)
	}
	return dto
}

func toCategoryDTO(category models.Category) CategoryDTO {
	dto := CategoryDTO{
		ID:            category.ID,
		Name:          category.Name,
		Subcategories: make([]CategoryDTO, 0, len(category.Subcategories)),
	}
	for _, sub := range category.Subcategories {
		dto.Subcategories = append(dto.Subcategories, toCategoryDTO(sub))
	}
	return dto
}
