package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openshophq/openshop-backend/pkg/db/models"
	"github.com/openshophq/openshop-backend/pkg/enums"
)

// ProductDTO is the transport shape for a catalog entry.
type ProductDTO struct {
	ID          uuid.UUID             `json:"id"`
	BusinessID  uuid.UUID             `json:"business_id"`
	Name        string                `json:"name"`
	ProductNo   string                `json:"product_no"`
	Description string                `json:"description,omitempty"`
	Category    enums.ProductCategory `json:"category"`
	Quantity    int                   `json:"quantity"`
	Unit        string                `json:"unit,omitempty"`
	Price       decimal.Decimal       `json:"price"`
	Tax         decimal.Decimal       `json:"tax"`
	Status      enums.ProductStatus   `json:"status"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// CreateProductRequest is the validated creation payload.
type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required,max=150"`
	ProductNo   string          `json:"product_no" validate:"required,max=50"`
	Description string          `json:"description" validate:"max=1000"`
	Category    string          `json:"category" validate:"omitempty,oneof=random grocery electronics fashion home beauty"`
	Quantity    int             `json:"quantity" validate:"omitempty,min=0"`
	Unit        string          `json:"unit" validate:"max=20"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	Tax         decimal.Decimal `json:"tax"`
}

// UpdateProductRequest holds optional mutations. Nil fields are untouched.
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,max=150"`
	ProductNo   *string          `json:"product_no" validate:"omitempty,max=50"`
	Description *string          `json:"description" validate:"omitempty,max=1000"`
	Category    *string          `json:"category" validate:"omitempty,oneof=random grocery electronics fashion home beauty"`
	Quantity    *int             `json:"quantity" validate:"omitempty,min=0"`
	Unit        *string          `json:"unit" validate:"omitempty,max=20"`
	Price       *decimal.Decimal `json:"price"`
	Tax         *decimal.Decimal `json:"tax"`
	Status      *string          `json:"status" validate:"omitempty,oneof=available out_of_stock"`
}

// ProductImageDTO is the transport shape for a hosted image reference.
type ProductImageDTO struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

func FromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:          p.ID,
		BusinessID:  p.BusinessID,
		Name:        p.Name,
		ProductNo:   p.ProductNo,
		Description: p.Description,
		Category:    p.Category,
		Quantity:    p.Quantity,
		Unit:        p.Unit,
		Price:       p.Price,
		Tax:         p.Tax,
		Status:      p.Status,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// FromModels maps a slice of products to DTOs.
func FromModels(items []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(items))
	for i := range items {
		out = append(out, *FromModel(&items[i]))
	}
	return out
}

func imageFromModel(img *models.ProductImage) *ProductImageDTO {
	if img == nil {
		return nil
	}
	return &ProductImageDTO{
		ID:        img.ID,
		ProductID: img.ProductID,
		Name:      img.Name,
		URL:       img.URL,
		CreatedAt: img.CreatedAt,
	}
}
