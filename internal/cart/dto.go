package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddItemsRequest is the validated payload for POST /cart/items.
type AddItemsRequest struct {
	Items []AddItemInput `json:"items" validate:"required,min=1,dive"`
}

// AddItemInput is one requested (product, quantity) pair.
type AddItemInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

// DeleteItemsRequest carries the cart item ids to remove.
type DeleteItemsRequest struct {
	IDs []uuid.UUID `json:"ids" validate:"required,min=1"`
}

// LineDTO is a cart line enriched with product data and its extended total.
type LineDTO struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	ProductNo string          `json:"product_no"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Total     decimal.Decimal `json:"total"`
}

// CartDTO is the cart with its lines and running subtotal.
type CartDTO struct {
	ID       uuid.UUID       `json:"id"`
	Code     string          `json:"code"`
	Items    []LineDTO       `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
}
