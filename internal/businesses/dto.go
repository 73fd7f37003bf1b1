package businesses

import (
	"time"

	"github.com/google/uuid"

	"github.com/openshophq/openshop-backend/pkg/db/models"
	"github.com/openshophq/openshop-backend/pkg/enums"
)

// BusinessDTO is the transport shape for a shop.
type BusinessDTO struct {
	ID          uuid.UUID            `json:"id"`
	OwnerID     uuid.UUID            `json:"owner_id"`
	Name        string               `json:"name"`
	Phone       string               `json:"phone,omitempty"`
	LogoURL     *string              `json:"logo_url,omitempty"`
	CouponCode  string               `json:"coupon_code,omitempty"`
	Category    string               `json:"category,omitempty"`
	Country     string               `json:"country,omitempty"`
	Address     string               `json:"address,omitempty"`
	Established *time.Time           `json:"established,omitempty"`
	Rating      enums.BusinessRating `json:"rating"`
	Notes       string               `json:"notes,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// CreateBusinessRequest is the validated creation payload.
type CreateBusinessRequest struct {
	Name        string     `json:"name" validate:"required,max=150"`
	Phone       string     `json:"phone" validate:"max=32"`
	CouponCode  string     `json:"coupon_code" validate:"max=50"`
	Category    string     `json:"category" validate:"max=100"`
	Country     string     `json:"country" validate:"max=100"`
	Address     string     `json:"address" validate:"max=255"`
	Established *time.Time `json:"established"`
	Notes       string     `json:"notes" validate:"max=1000"`
}

// UpdateBusinessRequest holds optional mutations. Nil fields are untouched.
type UpdateBusinessRequest struct {
	Name        *string    `json:"name" validate:"omitempty,max=150"`
	Phone       *string    `json:"phone" validate:"omitempty,max=32"`
	CouponCode  *string    `json:"coupon_code" validate:"omitempty,max=50"`
	Category    *string    `json:"category" validate:"omitempty,max=100"`
	Country     *string    `json:"country" validate:"omitempty,max=100"`
	Address     *string    `json:"address" validate:"omitempty,max=255"`
	Established *time.Time `json:"established"`
	Rating      *string    `json:"rating" validate:"omitempty,oneof=level_1 level_2 level_3 level_4 level_5"`
	Notes       *string    `json:"notes" validate:"omitempty,max=1000"`
}

// DeleteBusinessRequest carries the delete confirmation passcode.
type DeleteBusinessRequest struct {
	Passcode string `json:"passcode" validate:"required"`
}

func FromModel(b *models.Business) *BusinessDTO {
	if b == nil {
		return nil
	}
	return &BusinessDTO{
		ID:          b.ID,
		OwnerID:     b.OwnerID,
		Name:        b.Name,
		Phone:       b.Phone,
		LogoURL:     b.LogoURL,
		CouponCode:  b.CouponCode,
		Category:    b.Category,
		Country:     b.Country,
		Address:     b.Address,
		Established: b.Established,
		Rating:      b.Rating,
		Notes:       b.Notes,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

// FromModels maps a slice of businesses to DTOs.
func FromModels(items []models.Business) []BusinessDTO {
	out := make([]BusinessDTO, 0, len(items))
	for i := range items {
		out = append(out, *FromModel(&items[i]))
	}
	return out
}
