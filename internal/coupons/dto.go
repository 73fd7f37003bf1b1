package coupons

import (
	"time"

	"github.com/google/uuid"

	"github.com/openshophq/openshop-backend/pkg/db/models"
)

// CouponDTO is the transport shape for a coupon.
type CouponDTO struct {
	ID           uuid.UUID `json:"id"`
	BusinessID   uuid.UUID `json:"business_id"`
	Code         string    `json:"code"`
	Description  string    `json:"description"`
	Value        int       `json:"value"`
	QRImageURL   *string   `json:"qr_image_url,omitempty"`
	Active       bool      `json:"active"`
	NumAvailable int       `json:"num_available"`
	NumUsed      int       `json:"num_used"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateCouponRequest is the validated creation payload.
type CreateCouponRequest struct {
	Description  string `json:"description" validate:"required,max=255"`
	Value        int    `json:"value" validate:"required,min=1"`
	NumAvailable int    `json:"num_available" validate:"omitempty,min=1"`
}

func FromModel(c *models.Coupon) *CouponDTO {
	if c == nil {
		return nil
	}
	return &CouponDTO{
		ID:           c.ID,
		BusinessID:   c.BusinessID,
		Code:         c.Code,
		Description:  c.Description,
		Value:        c.Value,
		QRImageURL:   c.QRImageURL,
		Active:       c.Active,
		NumAvailable: c.NumAvailable,
		NumUsed:      c.NumUsed,
		CreatedAt:    c.CreatedAt,
	}
}

// FromModels maps a slice of coupons to DTOs.
func FromModels(items []models.Coupon) []CouponDTO {
	out := make([]CouponDTO, 0, len(items))
	for i := range items {
		out = append(out, *FromModel(&items[i]))
	}
	return out
}
