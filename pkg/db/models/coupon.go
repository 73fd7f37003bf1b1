package models

import (
	"time"

	"github.com/google/uuid"
)

// Coupon is a discount code issued by a business. num_used is reserved for a
// future redemption flow; nothing increments it today.
type Coupon struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	BusinessID   uuid.UUID `gorm:"column:business_id;type:uuid;not null;index"`
	Code         string    `gorm:"column:code;not null"`
	Description  string    `gorm:"column:description;not null"`
	Value        int       `gorm:"column:value;not null"`
	QRImageURL   *string   `gorm:"column:qr_image_url"`
	Active       bool      `gorm:"column:active;not null;default:true"`
	NumAvailable int       `gorm:"column:num_available;not null;default:5"`
	NumUsed      int       `gorm:"column:num_used;not null;default:0"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}
