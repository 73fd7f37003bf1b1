package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/openshophq/openshop-backend/pkg/enums"
)

// Business represents a registered shop owned by a single user. The owner
// foreign key is RESTRICT so shops cannot orphan their catalog history.
type Business struct {
	ID          uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID     uuid.UUID            `gorm:"column:owner_id;type:uuid;not null;index"`
	Name        string               `gorm:"column:name;not null"`
	Phone       string               `gorm:"column:phone"`
	LogoURL     *string              `gorm:"column:logo_url"`
	CouponCode  string               `gorm:"column:coupon_code"`
	Category    string               `gorm:"column:category"`
	Country     string               `gorm:"column:country"`
	Address     string               `gorm:"column:address"`
	Established *time.Time           `gorm:"column:established"`
	Rating      enums.BusinessRating `gorm:"column:rating;not null;default:'level_1'"`
	Notes       string               `gorm:"column:notes"`
	CreatedAt   time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

// IsOwnedBy reports whether the given user owns this business.
func (b Business) IsOwnedBy(userID uuid.UUID) bool {
	return b.OwnerID == userID
}

// BusinessFavorite is a customer bookmark on a shop. Uniqueness per
// (user, business) is enforced both in the schema and at the service layer.
type BusinessFavorite struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	BusinessID uuid.UUID `gorm:"column:business_id;type:uuid;not null;uniqueIndex:uniq_business_favorite"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:uniq_business_favorite"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
