package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openshophq/openshop-backend/pkg/enums"
)

// Product belongs to exactly one business. (name, product_no) is unique
// within that business; a different business may reuse the pair.
type Product struct {
	ID          uuid.UUID             `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	BusinessID  uuid.UUID             `gorm:"column:business_id;type:uuid;not null;uniqueIndex:uniq_product_identity"`
	Name        string                `gorm:"column:name;not null;uniqueIndex:uniq_product_identity"`
	ProductNo   string                `gorm:"column:product_no;uniqueIndex:uniq_product_identity"`
	Description string                `gorm:"column:description"`
	Category    enums.ProductCategory `gorm:"column:category;not null;default:'random'"`
	Quantity    int                   `gorm:"column:quantity;not null;default:1"`
	Unit        string                `gorm:"column:unit"`
	Price       decimal.Decimal       `gorm:"column:price;type:numeric(9,2);not null;default:0"`
	Tax         decimal.Decimal       `gorm:"column:tax;type:numeric(4,2);not null;default:0"`
	Status      enums.ProductStatus   `gorm:"column:status;not null;default:'available'"`
	CreatedAt   time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// LineTotal computes price times the given quantity.
func (p Product) LineTotal(qty int) decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(qty)))
}

// ProductImage stores an externally hosted image reference for a product.
// The filename is globally unique so repeated uploads are rejected.
type ProductImage struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;index"`
	Name      string    `gorm:"column:name;not null;uniqueIndex"`
	URL       string    `gorm:"column:url;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// ProductFavorite is a customer bookmark on a product with toggle semantics.
type ProductFavorite struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:uniq_product_favorite"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:uniq_product_favorite"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
