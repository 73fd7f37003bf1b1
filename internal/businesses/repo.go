package businesses

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openshophq/openshop-backend/pkg/db/models"
)

// Repository exposes business persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a businesses repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new business.
func (r *Repository) Create(ctx context.Context, business *models.Business) (*models.Business, error) {
	if business.ID == uuid.Nil {
		business.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(business).Error; err != nil {
		return nil, err
	}
	return business, nil
}

// FindByID loads a business by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Business, error) {
	var business models.Business
	if err := r.db.WithContext(ctx).First(&business, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &business, nil
}

// CountByOwner returns how many businesses the owner currently has.
func (r *Repository) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Business{}).
		Where("owner_id = ?", ownerID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ListByOwner returns the owner's businesses, newest first.
func (r *Repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Business, error) {
	var items []models.Business
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ListAll returns every business, newest first.
func (r *Repository) ListAll(ctx context.Context) ([]models.Business, error) {
	var items []models.Business
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Update applies the column updates and returns the fresh row.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Business, error) {
	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).
			Model(&models.Business{}).
			Where("id = ?", id).
			Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return r.FindByID(ctx, id)
}

// Delete removes the business row. Favorites cascade in the schema; products
// and coupons RESTRICT, surfacing a foreign key violation.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Business{}, "id = ?", id).Error
}

// CountProducts returns how many products reference the business.
func (r *Repository) CountProducts(ctx context.Context, businessID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("business_id = ?", businessID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountCoupons returns how many coupons reference the business.
func (r *Repository) CountCoupons(ctx context.Context, businessID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Coupon{}).
		Where("business_id = ?", businessID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CreateFavorite inserts a favorite row for the user.
func (r *Repository) CreateFavorite(ctx context.Context, businessID, userID uuid.UUID) error {
	favorite := models.BusinessFavorite{
		ID:         uuid.New(),
		BusinessID: businessID,
		UserID:     userID,
	}
	return r.db.WithContext(ctx).Create(&favorite).Error
}

// DeleteFavorite removes the user's favorite row and reports whether one existed.
func (r *Repository) DeleteFavorite(ctx context.Context, businessID, userID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("business_id = ? AND user_id = ?", businessID, userID).
		Delete(&models.BusinessFavorite{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
