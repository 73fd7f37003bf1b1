package products

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openshophq/openshop-backend/pkg/db/models"
	"github.com/openshophq/openshop-backend/pkg/pagination"
)

// SearchFilter narrows the catalog queries.
type SearchFilter struct {
	BusinessID      *uuid.UUID
	Search          string
	IncludeCategory bool
}

// Repository exposes product persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a products repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new product.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// CreateBatch inserts all products in a single statement.
func (r *Repository) CreateBatch(ctx context.Context, items []models.Product) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

// FindByID loads a product by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ExistsIdentity reports whether (name, product_no) is already taken within
// the business, optionally excluding one product id.
func (r *Repository) ExistsIdentity(ctx context.Context, businessID uuid.UUID, name, productNo string, excludeID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("business_id = ? AND LOWER(name) = ? AND LOWER(product_no) = ?",
			businessID, strings.ToLower(name), strings.ToLower(productNo))
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Update applies the column updates and returns the fresh row.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Product, error) {
	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).
			Model(&models.Product{}).
			Where("id = ?", id).
			Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return r.FindByID(ctx, id)
}

// Search lists matching products with the total count of the filtered set.
func (r *Repository) Search(ctx context.Context, filter SearchFilter, params pagination.Params) ([]models.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})
	if filter.BusinessID != nil {
		query = query.Where("business_id = ?", *filter.BusinessID)
	}
	if needle := strings.TrimSpace(filter.Search); needle != "" {
		pattern := "%" + strings.ToLower(needle) + "%"
		if filter.IncludeCategory {
			query = query.Where(
				"LOWER(name) LIKE ? OR LOWER(product_no) LIKE ? OR LOWER(description) LIKE ? OR LOWER(category) LIKE ?",
				pattern, pattern, pattern, pattern,
			)
		} else {
			query = query.Where(
				"LOWER(name) LIKE ? OR LOWER(product_no) LIKE ? OR LOWER(description) LIKE ?",
				pattern, pattern, pattern,
			)
		}
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var items []models.Product
	if err := query.
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, count, nil
}

// FindFavorite loads the user's favorite row for the product, if any.
func (r *Repository) FindFavorite(ctx context.Context, productID, userID uuid.UUID) (*models.ProductFavorite, error) {
	var favorite models.ProductFavorite
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND user_id = ?", productID, userID).
		First(&favorite).Error
	if err != nil {
		return nil, err
	}
	return &favorite, nil
}

// CreateFavorite inserts a favorite row.
func (r *Repository) CreateFavorite(ctx context.Context, productID, userID uuid.UUID) error {
	favorite := models.ProductFavorite{
		ID:        uuid.New(),
		ProductID: productID,
		UserID:    userID,
	}
	return r.db.WithContext(ctx).Create(&favorite).Error
}

// DeleteFavorite removes the favorite row and reports whether one existed.
func (r *Repository) DeleteFavorite(ctx context.Context, productID, userID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("product_id = ? AND user_id = ?", productID, userID).
		Delete(&models.ProductFavorite{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListFavorites returns the products the user has favorited, newest first.
func (r *Repository) ListFavorites(ctx context.Context, userID uuid.UUID) ([]models.Product, error) {
	var items []models.Product
	err := r.db.WithContext(ctx).
		Joins("JOIN product_favorites pf ON pf.product_id = products.id").
		Where("pf.user_id = ?", userID).
		Order("pf.created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// CreateImage inserts a hosted image reference.
func (r *Repository) CreateImage(ctx context.Context, image *models.ProductImage) (*models.ProductImage, error) {
	if image.ID == uuid.Nil {
		image.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(image).Error; err != nil {
		return nil, err
	}
	return image, nil
}

// ImageNameExists reports whether the filename is already stored.
func (r *Repository) ImageNameExists(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ProductImage{}).
		Where("name = ?", name).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
