package products

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openshophq/openshop-backend/pkg/db"
	"github.com/openshophq/openshop-backend/pkg/db/models"
	"github.com/openshophq/openshop-backend/pkg/enums"
	pkgerrors "github.com/openshophq/openshop-backend/pkg/errors"
	"github.com/openshophq/openshop-backend/pkg/imagehost"
	"github.com/openshophq/openshop-backend/pkg/pagination"
)

// Service exposes catalog management and discovery operations.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, userType enums.UserType, businessID uuid.UUID, req CreateProductRequest) (*ProductDTO, error)
	Update(ctx context.Context, userID uuid.UUID, userType enums.UserType, productID uuid.UUID, req UpdateProductRequest) (*ProductDTO, error)
	ListByBusiness(ctx context.Context, businessID uuid.UUID, search string, params pagination.Params) (*pagination.Page[ProductDTO], error)
	SearchPublic(ctx context.Context, search string, params pagination.Params) (*pagination.Page[ProductDTO], error)
	BatchImport(ctx context.Context, userID uuid.UUID, userType enums.UserType, businessID uuid.UUID, csvFile io.Reader) (int, error)
	ToggleFavorite(ctx context.Context, userID, productID uuid.UUID) (bool, error)
	ListFavorites(ctx context.Context, userID uuid.UUID) ([]ProductDTO, error)
	AddImage(ctx context.Context, userID uuid.UUID, userType enums.UserType, productID uuid.UUID, filename string, content io.Reader) (*ProductImageDTO, error)
}

type businessLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Business, error)
}

type imageUploader interface {
	UploadImage(ctx context.Context, publicID string, content io.Reader) (*imagehost.UploadResult, error)
}

type service struct {
	repo       *Repository
	dbClient   *db.Client
	businesses businessLoader
	uploader   imageUploader
}

// NewService constructs a product service.
func NewService(repo *Repository, dbClient *db.Client, businesses businessLoader, uploader imageUploader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client is required")
	}
	if businesses == nil {
		return nil, fmt.Errorf("business repository is required")
	}
	if uploader == nil {
		return nil, fmt.Errorf("image uploader is required")
	}
	return &service{repo: repo, dbClient: dbClient, businesses: businesses, uploader: uploader}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, userType enums.UserType, businessID uuid.UUID, req CreateProductRequest) (*ProductDTO, error) {
	if _, err := s.loadOwnedBusiness(ctx, userID, userType, businessID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	productNo := strings.TrimSpace(req.ProductNo)

	taken, err := s.repo.ExistsIdentity(ctx, businessID, name, productNo, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check product identity")
	}
	if taken {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "product with this name and product_no already exists")
	}

	category := enums.ProductCategoryRandom
	if req.Category != "" {
		category = enums.ProductCategory(req.Category)
	}
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if req.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	product := &models.Product{
		BusinessID:  businessID,
		Name:        name,
		ProductNo:   productNo,
		Description: strings.TrimSpace(req.Description),
		Category:    category,
		Quantity:    quantity,
		Unit:        strings.TrimSpace(req.Unit),
		Price:       req.Price,
		Tax:         req.Tax,
		Status:      enums.ProductStatusAvailable,
	}
	created, err := s.repo.Create(ctx, product)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product with this name and product_no already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}
	return FromModel(created), nil
}

func (s *service) Update(ctx context.Context, userID uuid.UUID, userType enums.UserType, productID uuid.UUID, req UpdateProductRequest) (*ProductDTO, error) {
	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if _, err := s.loadOwnedBusiness(ctx, userID, userType, product.BusinessID); err != nil {
		return nil, err
	}

	name := product.Name
	productNo := product.ProductNo
	updates := map[string]any{}
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
		updates["name"] = name
	}
	if req.ProductNo != nil {
		productNo = strings.TrimSpace(*req.ProductNo)
		updates["product_no"] = productNo
	}
	if req.Name != nil || req.ProductNo != nil {
		taken, checkErr := s.repo.ExistsIdentity(ctx, product.BusinessID, name, productNo, &product.ID)
		if checkErr != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, checkErr, "check product identity")
		}
		if taken {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product with this name and product_no already exists")
		}
	}
	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Category != nil {
		category, parseErr := enums.ParseProductCategory(*req.Category)
		if parseErr != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
		}
		updates["category"] = category
	}
	if req.Quantity != nil {
		updates["quantity"] = *req.Quantity
	}
	if req.Unit != nil {
		updates["unit"] = strings.TrimSpace(*req.Unit)
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		updates["price"] = *req.Price
	}
	if req.Tax != nil {
		updates["tax"] = *req.Tax
	}
	if req.Status != nil {
		status, parseErr := enums.ParseProductStatus(*req.Status)
		if parseErr != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
		}
		updates["status"] = status
	}

	updated, err := s.repo.Update(ctx, product.ID, updates)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product with this name and product_no already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
	}
	return FromModel(updated), nil
}

func (s *service) ListByBusiness(ctx context.Context, businessID uuid.UUID, search string, params pagination.Params) (*pagination.Page[ProductDTO], error) {
	if _, err := s.businesses.FindByID(ctx, businessID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "business not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load business")
	}

	items, count, err := s.repo.Search(ctx, SearchFilter{BusinessID: &businessID, Search: search}, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "search products")
	}
	page := pagination.NewPage(FromModels(items), count, params)
	return &page, nil
}

// SearchPublic also matches on category, unlike the business-scoped listing.
func (s *service) SearchPublic(ctx context.Context, search string, params pagination.Params) (*pagination.Page[ProductDTO], error) {
	items, count, err := s.repo.Search(ctx, SearchFilter{Search: search, IncludeCategory: true}, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "search products")
	}
	page := pagination.NewPage(FromModels(items), count, params)
	return &page, nil
}

// BatchImport stages the whole CSV in one transaction. Any invalid or
// duplicate row aborts the batch with zero rows persisted.
func (s *service) BatchImport(ctx context.Context, userID uuid.UUID, userType enums.UserType, businessID uuid.UUID, csvFile io.Reader) (int, error) {
	if _, err := s.loadOwnedBusiness(ctx, userID, userType, businessID); err != nil {
		return 0, err
	}

	rows, err := parseBatchCSV(csvFile)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid csv").WithDetails(err.Error())
	}

	items := make([]models.Product, 0, len(rows))
	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		for _, row := range rows {
			taken, checkErr := txRepo.ExistsIdentity(ctx, businessID, row.Name, row.ProductNo, nil)
			if checkErr != nil {
				return checkErr
			}
			if taken {
				return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("product (%s, %s) already exists", row.Name, row.ProductNo))
			}
			items = append(items, models.Product{
				BusinessID:  businessID,
				Name:        row.Name,
				ProductNo:   row.ProductNo,
				Description: row.Description,
				Category:    row.Category,
				Quantity:    row.Quantity,
				Unit:        row.Unit,
				Price:       row.Price,
				Tax:         row.Tax,
				Status:      enums.ProductStatusAvailable,
			})
		}
		return txRepo.CreateBatch(ctx, items)
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return 0, typed
		}
		if db.IsUniqueViolation(err) {
			return 0, pkgerrors.New(pkgerrors.CodeConflict, "csv contains products that already exist")
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "import products")
	}
	return len(items), nil
}

// ToggleFavorite returns true when the product is now favorited, false when
// the toggle removed an existing favorite.
func (s *service) ToggleFavorite(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	if _, err := s.loadProduct(ctx, productID); err != nil {
		return false, err
	}

	removed, err := s.repo.DeleteFavorite(ctx, productID, userID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "toggle favorite")
	}
	if removed {
		return false, nil
	}
	if err := s.repo.CreateFavorite(ctx, productID, userID); err != nil {
		if db.IsUniqueViolation(err) {
			return true, nil
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "toggle favorite")
	}
	return true, nil
}

func (s *service) ListFavorites(ctx context.Context, userID uuid.UUID) ([]ProductDTO, error) {
	items, err := s.repo.ListFavorites(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list favorites")
	}
	return FromModels(items), nil
}

func (s *service) AddImage(ctx context.Context, userID uuid.UUID, userType enums.UserType, productID uuid.UUID, filename string, content io.Reader) (*ProductImageDTO, error) {
	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if _, err := s.loadOwnedBusiness(ctx, userID, userType, product.BusinessID); err != nil {
		return nil, err
	}

	name := path.Base(strings.TrimSpace(filename))
	if name == "" || name == "." || name == "/" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image filename is required")
	}

	exists, err := s.repo.ImageNameExists(ctx, name)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check image name")
	}
	if exists {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "image with this filename already exists")
	}

	publicID := fmt.Sprintf("products/%s/%s", product.ID, strings.TrimSuffix(name, path.Ext(name)))
	uploaded, err := s.uploader.UploadImage(ctx, publicID, content)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload image")
	}

	image, err := s.repo.CreateImage(ctx, &models.ProductImage{
		ProductID: product.ID,
		Name:      name,
		URL:       uploaded.SecureURL,
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "image with this filename already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist image")
	}
	return imageFromModel(image), nil
}

func (s *service) loadProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	return product, nil
}

func (s *service) loadOwnedBusiness(ctx context.Context, userID uuid.UUID, userType enums.UserType, businessID uuid.UUID) (*models.Business, error) {
	business, err := s.businesses.FindByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "business not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load business")
	}
	if !userType.IsAdmin() && !business.IsOwnedBy(userID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "business belongs to another owner")
	}
	return business, nil
}
