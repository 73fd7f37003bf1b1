package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/openshophq/openshop-backend/pkg/db"
	"github.com/openshophq/openshop-backend/pkg/db/models"
	"github.com/openshophq/openshop-backend/pkg/enums"
	pkgerrors "github.com/openshophq/openshop-backend/pkg/errors"
	"github.com/openshophq/openshop-backend/pkg/security"
)

const cartCodeLength = 10

// Service exposes shopping cart operations.
type Service interface {
	AddItems(ctx context.Context, userID uuid.UUID, userType enums.UserType, req AddItemsRequest) (*CartDTO, error)
	Get(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
	DeleteItems(ctx context.Context, userID uuid.UUID, req DeleteItemsRequest) (int64, error)
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs a cart service.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client is required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

// AddItems upserts the requested lines into the caller's cart. A line already
// holding the product anywhere has its quantity overwritten and is re-bound to
// this cart. The cart itself is created lazily.
func (s *service) AddItems(ctx context.Context, userID uuid.UUID, userType enums.UserType, req AddItemsRequest) (*CartDTO, error) {
	if !userType.IsCustomer() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only customers can shop")
	}
	if len(req.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one item is required")
	}
	for _, item := range req.Items {
		if item.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
		}
	}

	var cartID uuid.UUID
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		cart, err := s.ensureCart(ctx, txRepo, userID)
		if err != nil {
			return err
		}
		cartID = cart.ID

		for _, input := range req.Items {
			products, err := txRepo.FindProducts(ctx, []uuid.UUID{input.ProductID})
			if err != nil {
				return err
			}
			if len(products) == 0 {
				return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %s not found", input.ProductID))
			}

			existing, err := txRepo.FindItemByProduct(ctx, input.ProductID)
			switch {
			case err == nil:
				if err := txRepo.UpdateItem(ctx, existing.ID, cart.ID, input.Quantity); err != nil {
					return err
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				if _, err := txRepo.CreateItem(ctx, &models.CartItem{
					CartID:    cart.ID,
					ProductID: input.ProductID,
					Quantity:  input.Quantity,
				}); err != nil {
					return err
				}
			default:
				return err
			}
		}
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add cart items")
	}

	return s.buildCartDTO(ctx, cartID, userID)
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	cart, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	return s.buildCartDTO(ctx, cart.ID, userID)
}

// DeleteItems removes only rows that belong to the caller's cart; foreign ids
// are silently skipped.
func (s *service) DeleteItems(ctx context.Context, userID uuid.UUID, req DeleteItemsRequest) (int64, error) {
	cart, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}

	deleted, err := s.repo.DeleteItems(ctx, cart.ID, req.IDs)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete cart items")
	}
	return deleted, nil
}

func (s *service) ensureCart(ctx context.Context, repo *Repository, userID uuid.UUID) (*models.Cart, error) {
	cart, err := repo.FindByUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	code, err := security.GenerateCode(cartCodeLength)
	if err != nil {
		return nil, err
	}
	return repo.Create(ctx, &models.Cart{
		UserID: userID,
		Code:   code,
		Total:  decimal.Zero,
	})
}

func (s *service) buildCartDTO(ctx context.Context, cartID, userID uuid.UUID) (*CartDTO, error) {
	cart, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	if cart.ID != cartID {
		cartID = cart.ID
	}

	items, err := s.repo.ListItems(ctx, cartID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list cart items")
	}

	productIDs := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		productIDs = append(productIDs, item.ProductID)
	}
	products, err := s.repo.FindProducts(ctx, productIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart products")
	}
	byID := make(map[uuid.UUID]models.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}

	lines := make([]LineDTO, 0, len(items))
	subtotal := decimal.Zero
	for _, item := range items {
		product, ok := byID[item.ProductID]
		if !ok {
			continue
		}
		total := product.LineTotal(item.Quantity)
		subtotal = subtotal.Add(total)
		lines = append(lines, LineDTO{
			ID:        item.ID,
			ProductID: product.ID,
			Name:      product.Name,
			ProductNo: product.ProductNo,
			Price:     product.Price,
			Quantity:  item.Quantity,
			Total:     total,
		})
	}

	return &CartDTO{
		ID:       cart.ID,
		Code:     cart.Code,
		Items:    lines,
		Subtotal: subtotal,
	}, nil
}
