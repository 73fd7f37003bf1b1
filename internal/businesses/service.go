package businesses

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openshophq/openshop-backend/pkg/db"
	"github.com/openshophq/openshop-backend/pkg/db/models"
	"github.com/openshophq/openshop-backend/pkg/enums"
	pkgerrors "github.com/openshophq/openshop-backend/pkg/errors"
)

// MaxBusinessesPerOwner caps how many shops a single owner can register.
const MaxBusinessesPerOwner = 3

// Service exposes business management operations.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, userType enums.UserType, req CreateBusinessRequest) (*BusinessDTO, error)
	Update(ctx context.Context, userID uuid.UUID, userType enums.UserType, businessID uuid.UUID, req UpdateBusinessRequest) (*BusinessDTO, error)
	Delete(ctx context.Context, userID uuid.UUID, userType enums.UserType, businessID uuid.UUID, passcode string) error
	List(ctx context.Context, userID uuid.UUID, userType enums.UserType) ([]BusinessDTO, error)
	Favorite(ctx context.Context, userID uuid.UUID, userType enums.UserType, businessID uuid.UUID) error
	Unfavorite(ctx context.Context, userID uuid.UUID, businessID uuid.UUID) error
}

type repository interface {
	Create(ctx context.Context, business *models.Business) (*models.Business, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Business, error)
	CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Business, error)
	ListAll(ctx context.Context) ([]models.Business, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Business, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountProducts(ctx context.Context, businessID uuid.UUID) (int64, error)
	CountCoupons(ctx context.Context, businessID uuid.UUID) (int64, error)
	CreateFavorite(ctx context.Context, businessID, userID uuid.UUID) error
	DeleteFavorite(ctx context.Context, businessID, userID uuid.UUID) (bool, error)
}

type service struct {
	repo repository
}

// NewService constructs a business service.
func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("business repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, userType enums.UserType, req CreateBusinessRequest) (*BusinessDTO, error) {
	if !userType.CanOwnBusinesses() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only shop owners can register businesses")
	}

	count, err := s.repo.CountByOwner(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count businesses")
	}
	if count >= MaxBusinessesPerOwner {
		return nil, pkgerrors.New(pkgerrors.CodeQuotaExceeded, fmt.Sprintf("owners are limited to %d businesses", MaxBusinessesPerOwner))
	}

	business := &models.Business{
		OwnerID:     userID,
		Name:        strings.TrimSpace(req.Name),
		Phone:       strings.TrimSpace(req.Phone),
		CouponCode:  strings.TrimSpace(req.CouponCode),
		Category:    strings.TrimSpace(req.Category),
		Country:     strings.TrimSpace(req.Country),
		Address:     strings.TrimSpace(req.Address),
		Established: req.Established,
		Rating:      enums.BusinessRatingLevel1,
		Notes:       req.Notes,
	}
	created, err := s.repo.Create(ctx, business)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create business")
	}
	return FromModel(created), nil
}

func (s *service) Update(ctx context.Context, userID uuid.UUID, userType enums.UserType, businessID uuid.UUID, req UpdateBusinessRequest) (*BusinessDTO, error) {
	business, err := s.loadOwned(ctx, userID, userType, businessID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		updates["phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.CouponCode != nil {
		updates["coupon_code"] = strings.TrimSpace(*req.CouponCode)
	}
	if req.Category != nil {
		updates["category"] = strings.TrimSpace(*req.Category)
	}
	if req.Country != nil {
		updates["country"] = strings.TrimSpace(*req.Country)
	}
	if req.Address != nil {
		updates["address"] = strings.TrimSpace(*req.Address)
	}
	if req.Established != nil {
		updates["established"] = *req.Established
	}
	if req.Rating != nil {
		rating, parseErr := enums.ParseBusinessRating(*req.Rating)
		if parseErr != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid rating")
		}
		updates["rating"] = rating
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}

	updated, err := s.repo.Update(ctx, business.ID, updates)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update business")
	}
	return FromModel(updated), nil
}

// Delete removes a business after the caller confirms with the business name
// as passcode. Catalog rows block deletion; favorites cascade.
func (s *service) Delete(ctx context.Context, userID uuid.UUID, userType enums.UserType, businessID uuid.UUID, passcode string) error {
	business, err := s.loadOwned(ctx, userID, userType, businessID)
	if err != nil {
		return err
	}

	if !strings.EqualFold(strings.TrimSpace(passcode), business.Name) {
		return pkgerrors.New(pkgerrors.CodeInvalidPasscode, "passcode does not match the business name")
	}

	products, err := s.repo.CountProducts(ctx, business.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count products")
	}
	coupons, err := s.repo.CountCoupons(ctx, business.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count coupons")
	}
	if products > 0 || coupons > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "business still has products or coupons")
	}

	if err := s.repo.Delete(ctx, business.ID); err != nil {
		if db.IsForeignKeyViolation(err) {
			return pkgerrors.New(pkgerrors.CodeConflict, "business still has products or coupons")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete business")
	}
	return nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, userType enums.UserType) ([]BusinessDTO, error) {
	switch {
	case userType.IsAdmin():
		items, err := s.repo.ListAll(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list businesses")
		}
		return FromModels(items), nil
	case userType.CanOwnBusinesses():
		items, err := s.repo.ListByOwner(ctx, userID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list businesses")
		}
		return FromModels(items), nil
	default:
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "customers cannot list businesses")
	}
}

func (s *service) Favorite(ctx context.Context, userID uuid.UUID, userType enums.UserType, businessID uuid.UUID) error {
	if !userType.IsCustomer() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only customers can favorite businesses")
	}

	business, err := s.repo.FindByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "business not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load business")
	}
	if business.IsOwnedBy(userID) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "cannot favorite your own business")
	}

	if err := s.repo.CreateFavorite(ctx, businessID, userID); err != nil {
		if db.IsUniqueViolation(err) {
			return pkgerrors.New(pkgerrors.CodeConflict, "business already favorited")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create favorite")
	}
	return nil
}

// Unfavorite is a success no-op when no favorite row exists.
func (s *service) Unfavorite(ctx context.Context, userID uuid.UUID, businessID uuid.UUID) error {
	if _, err := s.repo.DeleteFavorite(ctx, businessID, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete favorite")
	}
	return nil
}

func (s *service) loadOwned(ctx context.Context, userID uuid.UUID, userType enums.UserType, businessID uuid.UUID) (*models.Business, error) {
	business, err := s.repo.FindByID(ctx, businessID)
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
