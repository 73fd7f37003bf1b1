package businesses

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openshophq/openshop-backend/pkg/db/models"
	"github.com/openshophq/openshop-backend/pkg/enums"
	pkgerrors "github.com/openshophq/openshop-backend/pkg/errors"
)

func newTestService(t *testing.T, repo *stubRepo) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func TestCreateEnforcesOwnerQuota(t *testing.T) {
	ownerID := uuid.New()
	repo := &stubRepo{ownerCount: MaxBusinessesPerOwner}
	svc := newTestService(t, repo)

	_, err := svc.Create(context.Background(), ownerID, enums.UserTypeShopOwner, CreateBusinessRequest{Name: "Fourth Shop"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeQuotaExceeded {
		t.Fatalf("expected quota exceeded, got %v", err)
	}

	repo.ownerCount = MaxBusinessesPerOwner - 1
	dto, err := svc.Create(context.Background(), ownerID, enums.UserTypeShopOwner, CreateBusinessRequest{Name: "Third Shop"})
	if err != nil {
		t.Fatalf("create under quota: %v", err)
	}
	if dto.Name != "Third Shop" {
		t.Fatalf("expected name in response, got %s", dto.Name)
	}
}

func TestCreateForbidsCustomers(t *testing.T) {
	svc := newTestService(t, &stubRepo{})

	_, err := svc.Create(context.Background(), uuid.New(), enums.UserTypeCustomer, CreateBusinessRequest{Name: "Nope"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestDeleteRequiresMatchingPasscode(t *testing.T) {
	ownerID := uuid.New()
	business := &models.Business{ID: uuid.New(), OwnerID: ownerID, Name: "Mama Nkechi Stores"}
	repo := &stubRepo{business: business}
	svc := newTestService(t, repo)

	err := svc.Delete(context.Background(), ownerID, enums.UserTypeShopOwner, business.ID, "wrong name")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeInvalidPasscode {
		t.Fatalf("expected invalid passcode, got %v", err)
	}

	// Passcode comparison ignores case.
	if err := svc.Delete(context.Background(), ownerID, enums.UserTypeShopOwner, business.ID, "mama nkechi stores"); err != nil {
		t.Fatalf("delete with case-insensitive passcode: %v", err)
	}
	if !repo.deleted {
		t.Fatalf("expected delete to reach the repo")
	}
}

func TestDeleteBlockedByCatalogRows(t *testing.T) {
	ownerID := uuid.New()
	business := &models.Business{ID: uuid.New(), OwnerID: ownerID, Name: "Shop"}
	repo := &stubRepo{business: business, productCount: 2}
	svc := newTestService(t, repo)

	err := svc.Delete(context.Background(), ownerID, enums.UserTypeShopOwner, business.ID, "shop")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict while products exist, got %v", err)
	}
	if repo.deleted {
		t.Fatalf("delete must not run while products exist")
	}

	repo.productCount = 0
	repo.couponCount = 1
	err = svc.Delete(context.Background(), ownerID, enums.UserTypeShopOwner, business.ID, "shop")
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict while coupons exist, got %v", err)
	}
}

// Catalog rows inserted between the pre-delete counts and the delete itself
// trip the RESTRICT foreign key instead of cascading away.
func TestDeleteForeignKeyViolationConflicts(t *testing.T) {
	ownerID := uuid.New()
	business := &models.Business{ID: uuid.New(), OwnerID: ownerID, Name: "Shop"}
	repo := &stubRepo{
		business:  business,
		deleteErr: errors.New(`update or delete on table "businesses" violates foreign key constraint "products_business_id_fkey" on table "products"`),
	}
	svc := newTestService(t, repo)

	err := svc.Delete(context.Background(), ownerID, enums.UserTypeShopOwner, business.ID, "shop")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict from restricted delete, got %v", err)
	}
}

func TestUpdateForbidsForeignOwner(t *testing.T) {
	business := &models.Business{ID: uuid.New(), OwnerID: uuid.New(), Name: "Shop"}
	svc := newTestService(t, &stubRepo{business: business})

	name := "Hijacked"
	_, err := svc.Update(context.Background(), uuid.New(), enums.UserTypeShopOwner, business.ID, UpdateBusinessRequest{Name: &name})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestUpdateAdminBypassesOwnership(t *testing.T) {
	business := &models.Business{ID: uuid.New(), OwnerID: uuid.New(), Name: "Shop"}
	svc := newTestService(t, &stubRepo{business: business})

	name := "Renamed"
	dto, err := svc.Update(context.Background(), uuid.New(), enums.UserTypeAdmin, business.ID, UpdateBusinessRequest{Name: &name})
	if err != nil {
		t.Fatalf("admin update: %v", err)
	}
	if dto.Name != "Renamed" {
		t.Fatalf("expected updated name, got %s", dto.Name)
	}
}

func TestListScopesByRole(t *testing.T) {
	ownerID := uuid.New()
	repo := &stubRepo{
		owned: []models.Business{{ID: uuid.New(), OwnerID: ownerID, Name: "Mine"}},
		all: []models.Business{
			{ID: uuid.New(), Name: "One"},
			{ID: uuid.New(), Name: "Two"},
		},
	}
	svc := newTestService(t, repo)

	mine, err := svc.List(context.Background(), ownerID, enums.UserTypeShopOwner)
	if err != nil {
		t.Fatalf("owner list: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("expected 1 owned business, got %d", len(mine))
	}

	everything, err := svc.List(context.Background(), uuid.New(), enums.UserTypeAdmin)
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if len(everything) != 2 {
		t.Fatalf("expected all businesses for admin, got %d", len(everything))
	}

	_, err = svc.List(context.Background(), uuid.New(), enums.UserTypeCustomer)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for customer, got %v", err)
	}
}

func TestFavoriteRules(t *testing.T) {
	ownerID := uuid.New()
	business := &models.Business{ID: uuid.New(), OwnerID: ownerID, Name: "Shop"}
	repo := &stubRepo{business: business}
	svc := newTestService(t, repo)

	// Owners cannot favorite their own shop.
	err := svc.Favorite(context.Background(), ownerID, enums.UserTypeCustomer, business.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for own business, got %v", err)
	}

	customerID := uuid.New()
	if err := svc.Favorite(context.Background(), customerID, enums.UserTypeCustomer, business.ID); err != nil {
		t.Fatalf("favorite: %v", err)
	}

	repo.favoriteErr = errDuplicateKey{}
	err = svc.Favorite(context.Background(), customerID, enums.UserTypeCustomer, business.ID)
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict on duplicate favorite, got %v", err)
	}

	// Unfavorite with no row is a success no-op.
	if err := svc.Unfavorite(context.Background(), uuid.New(), business.ID); err != nil {
		t.Fatalf("unfavorite missing row: %v", err)
	}
}

type errDuplicateKey struct{}

func (errDuplicateKey) Error() string {
	return `duplicate key value violates unique constraint "uniq_business_favorite"`
}

type stubRepo struct {
	business     *models.Business
	owned        []models.Business
	all          []models.Business
	ownerCount   int64
	productCount int64
	couponCount  int64
	favoriteErr  error
	deleteErr    error
	deleted      bool
}

func (s *stubRepo) Create(ctx context.Context, business *models.Business) (*models.Business, error) {
	business.ID = uuid.New()
	return business, nil
}

func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Business, error) {
	if s.business == nil || s.business.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.business, nil
}

func (s *stubRepo) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	return s.ownerCount, nil
}

func (s *stubRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Business, error) {
	return s.owned, nil
}

func (s *stubRepo) ListAll(ctx context.Context) ([]models.Business, error) {
	return s.all, nil
}

func (s *stubRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Business, error) {
	if s.business == nil || s.business.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	if name, ok := updates["name"].(string); ok {
		s.business.Name = name
	}
	return s.business, nil
}

func (s *stubRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = true
	return nil
}

func (s *stubRepo) CountProducts(ctx context.Context, businessID uuid.UUID) (int64, error) {
	return s.productCount, nil
}

func (s *stubRepo) CountCoupons(ctx context.Context, businessID uuid.UUID) (int64, error) {
	return s.couponCount, nil
}

func (s *stubRepo) CreateFavorite(ctx context.Context, businessID, userID uuid.UUID) error {
	return s.favoriteErr
}

func (s *stubRepo) DeleteFavorite(ctx context.Context, businessID, userID uuid.UUID) (bool, error) {
	return false, nil
}
