package coupons

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/openshophq/openshop-backend/internal/businesses"
	"github.com/openshophq/openshop-backend/pkg/db"
	"github.com/openshophq/openshop-backend/pkg/db/models"
	"github.com/openshophq/openshop-backend/pkg/enums"
	pkgerrors "github.com/openshophq/openshop-backend/pkg/errors"
	"github.com/openshophq/openshop-backend/pkg/imagehost"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.Business{}, &models.Coupon{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

type stubQR struct {
	err error
}

func (s stubQR) GeneratePNG(content string, size int) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []byte("png:" + content), nil
}

type stubUploader struct {
	url string
	err error
}

func (s *stubUploader) UploadImage(ctx context.Context, publicID string, content io.Reader) (*imagehost.UploadResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &imagehost.UploadResult{PublicID: publicID, SecureURL: s.url}, nil
}

func newCouponTestService(t *testing.T, conn *gorm.DB, qr stubQR, uploader *stubUploader) (Service, uuid.UUID, uuid.UUID) {
	t.Helper()

	ownerID := uuid.New()
	business := models.Business{ID: uuid.New(), OwnerID: ownerID, Name: "Coupon Shop", Rating: enums.BusinessRatingLevel1}
	if err := conn.Create(&business).Error; err != nil {
		t.Fatalf("seed business: %v", err)
	}

	svc, err := NewService(NewRepository(conn), db.NewWithConn(conn), businesses.NewRepository(conn), qr, uploader)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc, ownerID, business.ID
}

func TestCreateRendersAndStoresQR(t *testing.T) {
	conn := newTestDB(t)
	svc, ownerID, businessID := newCouponTestService(t, conn, stubQR{}, &stubUploader{url: "https://images.example.com/qr.png"})

	dto, err := svc.Create(context.Background(), ownerID, enums.UserTypeShopOwner, businessID, CreateCouponRequest{
		Description: "10 percent off rice",
		Value:       10,
	})
	if err != nil {
		t.Fatalf("create coupon: %v", err)
	}
	if len(dto.Code) != couponCodeLength {
		t.Fatalf("expected %d-char code, got %q", couponCodeLength, dto.Code)
	}
	if dto.QRImageURL == nil || *dto.QRImageURL == "" {
		t.Fatalf("expected hosted QR url on coupon")
	}
	if dto.NumAvailable != defaultNumAvailable {
		t.Fatalf("expected default availability %d, got %d", defaultNumAvailable, dto.NumAvailable)
	}
	if !dto.Active {
		t.Fatalf("expected coupon to start active")
	}
}

func TestCreateRollsBackWhenUploadFails(t *testing.T) {
	conn := newTestDB(t)
	svc, ownerID, businessID := newCouponTestService(t, conn, stubQR{}, &stubUploader{err: errors.New("image host down")})

	_, err := svc.Create(context.Background(), ownerID, enums.UserTypeShopOwner, businessID, CreateCouponRequest{
		Description: "never persisted",
		Value:       5,
	})
	if err == nil {
		t.Fatalf("expected upload failure to surface")
	}

	var count int64
	if err := conn.Model(&models.Coupon{}).Count(&count).Error; err != nil {
		t.Fatalf("count coupons: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected rollback to remove coupon row, got %d", count)
	}
}

func TestCreateAllowsRepeatedDescriptions(t *testing.T) {
	conn := newTestDB(t)
	svc, ownerID, businessID := newCouponTestService(t, conn, stubQR{}, &stubUploader{url: "https://images.example.com/qr.png"})

	first, err := svc.Create(context.Background(), ownerID, enums.UserTypeShopOwner, businessID, CreateCouponRequest{
		Description: "10 percent off rice",
		Value:       10,
	})
	if err != nil {
		t.Fatalf("first create: %v", err)
	}

	second, err := svc.Create(context.Background(), ownerID, enums.UserTypeShopOwner, businessID, CreateCouponRequest{
		Description: "10 percent off rice",
		Value:       15,
	})
	if err != nil {
		t.Fatalf("second create with same description: %v", err)
	}
	if first.ID == second.ID {
		t.Fatalf("expected two distinct coupons, both got id %s", first.ID)
	}

	var count int64
	if err := conn.Model(&models.Coupon{}).Where("description = ?", "10 percent off rice").Count(&count).Error; err != nil {
		t.Fatalf("count coupons: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected both coupons persisted, got %d", count)
	}
}

func TestCreateForbidsForeignOwner(t *testing.T) {
	conn := newTestDB(t)
	svc, _, businessID := newCouponTestService(t, conn, stubQR{}, &stubUploader{url: "https://images.example.com/qr.png"})

	_, err := svc.Create(context.Background(), uuid.New(), enums.UserTypeShopOwner, businessID, CreateCouponRequest{
		Description: "intruder coupon",
		Value:       10,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestListByBusinessNewestFirst(t *testing.T) {
	conn := newTestDB(t)
	svc, ownerID, businessID := newCouponTestService(t, conn, stubQR{}, &stubUploader{url: "https://images.example.com/qr.png"})

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(context.Background(), ownerID, enums.UserTypeShopOwner, businessID, CreateCouponRequest{
			Description: fmt.Sprintf("deal %d", i),
			Value:       i + 1,
		}); err != nil {
			t.Fatalf("create coupon %d: %v", i, err)
		}
	}

	items, err := svc.ListByBusiness(context.Background(), ownerID, enums.UserTypeShopOwner, businessID)
	if err != nil {
		t.Fatalf("list coupons: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 coupons, got %d", len(items))
	}
}
