package coupons

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openshophq/openshop-backend/internal/assets"
	"github.com/openshophq/openshop-backend/pkg/db"
	"github.com/openshophq/openshop-backend/pkg/db/models"
	"github.com/openshophq/openshop-backend/pkg/enums"
	pkgerrors "github.com/openshophq/openshop-backend/pkg/errors"
	"github.com/openshophq/openshop-backend/pkg/imagehost"
	"github.com/openshophq/openshop-backend/pkg/security"
)

const (
	couponCodeLength    = 8
	defaultNumAvailable = 5
)

// Service exposes coupon management operations.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, userType enums.UserType, businessID uuid.UUID, req CreateCouponRequest) (*CouponDTO, error)
	ListByBusiness(ctx context.Context, userID uuid.UUID, userType enums.UserType, businessID uuid.UUID) ([]CouponDTO, error)
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
	qr         assets.QRGenerator
	uploader   imageUploader
}

// NewService constructs a coupon service.
func NewService(repo *Repository, dbClient *db.Client, businesses businessLoader, qr assets.QRGenerator, uploader imageUploader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("coupon repository is required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client is required")
	}
	if businesses == nil {
		return nil, fmt.Errorf("business repository is required")
	}
	if qr == nil {
		return nil, fmt.Errorf("qr generator is required")
	}
	if uploader == nil {
		return nil, fmt.Errorf("image uploader is required")
	}
	return &service{repo: repo, dbClient: dbClient, businesses: businesses, qr: qr, uploader: uploader}, nil
}

// Create persists the coupon and its rendered QR image in one transaction; a
// failed render or upload rolls the coupon back.
func (s *service) Create(ctx context.Context, userID uuid.UUID, userType enums.UserType, businessID uuid.UUID, req CreateCouponRequest) (*CouponDTO, error) {
	if _, err := s.loadOwnedBusiness(ctx, userID, userType, businessID); err != nil {
		return nil, err
	}

	code, err := security.GenerateCode(couponCodeLength)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate coupon code")
	}

	numAvailable := req.NumAvailable
	if numAvailable <= 0 {
		numAvailable = defaultNumAvailable
	}

	var created *models.Coupon
	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		coupon, txErr := txRepo.Create(ctx, &models.Coupon{
			BusinessID:   businessID,
			Code:         code,
			Description:  strings.TrimSpace(req.Description),
			Value:        req.Value,
			Active:       true,
			NumAvailable: numAvailable,
		})
		if txErr != nil {
			return txErr
		}

		png, txErr := s.qr.GeneratePNG(code, assets.DefaultQRSize)
		if txErr != nil {
			return txErr
		}

		uploaded, txErr := s.uploader.UploadImage(ctx, fmt.Sprintf("coupons/%s", coupon.ID), bytes.NewReader(png))
		if txErr != nil {
			return txErr
		}

		if txErr := txRepo.UpdateQRImageURL(ctx, coupon.ID, uploaded.SecureURL); txErr != nil {
			return txErr
		}
		coupon.QRImageURL = &uploaded.SecureURL
		created = coupon
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create coupon")
	}
	return FromModel(created), nil
}

func (s *service) ListByBusiness(ctx context.Context, userID uuid.UUID, userType enums.UserType, businessID uuid.UUID) ([]CouponDTO, error) {
	if _, err := s.loadOwnedBusiness(ctx, userID, userType, businessID); err != nil {
		return nil, err
	}

	items, err := s.repo.ListByBusiness(ctx, businessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list coupons")
	}
	return FromModels(items), nil
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
