package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openshophq/openshop-backend/internal/cart"
	"github.com/openshophq/openshop-backend/pkg/commerce"
	"github.com/openshophq/openshop-backend/pkg/enums"
	pkgerrors "github.com/openshophq/openshop-backend/pkg/errors"
)

// LineMarkup is the fixed per-line surcharge added on top of the item totals.
var LineMarkup = decimal.NewFromInt(50)

const chargeCurrency = "USD"

// CheckoutResponse mirrors the provider charge a client needs to complete payment.
type CheckoutResponse struct {
	ChargeID      string            `json:"charge_id"`
	Code          string            `json:"code"`
	HostedURL     string            `json:"hosted_url"`
	Total         decimal.Decimal   `json:"total"`
	Currency      string            `json:"currency"`
	ExchangeRates map[string]string `json:"exchange_rates"`
	Addresses     map[string]string `json:"addresses"`
	ExpiresAt     time.Time         `json:"expires_at"`
}

// Service exposes the checkout operation.
type Service interface {
	Checkout(ctx context.Context, userID uuid.UUID, userType enums.UserType) (*CheckoutResponse, error)
}

type cartReader interface {
	Get(ctx context.Context, userID uuid.UUID) (*cart.CartDTO, error)
}

type chargeCreator interface {
	CreateCharge(ctx context.Context, req commerce.ChargeRequest) (*commerce.Charge, error)
}

type service struct {
	carts    cartReader
	provider chargeCreator
}

// NewService constructs a checkout service.
func NewService(carts cartReader, provider chargeCreator) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart service is required")
	}
	if provider == nil {
		return nil, fmt.Errorf("payment provider client is required")
	}
	return &service{carts: carts, provider: provider}, nil
}

// Checkout totals the caller's cart, adds the fixed markup per line, and
// creates a hosted charge with the provider. Provider failures surface
// immediately; nothing is retried and no payment row is written here.
func (s *service) Checkout(ctx context.Context, userID uuid.UUID, userType enums.UserType) (*CheckoutResponse, error) {
	if !userType.IsCustomer() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only customers can check out")
	}

	cartDTO, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cartDTO.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart is empty")
	}

	total := Total(cartDTO)

	charge, err := s.provider.CreateCharge(ctx, commerce.ChargeRequest{
		Name:        fmt.Sprintf("Order %s", cartDTO.Code),
		Description: fmt.Sprintf("%d item(s)", len(cartDTO.Items)),
		OrderCode:   cartDTO.Code,
		Amount:      total,
		Currency:    chargeCurrency,
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeValidation {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodePaymentProvider, err, "create charge")
	}

	return &CheckoutResponse{
		ChargeID:      charge.ID,
		Code:          charge.Code,
		HostedURL:     charge.HostedURL,
		Total:         total,
		Currency:      chargeCurrency,
		ExchangeRates: charge.ExchangeRates,
		Addresses:     charge.Addresses,
		ExpiresAt:     charge.ExpiresAt,
	}, nil
}

// Total is the item subtotal plus the fixed markup for every line.
func Total(cartDTO *cart.CartDTO) decimal.Decimal {
	markup := LineMarkup.Mul(decimal.NewFromInt(int64(len(cartDTO.Items))))
	return cartDTO.Subtotal.Add(markup)
}
