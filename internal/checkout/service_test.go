package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openshophq/openshop-backend/internal/cart"
	"github.com/openshophq/openshop-backend/pkg/commerce"
	"github.com/openshophq/openshop-backend/pkg/enums"
	pkgerrors "github.com/openshophq/openshop-backend/pkg/errors"
)

type stubCarts struct {
	cart *cart.CartDTO
	err  error
}

func (s *stubCarts) Get(ctx context.Context, userID uuid.UUID) (*cart.CartDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.cart, nil
}

type stubProvider struct {
	charge  *commerce.Charge
	err     error
	request commerce.ChargeRequest
}

func (s *stubProvider) CreateCharge(ctx context.Context, req commerce.ChargeRequest) (*commerce.Charge, error) {
	s.request = req
	if s.err != nil {
		return nil, s.err
	}
	return s.charge, nil
}

func twoLineCart() *cart.CartDTO {
	return &cart.CartDTO{
		ID:   uuid.New(),
		Code: "ABC123",
		Items: []cart.LineDTO{
			{ID: uuid.New(), Quantity: 2, Price: decimal.NewFromInt(500), Total: decimal.NewFromInt(1000)},
			{ID: uuid.New(), Quantity: 1, Price: decimal.NewFromInt(300), Total: decimal.NewFromInt(300)},
		},
		Subtotal: decimal.NewFromInt(1300),
	}
}

func TestCheckoutAppliesPerLineMarkup(t *testing.T) {
	provider := &stubProvider{charge: &commerce.Charge{
		ID:        "charge-1",
		Code:      "CODE",
		HostedURL: "https://commerce.example.com/charges/CODE",
		ExpiresAt: time.Now().Add(time.Hour),
		ExchangeRates: map[string]string{
			"BTC-USD": "65000.00",
		},
		Addresses: map[string]string{"bitcoin": "bc1example"},
	}}
	svc, err := NewService(&stubCarts{cart: twoLineCart()}, provider)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	resp, err := svc.Checkout(context.Background(), uuid.New(), enums.UserTypeCustomer)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	// 1300 subtotal plus 50 markup for each of the two lines.
	expected := decimal.NewFromInt(1400)
	if !resp.Total.Equal(expected) {
		t.Fatalf("expected total %s, got %s", expected, resp.Total)
	}
	if !provider.request.Amount.Equal(expected) {
		t.Fatalf("expected charge amount %s, got %s", expected, provider.request.Amount)
	}
	if resp.ChargeID != "charge-1" || resp.HostedURL == "" {
		t.Fatalf("expected provider charge data in response, got %+v", resp)
	}
	if len(resp.ExchangeRates) == 0 || len(resp.Addresses) == 0 {
		t.Fatalf("expected exchange rates and addresses forwarded")
	}
}

func TestCheckoutWithoutCartNotFound(t *testing.T) {
	svc, err := NewService(&stubCarts{err: pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")}, &stubProvider{})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Checkout(context.Background(), uuid.New(), enums.UserTypeCustomer)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCheckoutEmptyCartNotFound(t *testing.T) {
	empty := &cart.CartDTO{ID: uuid.New(), Code: "EMPTY", Items: nil, Subtotal: decimal.Zero}
	svc, err := NewService(&stubCarts{cart: empty}, &stubProvider{})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Checkout(context.Background(), uuid.New(), enums.UserTypeCustomer)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for an empty cart, got %v", err)
	}
}

func TestCheckoutProviderFailureSurfaces(t *testing.T) {
	svc, err := NewService(&stubCarts{cart: twoLineCart()}, &stubProvider{err: errors.New("connection refused")})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Checkout(context.Background(), uuid.New(), enums.UserTypeCustomer)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodePaymentProvider {
		t.Fatalf("expected payment provider error, got %v", err)
	}
}
