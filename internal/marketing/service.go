package marketing

import (
	"context"
	"fmt"
	"strings"

	pkgerrors "github.com/openshophq/openshop-backend/pkg/errors"
	"github.com/openshophq/openshop-backend/pkg/logger"
)

// SubscribeRequest is the validated mailing list payload.
type SubscribeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// Service acknowledges mailing list changes. Nothing is persisted; delivery
// lives in an external campaign tool.
type Service interface {
	Subscribe(ctx context.Context, req SubscribeRequest) error
	Unsubscribe(ctx context.Context, req SubscribeRequest) error
}

type service struct {
	logg *logger.Logger
}

// NewService constructs the marketing service.
func NewService(logg *logger.Logger) (Service, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{logg: logg}, nil
}

func (s *service) Subscribe(ctx context.Context, req SubscribeRequest) error {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return err
	}
	s.logg.Info(ctx, fmt.Sprintf("marketing subscribe acknowledged for %s", email))
	return nil
}

func (s *service) Unsubscribe(ctx context.Context, req SubscribeRequest) error {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return err
	}
	s.logg.Info(ctx, fmt.Sprintf("marketing unsubscribe acknowledged for %s", email))
	return nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" || !strings.Contains(email, "@") {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "a valid email is required")
	}
	return email, nil
}
