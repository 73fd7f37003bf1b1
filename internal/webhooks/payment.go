package webhooks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/openshophq/openshop-backend/pkg/errors"
	"github.com/openshophq/openshop-backend/pkg/logger"
	"github.com/openshophq/openshop-backend/pkg/metrics"
)

const (
	eventChargeConfirmed = "charge:confirmed"
	idempotencyScope     = "payment_event"
	idempotencyTTL       = 24 * time.Hour
)

// PaymentEvent is the envelope delivered by the payment provider.
type PaymentEvent struct {
	ID    string `json:"id"`
	Event struct {
		ID   string          `json:"id"`
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	} `json:"event"`
}

// Outcome describes how an event was handled, for logging and metrics.
type Outcome string

const (
	OutcomeProcessed Outcome = "processed"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeIgnored   Outcome = "ignored"
)

type signatureVerifier interface {
	VerifySignature(body []byte, signature string) bool
}

type idempotencyStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	IdempotencyKey(scope, id string) string
}

// PaymentService verifies and dispatches provider webhook deliveries.
type PaymentService struct {
	verifier signatureVerifier
	store    idempotencyStore
	logg     *logger.Logger
	metrics  *metrics.WebhookMetrics
}

// NewPaymentService constructs the webhook processor. The metrics collector
// is optional.
func NewPaymentService(verifier signatureVerifier, store idempotencyStore, logg *logger.Logger, m *metrics.WebhookMetrics) (*PaymentService, error) {
	if verifier == nil {
		return nil, fmt.Errorf("signature verifier is required")
	}
	if store == nil {
		return nil, fmt.Errorf("idempotency store is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &PaymentService{verifier: verifier, store: store, logg: logg, metrics: m}, nil
}

// Process validates the delivery and routes it by event type. Verification
// fails closed; an unverifiable delivery is never parsed.
func (s *PaymentService) Process(ctx context.Context, body []byte, signature string) (Outcome, error) {
	if !s.verifier.VerifySignature(body, signature) {
		return "", errors.New(errors.CodeInvalidSignature, "webhook signature verification failed")
	}

	var event PaymentEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return "", errors.Wrap(errors.CodeValidation, err, "malformed webhook payload")
	}
	eventID := event.Event.ID
	if eventID == "" {
		eventID = event.ID
	}
	if eventID == "" {
		return "", errors.New(errors.CodeValidation, "webhook payload missing event id")
	}

	fresh, err := s.store.SetNX(ctx, s.store.IdempotencyKey(idempotencyScope, eventID), 1, idempotencyTTL)
	if err != nil {
		return "", errors.Wrap(errors.CodeDependency, err, "idempotency check")
	}
	if !fresh {
		s.record(event.Event.Type, OutcomeDuplicate)
		s.logg.Info(ctx, fmt.Sprintf("duplicate payment event %s ignored", eventID))
		return OutcomeDuplicate, nil
	}

	switch event.Event.Type {
	case eventChargeConfirmed:
		s.handleChargeConfirmed(ctx, event)
		s.record(event.Event.Type, OutcomeProcessed)
		return OutcomeProcessed, nil
	default:
		s.record(event.Event.Type, OutcomeIgnored)
		s.logg.Info(ctx, fmt.Sprintf("payment event type %q acknowledged without action", event.Event.Type))
		return OutcomeIgnored, nil
	}
}

// handleChargeConfirmed is intentionally a no-op status hook; confirmation
// does not mutate order state yet.
func (s *PaymentService) handleChargeConfirmed(ctx context.Context, event PaymentEvent) {
	s.logg.Info(ctx, fmt.Sprintf("charge confirmed for event %s", event.Event.ID))
}

func (s *PaymentService) record(eventType string, outcome Outcome) {
	if s.metrics == nil {
		return
	}
	if eventType == "" {
		eventType = "unknown"
	}
	s.metrics.EventsTotal.WithLabelValues(eventType, string(outcome)).Inc()
}
