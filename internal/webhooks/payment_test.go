package webhooks

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/openshophq/openshop-backend/pkg/commerce"
	pkgerrors "github.com/openshophq/openshop-backend/pkg/errors"
	"github.com/openshophq/openshop-backend/pkg/logger"
)

const webhookSecret = "whsec-test"

type secretVerifier struct{}

func (secretVerifier) VerifySignature(body []byte, signature string) bool {
	return commerce.VerifySignature(webhookSecret, body, signature)
}

type memoryStore struct {
	seen map[string]bool
	err  error
}

func (m *memoryStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	if m.seen == nil {
		m.seen = map[string]bool{}
	}
	if m.seen[key] {
		return false, nil
	}
	m.seen[key] = true
	return true, nil
}

func (m *memoryStore) IdempotencyKey(scope, id string) string {
	return "test:" + scope + ":" + id
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func newTestPaymentService(t *testing.T, store *memoryStore) *PaymentService {
	t.Helper()
	svc, err := NewPaymentService(secretVerifier{}, store, testLogger(), nil)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func sign(body []byte) string {
	return commerce.SignBody(webhookSecret, body)
}

func TestProcessRejectsBadSignature(t *testing.T) {
	svc := newTestPaymentService(t, &memoryStore{})

	body := []byte(`{"event":{"id":"evt-1","type":"charge:confirmed"}}`)
	_, err := svc.Process(context.Background(), body, "deadbeef")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeInvalidSignature {
		t.Fatalf("expected invalid signature, got %v", err)
	}
}

func TestProcessMissingSignatureFailsClosed(t *testing.T) {
	svc := newTestPaymentService(t, &memoryStore{})

	body := []byte(`{"event":{"id":"evt-1","type":"charge:confirmed"}}`)
	_, err := svc.Process(context.Background(), body, "")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeInvalidSignature {
		t.Fatalf("expected invalid signature for missing header, got %v", err)
	}
}

func TestProcessChargeConfirmedIsNoOp(t *testing.T) {
	svc := newTestPaymentService(t, &memoryStore{})

	body := []byte(`{"event":{"id":"evt-1","type":"charge:confirmed","data":{}}}`)
	outcome, err := svc.Process(context.Background(), body, sign(body))
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if outcome != OutcomeProcessed {
		t.Fatalf("expected processed outcome, got %s", outcome)
	}
}

func TestProcessOtherEventsAcknowledged(t *testing.T) {
	svc := newTestPaymentService(t, &memoryStore{})

	body := []byte(`{"event":{"id":"evt-2","type":"charge:pending","data":{}}}`)
	outcome, err := svc.Process(context.Background(), body, sign(body))
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if outcome != OutcomeIgnored {
		t.Fatalf("expected ignored outcome, got %s", outcome)
	}
}

func TestProcessDuplicateEventIdempotent(t *testing.T) {
	store := &memoryStore{}
	svc := newTestPaymentService(t, store)

	body := []byte(`{"event":{"id":"evt-3","type":"charge:confirmed","data":{}}}`)
	if _, err := svc.Process(context.Background(), body, sign(body)); err != nil {
		t.Fatalf("first delivery: %v", err)
	}

	outcome, err := svc.Process(context.Background(), body, sign(body))
	if err != nil {
		t.Fatalf("second delivery: %v", err)
	}
	if outcome != OutcomeDuplicate {
		t.Fatalf("expected duplicate outcome, got %s", outcome)
	}
}

func TestProcessMissingEventIDRejected(t *testing.T) {
	svc := newTestPaymentService(t, &memoryStore{})

	body := []byte(`{"event":{"type":"charge:confirmed"}}`)
	_, err := svc.Process(context.Background(), body, sign(body))
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
