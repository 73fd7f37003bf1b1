package controllers

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/openshophq/openshop-backend/internal/webhooks"
	"github.com/openshophq/openshop-backend/pkg/commerce"
	"github.com/openshophq/openshop-backend/pkg/logger"
)

const testWebhookSecret = "whsec-controller"

type secretVerifier struct{}

func (secretVerifier) VerifySignature(body []byte, signature string) bool {
	return commerce.VerifySignature(testWebhookSecret, body, signature)
}

type memoryStore struct {
	seen map[string]bool
}

func (m *memoryStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
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

func newWebhookHandler(t *testing.T) http.HandlerFunc {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := webhooks.NewPaymentService(secretVerifier{}, &memoryStore{}, logg, nil)
	if err != nil {
		t.Fatalf("build webhook service: %v", err)
	}
	return PaymentWebhook(svc, logg)
}

func TestPaymentWebhookAcceptsSignedDelivery(t *testing.T) {
	handler := newWebhookHandler(t)

	body := []byte(`{"event":{"id":"evt-1","type":"charge:confirmed","data":{}}}`)
	req := httptest.NewRequest(http.MethodPost, "/webhook/payment", bytes.NewReader(body))
	req.Header.Set(commerce.SignatureHeader, commerce.SignBody(testWebhookSecret, body))
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", resp.Code, resp.Body.String())
	}
}

func TestPaymentWebhookRejectsBadSignature(t *testing.T) {
	handler := newWebhookHandler(t)

	body := []byte(`{"event":{"id":"evt-1","type":"charge:confirmed","data":{}}}`)
	req := httptest.NewRequest(http.MethodPost, "/webhook/payment", bytes.NewReader(body))
	req.Header.Set(commerce.SignatureHeader, "deadbeef")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if detail := decodeDetail(t, resp); detail == "" {
		t.Fatalf("expected detail message in error body")
	}
}

func TestPaymentWebhookMissingSignatureFailsClosed(t *testing.T) {
	handler := newWebhookHandler(t)

	body := []byte(`{"event":{"id":"evt-1","type":"charge:confirmed","data":{}}}`)
	req := httptest.NewRequest(http.MethodPost, "/webhook/payment", bytes.NewReader(body))
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
