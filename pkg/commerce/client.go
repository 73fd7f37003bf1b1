package commerce

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openshophq/openshop-backend/pkg/config"
	pkgerrors "github.com/openshophq/openshop-backend/pkg/errors"
)

const (
	defaultBaseURL             = "https://api.commerce.coinbase.com"
	apiVersion                 = "2018-03-22"
	chargeTypeFixedPrice       = "fixed_price"
	responseBodyReadLimit int64 = 2048
)

// SignatureHeader carries the hex HMAC digest on webhook deliveries.
const SignatureHeader = "X-CC-Webhook-Signature"

var errAPIKeyRequired = errors.New("commerce api key is required")

// Client talks to the hosted-charge payment provider.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	apiKey        string
	webhookSecret string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured provider base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds the payment provider client from configuration.
func NewClient(cfg config.CommerceConfig, opts ...Option) (*Client, error) {
	trimmedKey := strings.TrimSpace(cfg.APIKey)
	if trimmedKey == "" {
		return nil, errAPIKeyRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	client := &Client{
		apiKey:        trimmedKey,
		webhookSecret: strings.TrimSpace(cfg.WebhookSecret),
		baseURL:       defaultBaseURL,
		httpClient:    &http.Client{Timeout: timeout},
	}
	if trimmed := strings.TrimSpace(cfg.BaseURL); trimmed != "" {
		client.baseURL = trimmed
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// ChargeRequest describes the hosted charge we ask the provider to create.
type ChargeRequest struct {
	Name        string
	Description string
	OrderCode   string
	Amount      decimal.Decimal
	Currency    string
}

// Money is a provider amount/currency pair.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// Charge is the normalized provider response for a created charge.
type Charge struct {
	ID            string            `json:"id"`
	Code          string            `json:"code"`
	HostedURL     string            `json:"hosted_url"`
	ExpiresAt     time.Time         `json:"expires_at"`
	PricingLocal  Money             `json:"pricing_local"`
	ExchangeRates map[string]string `json:"exchange_rates"`
	Addresses     map[string]string `json:"addresses"`
}

// CreateCharge creates a fixed-price hosted charge with the provider.
func (c *Client) CreateCharge(ctx context.Context, req ChargeRequest) (*Charge, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "payment provider client not configured")
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "charge amount must be positive")
	}
	currency := strings.TrimSpace(req.Currency)
	if currency == "" {
		currency = "USD"
	}

	payload, err := json.Marshal(map[string]any{
		"name":         req.Name,
		"description":  req.Description,
		"pricing_type": chargeTypeFixedPrice,
		"local_price": map[string]string{
			"amount":   req.Amount.StringFixed(2),
			"currency": currency,
		},
		"metadata": map[string]string{
			"order_code": req.OrderCode,
		},
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePaymentProvider, err, "marshal charge request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.buildURL("charges"), bytes.NewReader(payload))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePaymentProvider, err, "build charge request")
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-CC-Api-Key", c.apiKey)
	httpReq.Header.Set("X-CC-Version", apiVersion)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePaymentProvider, err, "execute charge request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodePaymentProvider, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "charge request failed")
	}

	var apiResp struct {
		Data struct {
			ID        string `json:"id"`
			Code      string `json:"code"`
			HostedURL string `json:"hosted_url"`
			ExpiresAt string `json:"expires_at"`
			Pricing   struct {
				Local struct {
					Amount   string `json:"amount"`
					Currency string `json:"currency"`
				} `json:"local"`
			} `json:"pricing"`
			ExchangeRates map[string]string `json:"exchange_rates"`
			Addresses     map[string]string `json:"addresses"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePaymentProvider, err, "decode charge response")
	}
	if apiResp.Data.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodePaymentProvider, "charge response missing id")
	}

	localAmount, err := decimal.NewFromString(apiResp.Data.Pricing.Local.Amount)
	if err != nil {
		localAmount = req.Amount
	}

	expiresAt, err := time.Parse(time.RFC3339, apiResp.Data.ExpiresAt)
	if err != nil {
		expiresAt = time.Time{}
	}

	return &Charge{
		ID:        apiResp.Data.ID,
		Code:      apiResp.Data.Code,
		HostedURL: apiResp.Data.HostedURL,
		ExpiresAt: expiresAt,
		PricingLocal: Money{
			Amount:   localAmount,
			Currency: apiResp.Data.Pricing.Local.Currency,
		},
		ExchangeRates: apiResp.Data.ExchangeRates,
		Addresses:     apiResp.Data.Addresses,
	}, nil
}

// VerifySignature checks the webhook HMAC digest against the raw body.
// A missing secret fails closed.
func (c *Client) VerifySignature(body []byte, signature string) bool {
	if c == nil {
		return false
	}
	return VerifySignature(c.webhookSecret, body, signature)
}

// SignBody returns the hex HMAC-SHA256 digest of body under secret.
func SignBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature compares the hex HMAC-SHA256 of body under secret with the
// provided signature in constant time.
func VerifySignature(secret string, body []byte, signature string) bool {
	trimmedSecret := strings.TrimSpace(secret)
	trimmedSig := strings.TrimSpace(signature)
	if trimmedSecret == "" || trimmedSig == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(trimmedSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(strings.ToLower(trimmedSig)))
}

func (c *Client) buildURL(path string) string {
	trimmed := strings.TrimRight(c.baseURL, "/")
	path = strings.TrimLeft(path, "/")
	return fmt.Sprintf("%s/%s", trimmed, path)
}
