package imagehost

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/openshophq/openshop-backend/pkg/config"
	pkgerrors "github.com/openshophq/openshop-backend/pkg/errors"
)

const (
	defaultBaseURL              = "https://api.cloudinary.com/v1_1"
	responseBodyReadLimit int64 = 2048
)

var errCredentialsRequired = errors.New("image host cloud name, api key and secret are required")

// Client uploads media to the hosted image service.
type Client struct {
	httpClient *http.Client
	baseURL    string
	cloudName  string
	apiKey     string
	apiSecret  string
	now        func() time.Time
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

// WithBaseURL overrides the upload API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds the image host client from configuration.
func NewClient(cfg config.ImageHostConfig, opts ...Option) (*Client, error) {
	cloudName := strings.TrimSpace(cfg.CloudName)
	apiKey := strings.TrimSpace(cfg.APIKey)
	apiSecret := strings.TrimSpace(cfg.APISecret)
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, errCredentialsRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    defaultBaseURL,
		cloudName:  cloudName,
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		now:        time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// UploadResult describes a stored image.
type UploadResult struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
}

// UploadImage stores the image bytes under the given public ID and returns its
// hosted URL.
func (c *Client) UploadImage(ctx context.Context, publicID string, content io.Reader) (*UploadResult, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "image host client not configured")
	}
	trimmedID := strings.TrimSpace(publicID)
	if trimmedID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image public ID is required")
	}

	timestamp := strconv.FormatInt(c.now().Unix(), 10)
	params := map[string]string{
		"public_id": trimmedID,
		"timestamp": timestamp,
	}

	body := &strings.Builder{}
	writer := multipart.NewWriter(body)
	for key, value := range params {
		if err := writer.WriteField(key, value); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build upload form")
		}
	}
	if err := writer.WriteField("api_key", c.apiKey); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build upload form")
	}
	if err := writer.WriteField("signature", c.sign(params)); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build upload form")
	}

	filePart, err := writer.CreateFormFile("file", trimmedID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build upload form")
	}
	if _, err := io.Copy(filePart, content); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "copy upload content")
	}
	if err := writer.Close(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "finalize upload form")
	}

	uploadURL := fmt.Sprintf("%s/%s/image/upload", strings.TrimRight(c.baseURL, "/"), c.cloudName)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, strings.NewReader(body.String()))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build upload request")
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute upload request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "upload request failed")
	}

	var result UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode upload response")
	}
	if result.SecureURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "upload response missing secure_url")
	}

	return &result, nil
}

// sign builds the SHA-1 request signature over the sorted parameter string.
func (c *Client) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%s", key, params[key]))
	}

	digest := sha1.Sum([]byte(strings.Join(pairs, "&") + c.apiSecret))
	return hex.EncodeToString(digest[:])
}
