package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"vms-chat-relay/internal/domain"
)

const (
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultTimeout = 30 * time.Second

	maxResponseBytes = 1 << 20
)

// SecretGetter resolves a named credential, e.g. paramstore.Client.
type SecretGetter interface {
	GetSecret(ctx context.Context, name string) (string, error)
}

// HTTPStatusError captures non-2xx upstream responses.
type HTTPStatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("groq: unexpected status %d from %s: %s", e.StatusCode, e.URL, e.Body)
}

func (e *HTTPStatusError) HTTPStatusCode() int {
	return e.StatusCode
}

// UpstreamBody returns the raw upstream response text.
func (e *HTTPStatusError) UpstreamBody() string {
	return e.Body
}

// ErrNoAPIKey is returned when neither a static key nor a secret source is set.
var ErrNoAPIKey = errors.New("groq: API key is not configured")

// Client is a focused client for Groq's OpenAI-compatible chat completions.
type Client struct {
	baseURL    string
	httpClient *http.Client

	staticKey  string
	secrets    SecretGetter
	secretName string

	keyMu     sync.RWMutex
	cachedKey string
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSpace(baseURL)
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout bounds every upstream call. Ignored when d <= 0.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient = &http.Client{Timeout: d}
		}
	}
}

// WithAPIKey sets the bearer credential directly. It takes precedence over
// WithSecretSource.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.staticKey = strings.TrimSpace(key)
	}
}

// WithSecretSource loads the bearer credential from getter on first use.
func WithSecretSource(getter SecretGetter, name string) Option {
	return func(c *Client) {
		c.secrets = getter
		c.secretName = strings.TrimSpace(name)
	}
}

func NewClient(opts ...Option) (*Client, error) {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.secrets != nil && c.secretName == "" {
		return nil, errors.New("groq: secret name must not be empty")
	}
	return c, nil
}

// resolveAPIKey returns the static key, or fetches it from the secret source
// once and caches it. A failed fetch is not cached.
func (c *Client) resolveAPIKey(ctx context.Context) (string, error) {
	if c.staticKey != "" {
		return c.staticKey, nil
	}
	if c.secrets == nil {
		return "", ErrNoAPIKey
	}

	c.keyMu.RLock()
	key := c.cachedKey
	c.keyMu.RUnlock()
	if key != "" {
		return key, nil
	}

	c.keyMu.Lock()
	defer c.keyMu.Unlock()
	if c.cachedKey != "" {
		return c.cachedKey, nil
	}
	key, err := c.secrets.GetSecret(ctx, c.secretName)
	if err != nil {
		return "", fmt.Errorf("groq: load API key: %w", err)
	}
	c.cachedKey = key
	return key, nil
}

func (c *Client) resolvedHTTPClient() *http.Client {
	if c.httpClient != nil {
		return c.httpClient
	}
	return &http.Client{Timeout: DefaultTimeout}
}

func chatURL(baseURL string) string {
	base := strings.TrimRight(baseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if strings.HasSuffix(base, "/v1") {
		return base + "/chat/completions"
	}
	return base + "/openai/v1/chat/completions"
}

// Complete posts req to the completions endpoint and returns the successful
// response body as compact JSON, unmodified otherwise. Non-2xx responses are
// reported as *HTTPStatusError.
func (c *Client) Complete(ctx context.Context, req domain.CompletionRequest) (json.RawMessage, error) {
	apiKey, err := c.resolveAPIKey(ctx)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("groq: marshal request: %w", err)
	}

	url := chatURL(c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("groq: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)

	res, err := c.resolvedHTTPClient().Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("groq: request failed: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("groq: read response body: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &HTTPStatusError{
			StatusCode: res.StatusCode,
			URL:        url,
			Body:       string(raw),
		}
	}

	var out bytes.Buffer
	if err := json.Compact(&out, raw); err != nil {
		return nil, fmt.Errorf("groq: decode response: %w", err)
	}
	return out.Bytes(), nil
}
