package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/KuzscoTech/maas-management/internal/log"
)

// DefaultTimeout is the request timeout applied when none is configured.
const DefaultTimeout = 30 * time.Second

// Reauthorizer recovers from an authentication failure on an outbound request.
//
// When an authenticated request receives a 401, the client asks the
// Reauthorizer for a replacement access token and retries the request once.
// Implementations must coalesce concurrent calls so that a burst of failing
// requests produces at most one refresh against the platform.
type Reauthorizer interface {
	// Reauthorize returns a fresh access token, or ok=false when the session
	// could not be recovered. On ok=false the caller surfaces the original
	// authentication error unchanged.
	Reauthorize(ctx context.Context) (token string, ok bool)
}

// Client is the MAAS platform API client.
//
// The zero value is not usable; construct with NewClient. All methods are
// safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger

	mu     sync.RWMutex
	token  string
	reauth Reauthorizer
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client. Used by tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new platform API client for the given base URL.
// The base URL is the platform root, e.g. "http://localhost:8000"; all
// requests go to paths under /api/v1.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured platform base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetToken registers the access token attached to subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// ClearToken removes the access token from subsequent requests.
func (c *Client) ClearToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
}

// Token returns the access token currently attached to requests.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetReauthorizer installs the recovery hook consulted on 401 responses.
func (c *Client) SetReauthorizer(r Reauthorizer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reauth = r
}

func (c *Client) reauthorizer() Reauthorizer {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.reauth
}

// ErrorResponse represents an API error response body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

// APIError is an error returned by the platform API.
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// IsAuthError reports whether the error is an authentication failure.
func (e *APIError) IsAuthError() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// do performs a JSON API request and decodes the response into target.
//
// When authRetry is true and the response is a 401, the installed
// Reauthorizer is consulted and the request is re-issued exactly once with
// the replacement token. A 401 on the retried request, or any non-auth
// failure, is surfaced to the caller as-is. The auth primitives themselves
// (login, refresh, logout) call with authRetry=false so a rejected refresh
// can never trigger a second, nested recovery.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, target any, authRetry bool) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	resp, err := c.send(ctx, method, path, query, payload, c.Token())
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized && authRetry {
		authErr := readError(resp)

		reauth := c.reauthorizer()
		if reauth == nil {
			return authErr
		}

		c.logger.Debug("request unauthorized, attempting recovery", "method", method, "path", path)

		token, ok := reauth.Reauthorize(ctx)
		if !ok {
			// Session is gone; the caller sees the original auth error.
			return authErr
		}

		resp, err = c.send(ctx, method, path, query, payload, token)
		if err != nil {
			return err
		}
	}

	return parseResponse(resp, target)
}

// send issues a single HTTP request attempt.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, payload []byte, token string) (*http.Response, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/api/v1"+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if query != nil {
		req.URL.RawQuery = query.Encode()
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to perform request: %w", err)
	}

	return resp, nil
}

// readError drains and closes the response body and builds an APIError.
func readError(resp *http.Response) *APIError {
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	apiErr := &APIError{StatusCode: resp.StatusCode}

	// Prefer the server-provided message over the raw body.
	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil {
		switch {
		case errResp.Message != "":
			apiErr.Message = errResp.Message
		case errResp.Error != "":
			apiErr.Message = errResp.Error
		case errResp.Detail != "":
			apiErr.Message = errResp.Detail
		}
	}
	if apiErr.Message == "" && len(body) > 0 {
		apiErr.Message = fmt.Sprintf("request failed with status %d: %s", resp.StatusCode, string(body))
	}

	return apiErr
}

// parseResponse parses the response body into the target struct.
func parseResponse(resp *http.Response, target any) error {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return readError(resp)
	}

	defer resp.Body.Close()

	if target != nil {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
