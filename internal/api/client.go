package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "uvote-cli/pkg/errors"
	"uvote-cli/pkg/logger"
)

const (
	headerAuthorization = "Authorization"
	headerContentType   = "Content-Type"
	headerRequestID     = "X-Request-ID"
	contentTypeJSON     = "application/json"
)

// TokenSource yields the bearer credential attached to outgoing requests.
// An empty string means unauthenticated and no header is sent.
type TokenSource interface {
	Token() string
}

// Client is the UVote REST API client. All requests share one base URL,
// one timeout and one token source.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	log        *logger.Logger

	// onAuthExpired runs when an authenticated request comes back 401
	// with an invalid/expired token message.
	onAuthExpired func()
}

// Option configures the client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the single global request timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithOnAuthExpired registers the session-expiry hook
func WithOnAuthExpired(fn func()) Option {
	return func(c *Client) {
		c.onAuthExpired = fn
	}
}

// New creates a new UVote API client
func New(baseURL string, tokens TokenSource, log *logger.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		tokens: tokens,
		log:    log,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// BaseURL returns the configured base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// doRequest performs an HTTP request and converts failures into the
// shared error taxonomy.
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	reqURL := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set(headerRequestID, uuid.NewString())
	if body != nil {
		req.Header.Set(headerContentType, contentTypeJSON)
	}

	authenticated := false
	if token := c.tokens.Token(); token != "" {
		req.Header.Set(headerAuthorization, "Bearer "+token)
		authenticated = true
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.WithError(err).WithFields(map[string]interface{}{
			"method": method,
			"path":   path,
		}).Warn("Request did not reach the server")
		return apperrors.NewConnectivityError("No se pudo conectar con el servidor. Intenta de nuevo.", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.NewConnectivityError("No se pudo leer la respuesta del servidor.", err)
	}

	if resp.StatusCode >= 400 {
		appErr := parseAPIError(resp.StatusCode, respBody)

		c.log.WithFields(map[string]interface{}{
			"method": method,
			"path":   path,
			"status": resp.StatusCode,
			"type":   appErr.Type,
		}).Debug("Request rejected by server")

		if authenticated && isExpiredTokenError(appErr) && c.onAuthExpired != nil {
			c.onAuthExpired()
		}
		return appErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return apperrors.NewServerError("Respuesta inválida del servidor", resp.StatusCode, err)
		}
	}

	c.log.WithFields(map[string]interface{}{
		"method": method,
		"path":   path,
		"status": resp.StatusCode,
	}).Debug("Request completed")

	return nil
}

// get performs a GET request
func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, result)
}

// post performs a POST request
func (c *Client) post(ctx context.Context, path string, body interface{}, result interface{}) error {
	return c.doRequest(ctx, http.MethodPost, path, body, result)
}

// put performs a PUT request
func (c *Client) put(ctx context.Context, path string, body interface{}, result interface{}) error {
	return c.doRequest(ctx, http.MethodPut, path, body, result)
}

// delete performs a DELETE request
func (c *Client) delete(ctx context.Context, path string) error {
	return c.doRequest(ctx, http.MethodDelete, path, nil, nil)
}
