package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/covyhq/covy/internal/client/models"
	"github.com/covyhq/covy/internal/logging"
)

const (
	requestIDHeader   = "X-Request-ID"
	maxResponseBytes  = 10 << 20
	maxRawMessageSize = 100
)

var _ Client = (*HTTPClient)(nil)

type HTTPClient struct {
	baseURL   string
	healthURL string
	http      *http.Client
	logger    logging.Logger
	requestID func() string
}

// NewHTTPClient returns a client for the API rooted at baseURL, e.g.
// "http://localhost:8000/api/v1". An empty healthURL is derived from
// baseURL with DefaultHealthURL.
func NewHTTPClient(baseURL, healthURL string, timeout time.Duration, logger logging.Logger) *HTTPClient {
	if healthURL == "" {
		healthURL = DefaultHealthURL(baseURL)
	}
	return &HTTPClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		healthURL: healthURL,
		http:      &http.Client{Timeout: timeout},
		logger:    logger.With("component", "api"),
		requestID: uuid.NewString,
	}
}

// DefaultHealthURL is the /health endpoint at the root of baseURL's host.
func DefaultHealthURL(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return strings.TrimRight(baseURL, "/") + "/health"
	}
	return (&url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/health"}).String()
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// Request sends body (if non-nil) as JSON to endpoint and returns the raw
// JSON response. A 204 or an empty body yields (nil, nil).
func (c *HTTPClient) Request(ctx context.Context, method, endpoint string, body any) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, endpoint, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, endpoint, err)
	}
	rid := c.requestID()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, rid)

	resp, err := c.http.Do(req)
	if err != nil {
		terr := &TransportError{Method: method, Path: endpoint, Err: err}
		c.logger.Error(ctx, "API request failed", "method", method, "path", endpoint, "request_id", rid, "error", err)
		return nil, terr
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.logger.Error(ctx, "API response unreadable", "method", method, "path", endpoint, "request_id", rid, "error", err)
		return nil, &TransportError{Method: method, Path: endpoint, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			Status:    resp.StatusCode,
			Message:   errorMessage(resp.StatusCode, data),
			Method:    method,
			Path:      endpoint,
			RequestID: rid,
		}
		c.logger.Error(ctx, "API request failed",
			"method", method, "path", endpoint, "status", resp.StatusCode,
			"request_id", rid, "error", apiErr.Message)
		return nil, apiErr
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	if !json.Valid(data) {
		c.logger.Error(ctx, "API response is not JSON", "method", method, "path", endpoint, "request_id", rid)
		return nil, fmt.Errorf("%s %s: response is not valid JSON", method, endpoint)
	}
	return json.RawMessage(data), nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.healthURL, nil)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Method: http.MethodGet, Path: c.healthURL, Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ErrUnavailable
	}
	return nil
}

func (c *HTTPClient) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := call[[]models.User](ctx, c, http.MethodGet, "/users/", nil)
	if err != nil || users == nil {
		return nil, err
	}
	return *users, nil
}

func (c *HTTPClient) CreateUser(ctx context.Context, in models.UserInput) (*models.User, error) {
	return call[models.User](ctx, c, http.MethodPost, "/users/", in)
}

func (c *HTTPClient) GetUserProfile(ctx context.Context, userID int64) (*models.Profile, error) {
	return call[models.Profile](ctx, c, http.MethodGet, fmt.Sprintf("/cv/profile/user/%d", userID), nil)
}

func (c *HTTPClient) CreateProfile(ctx context.Context, in models.ProfileInput) (*models.Profile, error) {
	return call[models.Profile](ctx, c, http.MethodPost, "/cv/profile", in)
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, profileID int64, in models.ProfileInput) (*models.Profile, error) {
	return call[models.Profile](ctx, c, http.MethodPut, fmt.Sprintf("/cv/profile/%d", profileID), in)
}

func (c *HTTPClient) GenerateCoverLetter(ctx context.Context, in models.GenerateRequest) (*models.CoverLetter, error) {
	return call[models.CoverLetter](ctx, c, http.MethodPost, "/cover-letters/generate", in)
}

func (c *HTTPClient) GetCoverLetter(ctx context.Context, letterID int64) (*models.CoverLetter, error) {
	return call[models.CoverLetter](ctx, c, http.MethodGet, fmt.Sprintf("/cover-letters/%d", letterID), nil)
}

func (c *HTTPClient) UpdateCoverLetter(ctx context.Context, letterID int64, in models.CoverLetterUpdate) (*models.CoverLetter, error) {
	return call[models.CoverLetter](ctx, c, http.MethodPut, fmt.Sprintf("/cover-letters/%d", letterID), in)
}

func (c *HTTPClient) DeleteCoverLetter(ctx context.Context, letterID int64) error {
	_, err := c.Request(ctx, http.MethodDelete, fmt.Sprintf("/cover-letters/%d", letterID), nil)
	return err
}

func (c *HTTPClient) ListUserCoverLetters(ctx context.Context, userID int64) (*models.CoverLetterList, error) {
	return call[models.CoverLetterList](ctx, c, http.MethodGet, fmt.Sprintf("/cover-letters/user/%d", userID), nil)
}

// call issues a request and decodes the response into a new T. A null or
// empty response yields (nil, nil).
func call[T any](ctx context.Context, c *HTTPClient, method, endpoint string, body any) (*T, error) {
	raw, err := c.Request(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	if raw == nil || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, nil
	}

	v := new(T)
	if err := json.Unmarshal(raw, v); err != nil {
		c.logger.Error(ctx, "API response has unexpected shape", "method", method, "path", endpoint, "error", err)
		return nil, fmt.Errorf("decode %s %s: %w", method, endpoint, err)
	}
	return v, nil
}

func errorMessage(status int, body []byte) string {
	generic := fmt.Sprintf("HTTP error! status: %d", status)

	text := strings.TrimSpace(string(body))
	if text == "" {
		return generic
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return truncate(text, maxRawMessageSize)
	}
	obj, ok := payload.(map[string]any)
	if !ok {
		return generic
	}
	if msg := detailMessage(obj["detail"]); msg != "" {
		return msg
	}
	return generic
}

// detailMessage extracts a message from a "detail" value, which is either a
// string or a list of validation objects carrying "msg".
func detailMessage(detail any) string {
	switch d := detail.(type) {
	case string:
		return d
	case []any:
		for _, item := range d {
			if obj, ok := item.(map[string]any); ok {
				if msg, ok := obj["msg"].(string); ok && msg != "" {
					return msg
				}
			}
		}
	}
	return ""
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
