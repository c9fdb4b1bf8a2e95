// Package finapi is the HTTP client for the upstream finance REST API.
// Every call is made at most once: there is no retry, and a transport failure or
// timeout surfaces as a NetworkError.
package finapi

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

	"github.com/kislikjeka/finboard/internal/platform/session"
	"github.com/kislikjeka/finboard/pkg/logger"
)

const (
	defaultBaseURL = "http://localhost:3000"
	requestTimeout = 30 * time.Second

	// maxErrorBody bounds how much of a failed response is read for its message
	maxErrorBody = 64 << 10
)

// Client is an HTTP client for the finance REST API
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *logger.Logger
}

// envelope is the shape of every API response
type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

// NewClient creates a new finance API client. A zero timeout selects 30 seconds.
func NewClient(baseURL string, timeout time.Duration, log *logger.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = requestTimeout
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  log.WithField("component", "finapi"),
	}
}

// SetBaseURL overrides the base URL (useful for testing)
func (c *Client) SetBaseURL(url string) {
	c.baseURL = strings.TrimRight(url, "/")
}

// request describes one API call
type request struct {
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
}

func jsonRequest(method, path string, payload any) (request, error) {
	r := request{method: method, path: path}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return r, fmt.Errorf("failed to encode request body: %w", err)
		}
		r.body = bytes.NewReader(raw)
		r.contentType = "application/json"
	}
	return r, nil
}

// do sends r with the context's session cookies and decodes the envelope's data into out.
// out may be nil when the caller does not need the payload.
func (c *Client) do(ctx context.Context, r request, out any) error {
	_, err := c.doResponse(ctx, r, out)
	return err
}

// doResponse is do that also returns the raw http response (body already consumed)
func (c *Client) doResponse(ctx context.Context, r request, out any) (*http.Response, error) {
	reqURL := c.baseURL + r.path
	if len(r.query) > 0 {
		reqURL += "?" + r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, reqURL, r.body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	for _, cookie := range session.CookiesFrom(ctx) {
		req.AddCookie(cookie)
	}

	c.logger.Debug("API request", "method", r.method, "path", r.path)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("API request failed", "method", r.method, "path", r.path, "error", err)
		return nil, &NetworkError{Op: r.method + " " + r.path, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Op: r.method + " " + r.path, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	c.logger.Debug("API response", "status_code", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: errorMessage(body)}
		c.logger.Info("API error", "method", r.method, "path", r.path, "status_code", resp.StatusCode, "message", apiErr.Message)
		return resp, apiErr
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return resp, nil
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return resp, fmt.Errorf("failed to decode response: %w", err)
	}
	if env.Success != nil && !*env.Success {
		msg := env.Error
		if msg == "" {
			msg = GenericErrorMessage
		}
		return resp, &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return resp, nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return resp, fmt.Errorf("failed to decode response data: %w", err)
	}
	return resp, nil
}

// errorMessage extracts the API's error text, falling back to a generic message
func errorMessage(body []byte) string {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return GenericErrorMessage
	}
	if msg := strings.TrimSpace(env.Error); msg != "" {
		return msg
	}
	if msg := strings.TrimSpace(env.Message); msg != "" {
		return msg
	}
	return GenericErrorMessage
}

// Ping checks that the API answers at all; any HTTP response counts as reachable
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/auth/me", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: "ping", Err: err}
	}
	resp.Body.Close()
	return nil
}
