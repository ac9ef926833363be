// Package backend is the HTTP transport for the test-creation service.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/alanmeadows/psytest/internal/creation"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const (
	DefaultCreatePath = "/api/test/chat_create"
	DefaultHealthPath = "/api/health"
	DefaultTimeout    = 60 * time.Second

	// maxErrorBody caps how much of a failed reply is kept on TransportError.
	maxErrorBody = 2048
)

// Options configures a Client.
type Options struct {
	BaseURL    string
	CreatePath string
	HealthPath string
	Token      string
	Language   string
	Timeout    time.Duration

	// HTTPClient overrides the underlying client. Its transport is still
	// wrapped for bearer auth when Token is set.
	HTTPClient *http.Client
}

// Client sends creation turns over HTTP. It implements creation.Backend.
type Client struct {
	http       *http.Client
	baseURL    string
	createPath string
	healthPath string
	language   string
}

var _ creation.Backend = (*Client)(nil)

// New creates a Client. Empty paths and a zero timeout fall back to defaults.
func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	base := opts.HTTPClient
	if base == nil {
		base = &http.Client{Timeout: timeout}
	}

	httpClient := base
	if opts.Token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: opts.Token,
			TokenType:   "Bearer",
		}))
		httpClient.Timeout = base.Timeout
	}

	return &Client{
		http:       httpClient,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		createPath: orDefault(opts.CreatePath, DefaultCreatePath),
		healthPath: orDefault(opts.HealthPath, DefaultHealthPath),
		language:   opts.Language,
	}
}

// CreateTest posts one turn and decodes the reply envelope. Any reply that
// decodes is returned regardless of its code or stage.
func (c *Client) CreateTest(ctx context.Context, req *creation.Request) (*creation.Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding creation request: %w", err)
	}

	requestID := uuid.NewString()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.createPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building creation request: %w", err)
	}
	c.setHeaders(httpReq, requestID)
	httpReq.Header.Set("Content-Type", "application/json")

	slog.Debug("posting creation turn", "url", httpReq.URL.String(), "request_id", requestID)

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Op: "create test", RequestID: requestID, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &TransportError{
			Op:         "create test",
			RequestID:  requestID,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(excerpt)),
		}
	}

	var out creation.Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &TransportError{
			Op:        "create test",
			RequestID: requestID,
			Err:       fmt.Errorf("decoding reply: %w", err),
		}
	}

	slog.Debug("creation turn answered",
		"request_id", requestID,
		"code", out.Code,
		"elapsed", time.Since(start).Round(time.Millisecond))

	return &out, nil
}

// Health probes the backend health endpoint.
func (c *Client) Health(ctx context.Context) error {
	requestID := uuid.NewString()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+c.healthPath, nil)
	if err != nil {
		return fmt.Errorf("building health request: %w", err)
	}
	c.setHeaders(httpReq, requestID)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return &TransportError{Op: "health check", RequestID: requestID, Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))

	if resp.StatusCode != http.StatusOK {
		return &TransportError{Op: "health check", RequestID: requestID, StatusCode: resp.StatusCode}
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request, requestID string) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if c.language != "" {
		req.Header.Set("Accept-Language", c.language)
	}
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
