// Package rest is the small JSON-over-HTTP client shared by the Wikidata
// and CoreNLP adapters.
//
// Every request is rate limited per client, carries the configured
// User-Agent, is bounded by the client timeout, counted in the endpoint
// metrics and logged at debug. Requests are never retried.
package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/roach88/nlquery/internal/metrics"
)

// maxErrorBodySize limits how much of a failed response is kept.
const maxErrorBodySize = 4096

// DefaultTimeout bounds a request when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// TransportError reports a failed connection or a non-2xx status.
// Status is 0 when no response was received.
type TransportError struct {
	Endpoint string
	Status   int
	Body     string
	Err      error
}

func (e *TransportError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s: %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("%s returned %d: %s", e.Endpoint, e.Status, e.Body)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError reports a response body that is not the expected JSON.
type DecodeError struct {
	Endpoint string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: decode response: %v", e.Endpoint, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether err is (or wraps) a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsDecode reports whether err is (or wraps) a DecodeError.
func IsDecode(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

// IsUnreachable reports whether err is a transport failure without any
// response from the server.
func IsUnreachable(err error) bool {
	var te *TransportError
	return errors.As(err, &te) && te.Status == 0
}

// Client issues JSON requests against one named endpoint family.
type Client struct {
	name       string
	httpClient *http.Client
	limiter    *rate.Limiter
	timeout    time.Duration
	userAgent  string
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithRateLimit allows rps requests per second. Zero disables limiting.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// New creates a client. name labels the endpoint in errors, logs and
// metrics.
func New(name string, opts ...Option) *Client {
	c := &Client{
		name:       name,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

// Name returns the endpoint label.
func (c *Client) Name() string {
	return c.name
}

// GetJSON sends GET rawURL?params and decodes the JSON response into out.
func (c *Client) GetJSON(ctx context.Context, rawURL string, params url.Values, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, rawURL, params, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

// PostJSON sends body to rawURL?params and decodes the JSON response into
// out.
func (c *Client) PostJSON(ctx context.Context, rawURL string, params url.Values, contentType string, body io.Reader, out any) error {
	req, err := c.newRequest(ctx, http.MethodPost, rawURL, params, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	return c.do(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, rawURL string, params url.Values, body io.Reader) (*http.Request, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%s: parse url: %w", c.name, err)
	}
	if len(params) > 0 {
		u.RawQuery = params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", c.name, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	ctx := req.Context()
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &TransportError{Endpoint: c.name, Err: err}
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveRequest(c.name, 0, time.Since(start))
		c.logger.DebugContext(ctx, "request failed", "endpoint", c.name, "url", req.URL.Redacted(), "error", err)
		return &TransportError{Endpoint: c.name, Err: err}
	}
	defer resp.Body.Close()

	metrics.ObserveRequest(c.name, resp.StatusCode, time.Since(start))
	c.logger.DebugContext(ctx, "request",
		"endpoint", c.name,
		"method", req.Method,
		"status", resp.StatusCode,
		"elapsed", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return &TransportError{Endpoint: c.name, Status: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &DecodeError{Endpoint: c.name, Err: err}
	}
	return nil
}
