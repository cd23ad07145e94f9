// Package corenlp is a client for the Stanford CoreNLP server's annotate
// endpoint. It implements engine.Parser.
package corenlp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/roach88/nlquery/internal/engine"
	"github.com/roach88/nlquery/internal/parsetree"
	"github.com/roach88/nlquery/internal/rest"
)

// Config locates the server.
type Config struct {
	Host    string
	Port    int
	Timeout time.Duration
	// Properties are extra annotator properties merged over the defaults.
	Properties map[string]string
}

// DefaultProperties request a constituency parse as JSON.
var DefaultProperties = map[string]string{
	"annotators":   "tokenize,ssplit,pos,parse",
	"outputFormat": "json",
}

type annotation struct {
	Sentences []struct {
		Index int    `json:"index"`
		Parse string `json:"parse"`
	} `json:"sentences"`
}

// Client parses sentences with a CoreNLP server.
type Client struct {
	url        string
	properties string
	rest       *rest.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*options)

type options struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) {
		o.httpClient = hc
	}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// New creates a client for http://host:port.
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == 0 {
		cfg.Port = 9000
	}
	return NewURL("http://"+net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)), cfg, opts...)
}

// NewURL creates a client for a server at baseURL; cfg.Host and cfg.Port
// are ignored.
func NewURL(baseURL string, cfg Config, opts ...Option) (*Client, error) {
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parser url %q: %w", baseURL, err)
	}

	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	props := make(map[string]string, len(DefaultProperties)+len(cfg.Properties))
	for k, v := range DefaultProperties {
		props[k] = v
	}
	for k, v := range cfg.Properties {
		props[k] = v
	}
	encoded, err := json.Marshal(props)
	if err != nil {
		return nil, fmt.Errorf("encode parser properties: %w", err)
	}

	restOpts := []rest.Option{rest.WithTimeout(cfg.Timeout), rest.WithLogger(o.logger)}
	if o.httpClient != nil {
		restOpts = append(restOpts, rest.WithHTTPClient(o.httpClient))
	}

	return &Client{
		url:        strings.TrimSuffix(baseURL, "/") + "/",
		properties: string(encoded),
		rest:       rest.New("corenlp", restOpts...),
		logger:     o.logger,
	}, nil
}

// Parse returns the constituency tree of the first sentence of text.
//
// Connection failures wrap engine.ErrParserUnavailable.
func (c *Client) Parse(ctx context.Context, text string) (*parsetree.Node, error) {
	var ann annotation
	err := c.rest.PostJSON(ctx, c.url, url.Values{"properties": {c.properties}},
		"text/plain; charset=utf-8", strings.NewReader(text), &ann)
	if rest.IsUnreachable(err) {
		return nil, fmt.Errorf("%w: %v", engine.ErrParserUnavailable, err)
	}
	if err != nil {
		return nil, err
	}

	if len(ann.Sentences) == 0 || ann.Sentences[0].Parse == "" {
		return nil, fmt.Errorf("parser returned no sentence for %q", text)
	}
	if len(ann.Sentences) > 1 {
		c.logger.DebugContext(ctx, "ignoring extra sentences", "count", len(ann.Sentences)-1)
	}

	tree, err := parsetree.Parse(ann.Sentences[0].Parse)
	if err != nil {
		return nil, fmt.Errorf("parser output: %w", err)
	}
	return tree, nil
}
