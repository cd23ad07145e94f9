package wikidata

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/roach88/nlquery/internal/queryir"
	"github.com/roach88/nlquery/internal/querysparql"
	"github.com/roach88/nlquery/internal/rest"
)

// Public endpoints.
const (
	DefaultAPIURL    = "https://www.wikidata.org/w/api.php"
	DefaultSPARQLURL = "https://query.wikidata.org/sparql"
)

// Entity kinds accepted by wbsearchentities.
const (
	KindItem     = "item"
	KindProperty = "property"
)

// ErrNotFound means a name did not resolve to any entity.
var ErrNotFound = errors.New("entity not found")

// Config holds the endpoint settings.
type Config struct {
	APIURL            string
	SPARQLURL         string
	Language          string
	UserAgent         string
	RequestsPerSecond float64
	Timeout           time.Duration
}

// DefaultConfig returns the settings for the public endpoints.
func DefaultConfig() Config {
	return Config{
		APIURL:            DefaultAPIURL,
		SPARQLURL:         DefaultSPARQLURL,
		Language:          "en",
		UserAgent:         "nlquery/0.1 (https://github.com/roach88/nlquery)",
		RequestsPerSecond: 5,
		Timeout:           rest.DefaultTimeout,
	}
}

// SearchHit is the first result of an entity search.
type SearchHit struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

type searchResponse struct {
	Search []SearchHit `json:"search"`
}

// Term is one bound value of a SPARQL result row.
type Term struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Datatype string `json:"datatype,omitempty"`
	Lang     string `json:"xml:lang,omitempty"`
}

// Row maps variable names to their values. Unbound variables are absent.
type Row map[string]Term

type sparqlResponse struct {
	Results struct {
		Bindings []Row `json:"bindings"`
	} `json:"results"`
}

// Result is a SPARQL result set with the query text that produced it.
type Result struct {
	SPARQL string
	Rows   []Row
}

// Client issues entity searches and SPARQL queries.
type Client struct {
	cfg    Config
	api    *rest.Client
	sparql *rest.Client
	logger *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*clientOptions)

type clientOptions struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// WithHTTPClient sets the HTTP client for both endpoints.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(o *clientOptions) {
		o.httpClient = hc
	}
}

// WithClientLogger sets the logger (default: slog.Default()).
func WithClientLogger(l *slog.Logger) ClientOption {
	return func(o *clientOptions) {
		o.logger = l
	}
}

// NewClient creates a client. Empty config fields take their defaults.
func NewClient(cfg Config, opts ...ClientOption) *Client {
	def := DefaultConfig()
	if cfg.APIURL == "" {
		cfg.APIURL = def.APIURL
	}
	if cfg.SPARQLURL == "" {
		cfg.SPARQLURL = def.SPARQLURL
	}
	if cfg.Language == "" {
		cfg.Language = def.Language
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}

	o := clientOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	restOpts := []rest.Option{
		rest.WithUserAgent(cfg.UserAgent),
		rest.WithTimeout(cfg.Timeout),
		rest.WithRateLimit(cfg.RequestsPerSecond),
		rest.WithLogger(o.logger),
	}
	if o.httpClient != nil {
		restOpts = append(restOpts, rest.WithHTTPClient(o.httpClient))
	}

	return &Client{
		cfg:    cfg,
		api:    rest.New("wikidata_api", restOpts...),
		sparql: rest.New("wikidata_sparql", restOpts...),
		logger: o.logger,
	}
}

// Language returns the language used for searches and labels.
func (c *Client) Language() string {
	return c.cfg.Language
}

// SearchEntity returns the first wbsearchentities hit for name, or nil when
// there is none.
func (c *Client) SearchEntity(ctx context.Context, name, kind string) (*SearchHit, error) {
	if kind != KindItem && kind != KindProperty {
		return nil, fmt.Errorf("search %q: unknown entity kind %q", name, kind)
	}

	params := url.Values{
		"action":   {"wbsearchentities"},
		"format":   {"json"},
		"search":   {name},
		"language": {c.cfg.Language},
		"type":     {kind},
	}

	var resp searchResponse
	if err := c.api.GetJSON(ctx, c.cfg.APIURL, params, &resp); err != nil {
		return nil, fmt.Errorf("search %s %q: %w", kind, name, err)
	}
	if len(resp.Search) == 0 {
		return nil, nil
	}
	return &resp.Search[0], nil
}

// ResolveID returns the ID of the first hit for name. It wraps ErrNotFound
// when the search has no results.
func (c *Client) ResolveID(ctx context.Context, name, kind string) (string, error) {
	hit, err := c.SearchEntity(ctx, name, kind)
	if err != nil {
		return "", err
	}
	if hit == nil || hit.ID == "" {
		return "", fmt.Errorf("%s %q: %w", kind, name, ErrNotFound)
	}
	c.logger.DebugContext(ctx, "resolved", "kind", kind, "name", name, "id", hit.ID)
	return hit.ID, nil
}

// Select compiles q and runs it against the SPARQL endpoint.
//
// The compiled text is returned even when the request fails, so callers can
// still report the query they attempted.
func (c *Client) Select(ctx context.Context, q queryir.Select) (*Result, error) {
	text, err := querysparql.Compile(q)
	if err != nil {
		return nil, fmt.Errorf("compile sparql: %w", err)
	}
	c.logger.DebugContext(ctx, "sparql", "query", text)

	result := &Result{SPARQL: text}
	params := url.Values{
		"format": {"json"},
		"query":  {text},
	}

	var resp sparqlResponse
	if err := c.sparql.GetJSON(ctx, c.cfg.SPARQLURL, params, &resp); err != nil {
		return result, fmt.Errorf("run sparql: %w", err)
	}
	result.Rows = resp.Results.Bindings
	return result, nil
}
