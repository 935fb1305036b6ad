// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pubmed retrieves bibliographic records from the NCBI E-utilities
// API. A category query runs as esearch (IDs sorted by publication date)
// followed by efetch (full records as PubMed XML). Requests are rate limited
// per NCBI policy, retried on 429/5xx, and guarded by a circuit breaker so a
// dead service fails the remaining categories fast.
package pubmed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/pdiddy/clinical-briefing/internal/httputil"
	"github.com/pdiddy/clinical-briefing/pkg/types"
)

// eutilsBase is the E-utilities root used when the config leaves BaseURL
// empty. Declared as a var so tests can substitute an httptest server.
var eutilsBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

// NCBI request ceilings in requests per second.
const (
	anonymousRate = 3
	keyedRate     = 10
)

// breakerTrips is the number of consecutive failed calls that opens the breaker.
const breakerTrips = 3

// Limit returns the request rate allowed by cfg: RequestsPerSecond when set,
// otherwise 10/s with an API key and 3/s without.
func Limit(cfg types.FetchConfig) rate.Limit {
	switch {
	case cfg.RequestsPerSecond > 0:
		return rate.Limit(cfg.RequestsPerSecond)
	case cfg.APIKey != "":
		return keyedRate
	default:
		return anonymousRate
	}
}

// Client queries PubMed. It is safe for sequential use by one pipeline run.
type Client struct {
	HTTP *http.Client

	cfg     types.FetchConfig
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[[]byte]
	logger  *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.HTTP = hc }
}

// WithLogger sets the logger (default slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New returns a Client for cfg.
func New(cfg types.FetchConfig, opts ...Option) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = eutilsBase
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	c := &Client{
		HTTP:    &http.Client{Timeout: cfg.Timeout},
		cfg:     cfg,
		limiter: rate.NewLimiter(Limit(cfg), 1),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "eutils",
		Timeout: time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerTrips
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("circuit breaker state change", "name", name, "from", from.String(), "to", to.String())
		},
	})
	return c
}

// Fetch retrieves the records for one category, newest first.
func (c *Client) Fetch(ctx context.Context, cat types.Category) ([]types.RawRecord, error) {
	records, err := c.FetchRecords(ctx, cat.Query, cat.Limit)
	if err != nil {
		return nil, fmt.Errorf("category %s: %w", cat.Name, err)
	}
	return records, nil
}

// FetchRecords runs query and returns up to limit records. A limit of 0
// uses types.DefaultCategoryLimit.
func (c *Client) FetchRecords(ctx context.Context, query string, limit int) ([]types.RawRecord, error) {
	ids, err := c.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	records, err := c.FetchIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("pubmed fetch", "query", query, "ids", len(ids), "records", len(records))
	return records, nil
}

// Search runs esearch and returns PMIDs sorted by publication date.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]string, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty PubMed query")
	}
	if limit <= 0 {
		limit = types.DefaultCategoryLimit
	}

	params := url.Values{
		"db":      {"pubmed"},
		"term":    {query},
		"retmode": {"json"},
		"retmax":  {strconv.Itoa(limit)},
		"sort":    {"pub_date"},
	}
	if c.cfg.RecentDays > 0 {
		params.Set("reldate", strconv.Itoa(c.cfg.RecentDays))
		params.Set("datetype", "pdat")
	}

	body, err := c.get(ctx, "esearch.fcgi", params)
	if err != nil {
		return nil, err
	}

	var esr esearchResponse
	if err := json.Unmarshal(body, &esr); err != nil {
		return nil, fmt.Errorf("parsing esearch response: %w", err)
	}
	if esr.Result.Error != "" {
		return nil, fmt.Errorf("esearch: %s", esr.Result.Error)
	}
	return esr.Result.IDs, nil
}

// FetchIDs runs efetch for the given PMIDs.
func (c *Client) FetchIDs(ctx context.Context, ids []string) ([]types.RawRecord, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"id":      {strings.Join(ids, ",")},
		"retmode": {"xml"},
	}
	body, err := c.get(ctx, "efetch.fcgi", params)
	if err != nil {
		return nil, err
	}
	return ParseArticles(body)
}

// get performs one rate-limited, retried, breaker-guarded GET against an
// E-utilities endpoint and returns the response body.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	params.Set("tool", c.cfg.Tool)
	if c.cfg.Email != "" {
		params.Set("email", c.cfg.Email)
	}
	if c.cfg.APIKey != "" {
		params.Set("api_key", c.cfg.APIKey)
	}
	reqURL := c.cfg.BaseURL + "/" + endpoint + "?" + params.Encode()

	return c.breaker.Execute(func() ([]byte, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		if c.cfg.UserAgent != "" {
			req.Header.Set("User-Agent", c.cfg.UserAgent)
		}

		resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, c.cfg.MaxRetries)
		if err != nil {
			return nil, fmt.Errorf("%s request: %w", endpoint, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%s returned HTTP %d", endpoint, resp.StatusCode)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("reading %s response: %w", endpoint, err)
		}
		return body, nil
	})
}

// IsCircuitOpen reports whether err came from an open or saturated breaker.
func IsCircuitOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

type esearchResponse struct {
	Result struct {
		Count string   `json:"count"`
		IDs   []string `json:"idlist"`
		Error string   `json:"ERROR"`
	} `json:"esearchresult"`
}
