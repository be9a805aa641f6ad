// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search queries the Google Custom Search JSON API.
//
// A Client issues exactly one GET per query. Non-200 answers come back as
// an empty result together with an *APIError; the caller decides whether
// that is fatal.
package search

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/planfinder/internal/httputil"
	"github.com/pdiddy/planfinder/internal/logger"
	"github.com/pdiddy/planfinder/internal/secrets"
	"github.com/pdiddy/planfinder/pkg/types"
)

// DefaultEndpoint is the Custom Search JSON API URL.
const DefaultEndpoint = "https://www.googleapis.com/customsearch/v1"

var log = logger.New("search")

// Searcher runs a single search query.
type Searcher interface {
	Search(ctx context.Context, query string) (types.SearchResult, error)
}

// APIError reports a non-200 answer from the search endpoint.
type APIError struct {
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: %d", e.StatusCode)
}

// Client is the Custom Search implementation of Searcher.
type Client struct {
	http     *http.Client
	endpoint string
	apiKey   string
	engineID string
	agent    string
}

// New builds a Client from cfg. Both credentials must be set; otherwise a
// *secrets.ConfigError is returned and no client is created. A nil hc gets
// a client built from cfg.Timeout.
func New(cfg types.SearchConfig, hc *http.Client) (*Client, error) {
	var missing []string
	if strings.TrimSpace(cfg.APIKey) == "" {
		missing = append(missing, secrets.APIKey)
	}
	if strings.TrimSpace(cfg.EngineID) == "" {
		missing = append(missing, secrets.EngineID)
	}
	if len(missing) > 0 {
		return nil, &secrets.ConfigError{Missing: missing}
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if hc == nil {
		hc = httputil.NewClient(cfg.Timeout)
	}

	return &Client{
		http:     hc,
		endpoint: endpoint,
		apiKey:   cfg.APIKey,
		engineID: cfg.EngineID,
		agent:    cfg.UserAgent,
	}, nil
}

// Search performs one GET with the key, cx, and q parameters.
func (c *Client) Search(ctx context.Context, query string) (types.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return types.SearchResult{}, fmt.Errorf("search query is empty")
	}

	reqURL, err := c.requestURL(query)
	if err != nil {
		return types.SearchResult{}, err
	}

	log.Debug().Str("query", query).Msg("searching")

	var result types.SearchResult
	err = httputil.GetJSON(ctx, c.http, reqURL, c.agent, &result)
	if err != nil {
		var se *httputil.StatusError
		if errors.As(err, &se) {
			log.Debug().Str("query", query).Int("status", se.StatusCode).Msg("search failed")
			return types.SearchResult{}, &APIError{StatusCode: se.StatusCode}
		}
		return types.SearchResult{}, fmt.Errorf("search request: %w", err)
	}

	log.Debug().
		Str("query", query).
		Int("items", len(result.Items)).
		Str("total", result.SearchInformation.TotalResults).
		Msg("search done")
	return result, nil
}

func (c *Client) requestURL(query string) (string, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("parsing search endpoint %q: %w", c.endpoint, err)
	}
	params := u.Query()
	params.Set("key", c.apiKey)
	params.Set("cx", c.engineID)
	params.Set("q", query)
	u.RawQuery = params.Encode()
	return u.String(), nil
}

// SiteQuery restricts term to pages under site, e.g. "strategic plan site:.edu".
func SiteQuery(term, site string) string {
	return fmt.Sprintf("%s site:%s", term, site)
}

// EnrollmentQuery builds the secondary query for a single domain.
func EnrollmentQuery(domain string) string {
	return fmt.Sprintf("site:%s enrollment", domain)
}
