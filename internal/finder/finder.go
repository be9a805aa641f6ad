// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package finder runs the strategic plan search: one primary query, a
// domain suffix filter over the hits, and one enrollment search per
// qualifying hit. Work is strictly sequential.
package finder

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/pdiddy/planfinder/internal/extract"
	"github.com/pdiddy/planfinder/internal/logger"
	"github.com/pdiddy/planfinder/internal/search"
	"github.com/pdiddy/planfinder/pkg/types"
)

const (
	// DefaultDomainSuffix limits results to educational institutions.
	DefaultDomainSuffix = ".edu"

	// DefaultQuery is the primary search term.
	DefaultQuery = "strategic plan"

	noResultsMsg = "No results found. Check your custom search engine configuration or API keys."
	noDataMsg    = "No data to display."
)

var log = logger.New("finder")

// Finder orchestrates the primary and secondary searches.
type Finder struct {
	searcher search.Searcher
	suffix   string
	term     string
}

// New returns a Finder that issues its queries through s. Empty fields in
// cfg fall back to DefaultDomainSuffix and DefaultQuery.
func New(s search.Searcher, cfg types.FinderConfig) *Finder {
	suffix := strings.TrimSpace(cfg.DomainSuffix)
	if suffix == "" {
		suffix = DefaultDomainSuffix
	}
	term := strings.TrimSpace(cfg.Query)
	if term == "" {
		term = DefaultQuery
	}
	return &Finder{searcher: s, suffix: suffix, term: term}
}

// Query returns the primary search query, e.g. "strategic plan site:.edu".
func (f *Finder) Query() string {
	return search.SiteQuery(f.term, f.suffix)
}

// Run performs the primary search and builds one record per item whose
// host ends with the configured suffix, in search order. Search failures
// and empty results are reported as diagnostics, never as errors.
func (f *Finder) Run(ctx context.Context) types.Report {
	rep := types.Report{
		Query:        f.Query(),
		DomainSuffix: f.suffix,
	}
	rep.Diagnostics = append(rep.Diagnostics, info(fmt.Sprintf(
		"Searching for %s references on %s websites...", f.term, f.suffix)))

	result, err := f.searcher.Search(ctx, rep.Query)
	if err != nil {
		rep.Diagnostics = append(rep.Diagnostics, searchFailure(err))
	}

	if !result.HasItems() {
		rep.Diagnostics = append(rep.Diagnostics, warning(noResultsMsg))
		return rep
	}

	hits := Qualifying(result.Items, f.suffix)
	log.Debug().
		Int("items", len(result.Items)).
		Int("qualifying", len(hits)).
		Str("suffix", f.suffix).
		Msg("filtered primary results")

	for _, h := range hits {
		if err := ctx.Err(); err != nil {
			rep.Diagnostics = append(rep.Diagnostics, types.Diagnostic{
				Level:   types.LevelError,
				Message: fmt.Sprintf("run stopped after %d of %d results: %v", len(rep.Records), len(hits), err),
			})
			break
		}
		enrollment, diags := f.Enrollment(ctx, h.Domain)
		rep.SecondarySearches++
		rep.Diagnostics = append(rep.Diagnostics, diags...)
		rep.Records = append(rep.Records, types.ResultRecord{
			URL:             h.Item.Link,
			Enrollment:      enrollment,
			PlanText:        h.Item.Snippet,
			YearsReferenced: extract.Years(h.Item.Snippet),
		})
	}

	if len(rep.Records) == 0 {
		rep.Diagnostics = append(rep.Diagnostics, info(noDataMsg))
	}
	return rep
}

// Enrollment searches domain for enrollment figures and returns the first
// number found in the first snippet that contains one. A failed search
// yields "" and an error diagnostic.
func (f *Finder) Enrollment(ctx context.Context, domain string) (string, []types.Diagnostic) {
	result, err := f.searcher.Search(ctx, search.EnrollmentQuery(domain))
	if err != nil {
		return "", []types.Diagnostic{searchFailure(err)}
	}

	snippets := make([]string, 0, len(result.Items))
	for _, it := range result.Items {
		snippets = append(snippets, it.Snippet)
	}
	return extract.FirstEnrollment(snippets), nil
}

// Hit is a search item that passed the domain filter.
type Hit struct {
	Item   types.SearchItem
	Domain string
}

// Qualifying keeps the items whose link host ends with suffix, preserving order.
func Qualifying(items []types.SearchItem, suffix string) []Hit {
	var hits []Hit
	for _, it := range items {
		domain := Domain(it.Link)
		if !MatchesSuffix(domain, suffix) {
			log.Debug().Str("link", it.Link).Msg("skipping non-matching domain")
			continue
		}
		hits = append(hits, Hit{Item: it, Domain: domain})
	}
	return hits
}

// Domain returns the lower-cased host of link without port, path, or
// query. Unparseable or relative links yield "".
func Domain(link string) string {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// MatchesSuffix reports whether domain ends with suffix. An empty domain
// never matches.
func MatchesSuffix(domain, suffix string) bool {
	if domain == "" {
		return false
	}
	return strings.HasSuffix(domain, strings.ToLower(suffix))
}

func searchFailure(err error) types.Diagnostic {
	return types.Diagnostic{Level: types.LevelError, Message: err.Error()}
}

func info(msg string) types.Diagnostic {
	return types.Diagnostic{Level: types.LevelInfo, Message: msg}
}

func warning(msg string) types.Diagnostic {
	return types.Diagnostic{Level: types.LevelWarning, Message: msg}
}
