// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package finder

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/planfinder/internal/search"
	"github.com/pdiddy/planfinder/pkg/types"
)

// stubSearcher returns canned responses keyed by query and records every call.
type stubSearcher struct {
	responses map[string]types.SearchResult
	errs      map[string]error
	calls     []string
}

func (s *stubSearcher) Search(_ context.Context, query string) (types.SearchResult, error) {
	s.calls = append(s.calls, query)
	if err, ok := s.errs[query]; ok {
		return types.SearchResult{}, err
	}
	return s.responses[query], nil
}

func items(pairs ...string) types.SearchResult {
	var r types.SearchResult
	for i := 0; i+1 < len(pairs); i += 2 {
		r.Items = append(r.Items, types.SearchItem{Link: pairs[i], Snippet: pairs[i+1]})
	}
	return r
}

func snippets(s ...string) types.SearchResult {
	var r types.SearchResult
	for _, sn := range s {
		r.Items = append(r.Items, types.SearchItem{Snippet: sn})
	}
	return r
}

func endToEndStub() *stubSearcher {
	return &stubSearcher{responses: map[string]types.SearchResult{
		"strategic plan site:.edu": items(
			"https://foo.edu/plan", "2025-2030 strategic plan",
			"https://bar.com/plan", "2024-2029",
		),
		"site:foo.edu enrollment": snippets("15,000 students"),
	}}
}

// --- Orchestration ---

func TestRunEndToEnd(t *testing.T) {
	stub := endToEndStub()
	f := New(stub, types.FinderConfig{})

	rep := f.Run(context.Background())

	require.Len(t, rep.Records, 1)
	assert.Equal(t, types.ResultRecord{
		URL:             "https://foo.edu/plan",
		Enrollment:      "15,000",
		PlanText:        "2025-2030 strategic plan",
		YearsReferenced: "2025-2030",
	}, rep.Records[0])
	assert.Equal(t, "strategic plan site:.edu", rep.Query)
	assert.Equal(t, ".edu", rep.DomainSuffix)
	assert.Equal(t, 1, rep.SecondarySearches)
	assert.Empty(t, rep.Warnings())
	assert.Empty(t, rep.Errors())
}

func TestRunSkipsSecondarySearchForFilteredItems(t *testing.T) {
	stub := endToEndStub()
	New(stub, types.FinderConfig{}).Run(context.Background())

	assert.Equal(t, []string{
		"strategic plan site:.edu",
		"site:foo.edu enrollment",
	}, stub.calls)
}

func TestRunNoItemsField(t *testing.T) {
	stub := &stubSearcher{responses: map[string]types.SearchResult{
		"strategic plan site:.edu": {SearchInformation: types.SearchInformation{TotalResults: "0"}},
	}}

	rep := New(stub, types.FinderConfig{}).Run(context.Background())

	assert.Empty(t, rep.Records)
	assert.Len(t, stub.calls, 1, "no secondary searches")
	require.Len(t, rep.Warnings(), 1)
	assert.Contains(t, rep.Warnings()[0].Message, "No results found")
	assert.Zero(t, rep.SecondarySearches)
}

func TestRunPrimaryAPIErrorDegradesToNoResults(t *testing.T) {
	stub := &stubSearcher{errs: map[string]error{
		"strategic plan site:.edu": &search.APIError{StatusCode: http.StatusForbidden},
	}}

	rep := New(stub, types.FinderConfig{}).Run(context.Background())

	assert.Empty(t, rep.Records)
	assert.Len(t, stub.calls, 1)
	require.Len(t, rep.Errors(), 1)
	assert.Equal(t, "API error: 403", rep.Errors()[0].Message)
	assert.Len(t, rep.Warnings(), 1)
}

func TestRunSecondaryFailureYieldsEmptyEnrollment(t *testing.T) {
	stub := &stubSearcher{
		responses: map[string]types.SearchResult{
			"strategic plan site:.edu": items(
				"https://a.edu/x", "Plan 2022 - 2027",
				"https://b.edu/y", "no years",
			),
			"site:b.edu enrollment": snippets("About 8000 students"),
		},
		errs: map[string]error{
			"site:a.edu enrollment": &search.APIError{StatusCode: http.StatusTooManyRequests},
		},
	}

	rep := New(stub, types.FinderConfig{}).Run(context.Background())

	require.Len(t, rep.Records, 2)
	assert.Equal(t, "", rep.Records[0].Enrollment)
	assert.Equal(t, "2022 - 2027", rep.Records[0].YearsReferenced)
	assert.Equal(t, "8000", rep.Records[1].Enrollment)
	assert.Equal(t, "", rep.Records[1].YearsReferenced)
	require.Len(t, rep.Errors(), 1)
	assert.Equal(t, "API error: 429", rep.Errors()[0].Message)
}

func TestRunPreservesOrderAndDoesNotCacheSharedDomains(t *testing.T) {
	stub := &stubSearcher{responses: map[string]types.SearchResult{
		"strategic plan site:.edu": items(
			"https://c.edu/1", "one",
			"https://x.org/2", "two",
			"https://c.edu/3", "three",
			"https://a.edu/4", "four",
		),
		"site:c.edu enrollment": snippets("12,345 students"),
		"site:a.edu enrollment": snippets("none here", "5000"),
	}}

	rep := New(stub, types.FinderConfig{}).Run(context.Background())

	require.Len(t, rep.Records, 3)
	assert.Equal(t, "https://c.edu/1", rep.Records[0].URL)
	assert.Equal(t, "https://c.edu/3", rep.Records[1].URL)
	assert.Equal(t, "https://a.edu/4", rep.Records[2].URL)
	assert.Equal(t, "5000", rep.Records[2].Enrollment)
	assert.Equal(t, []string{
		"strategic plan site:.edu",
		"site:c.edu enrollment",
		"site:c.edu enrollment",
		"site:a.edu enrollment",
	}, stub.calls)
	assert.Equal(t, 3, rep.SecondarySearches)
}

func TestRunAllFilteredReportsNoData(t *testing.T) {
	stub := &stubSearcher{responses: map[string]types.SearchResult{
		"strategic plan site:.edu": items("https://college.edu.com/p", "2025-2030"),
	}}

	rep := New(stub, types.FinderConfig{}).Run(context.Background())

	assert.Empty(t, rep.Records)
	assert.Len(t, stub.calls, 1)
	last := rep.Diagnostics[len(rep.Diagnostics)-1]
	assert.Equal(t, types.LevelInfo, last.Level)
	assert.Equal(t, "No data to display.", last.Message)
}

func TestRunIsIdempotent(t *testing.T) {
	stub := endToEndStub()
	f := New(stub, types.FinderConfig{})

	first := f.Run(context.Background())
	second := f.Run(context.Background())

	assert.Equal(t, first, second)
}

func TestRunCustomSuffixAndQuery(t *testing.T) {
	stub := &stubSearcher{responses: map[string]types.SearchResult{
		"master plan site:.ac.uk": items("https://www.ox.ac.uk/plan", "2024-2034"),
		"site:www.ox.ac.uk enrollment": snippets("26,000 students"),
	}}

	rep := New(stub, types.FinderConfig{DomainSuffix: ".ac.uk", Query: "master plan"}).Run(context.Background())

	require.Len(t, rep.Records, 1)
	assert.Equal(t, "26,000", rep.Records[0].Enrollment)
	assert.Equal(t, "2024-2034", rep.Records[0].YearsReferenced)
}

// cancelAfter cancels the run's context once n searches have been issued.
type cancelAfter struct {
	*stubSearcher
	n      int
	cancel context.CancelFunc
}

func (c *cancelAfter) Search(ctx context.Context, query string) (types.SearchResult, error) {
	res, err := c.stubSearcher.Search(ctx, query)
	if len(c.calls) == c.n {
		c.cancel()
	}
	return res, err
}

func TestRunStopsWhenContextCancelled(t *testing.T) {
	stub := &stubSearcher{responses: map[string]types.SearchResult{
		"strategic plan site:.edu": items(
			"https://a.edu/1", "2021-2026",
			"https://b.edu/2", "two",
			"https://c.edu/3", "three",
		),
		"site:a.edu enrollment": snippets("9,000 students"),
	}}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rep := New(&cancelAfter{stubSearcher: stub, n: 2, cancel: cancel}, types.FinderConfig{}).Run(ctx)

	assert.Equal(t, []string{"strategic plan site:.edu", "site:a.edu enrollment"}, stub.calls)
	require.Len(t, rep.Records, 1)
	assert.Equal(t, "9,000", rep.Records[0].Enrollment)
	assert.Equal(t, 1, rep.SecondarySearches)
	require.Len(t, rep.Errors(), 1)
	assert.Contains(t, rep.Errors()[0].Message, "run stopped after 1 of 3 results")
	assert.Contains(t, rep.Errors()[0].Message, context.Canceled.Error())
}

func TestRunAdmitsPortAndUpperCaseHosts(t *testing.T) {
	stub := &stubSearcher{responses: map[string]types.SearchResult{
		"strategic plan site:.edu": items(
			"https://foo.edu:8443/plan", "2025-2030",
			"https://BAR.EDU/Plan", "2026-2031",
		),
		"site:foo.edu enrollment": snippets("15,000 students"),
		"site:bar.edu enrollment": snippets("7500 students"),
	}}

	rep := New(stub, types.FinderConfig{}).Run(context.Background())

	assert.Equal(t, []string{
		"strategic plan site:.edu",
		"site:foo.edu enrollment",
		"site:bar.edu enrollment",
	}, stub.calls)
	require.Len(t, rep.Records, 2)
	assert.Equal(t, "https://foo.edu:8443/plan", rep.Records[0].URL, "record keeps the link as returned")
	assert.Equal(t, "15,000", rep.Records[0].Enrollment)
	assert.Equal(t, "https://BAR.EDU/Plan", rep.Records[1].URL)
	assert.Equal(t, "7500", rep.Records[1].Enrollment)
}

// --- Enrollment ---

func TestEnrollmentFirstSnippetWins(t *testing.T) {
	stub := &stubSearcher{responses: map[string]types.SearchResult{
		"site:foo.edu enrollment": snippets("Apply today", "About 1200 students", "45,000 alumni"),
	}}

	got, diags := New(stub, types.FinderConfig{}).Enrollment(context.Background(), "foo.edu")

	assert.Equal(t, "1200", got)
	assert.Empty(t, diags)
}

func TestEnrollmentNoMatch(t *testing.T) {
	stub := &stubSearcher{responses: map[string]types.SearchResult{
		"site:foo.edu enrollment": snippets("123 students"),
	}}

	got, diags := New(stub, types.FinderConfig{}).Enrollment(context.Background(), "foo.edu")

	assert.Equal(t, "", got)
	assert.Empty(t, diags)
}

// --- Domain filter ---

func TestDomain(t *testing.T) {
	tests := []struct {
		link string
		want string
	}{
		{"https://foo.edu/plan", "foo.edu"},
		{"https://Sub.College.EDU/a/b?x=1#f", "sub.college.edu"},
		{"http://foo.edu:8080/plan", "foo.edu"},
		{"foo.edu/plan", ""},
		{"", ""},
		{"://bad", ""},
	}
	for _, tt := range tests {
		t.Run(tt.link, func(t *testing.T) {
			assert.Equal(t, tt.want, Domain(tt.link))
		})
	}
}

func TestMatchesSuffix(t *testing.T) {
	tests := []struct {
		domain string
		suffix string
		want   bool
	}{
		{"sub.college.edu", ".edu", true},
		{"college.edu", ".edu", true},
		{"college.edu.com", ".edu", false},
		{"education.org", ".edu", false},
		{"", ".edu", false},
		{"foo.edu", ".EDU", true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_%s", tt.domain, tt.suffix), func(t *testing.T) {
			assert.Equal(t, tt.want, MatchesSuffix(tt.domain, tt.suffix))
		})
	}
}

// --- Against a real client ---

func TestRunWithHTTPClient(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("q") {
		case "strategic plan site:.edu":
			fmt.Fprint(w, `{"items":[
				{"link":"https://foo.edu/plan","snippet":"2025-2030 strategic plan"},
				{"link":"https://bar.com/plan","snippet":"2024-2029"}
			]}`)
		case "site:foo.edu enrollment":
			fmt.Fprint(w, `{"items":[{"link":"https://foo.edu/facts","snippet":"15,000 students"}]}`)
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer ts.Close()

	client, err := search.New(types.SearchConfig{
		Endpoint: ts.URL,
		APIKey:   "k",
		EngineID: "cx",
	}, ts.Client())
	require.NoError(t, err)

	rep := New(client, types.FinderConfig{}).Run(context.Background())

	require.Len(t, rep.Records, 1)
	assert.Equal(t, "15,000", rep.Records[0].Enrollment)
	assert.Empty(t, rep.Errors())
}
