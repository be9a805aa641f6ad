// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for planfinder: the raw
// search response, the report records built from it, and stage settings.
package types

// SearchResult is the decoded Custom Search JSON response. Only the fields
// planfinder reads are declared; everything else in the body is ignored.
type SearchResult struct {
	// Items holds the ordered hits. The API omits the field entirely when
	// nothing matched, which decodes to a nil slice.
	Items []SearchItem `json:"items,omitempty" yaml:"items,omitempty"`

	// SearchInformation carries the API's own result estimate.
	SearchInformation SearchInformation `json:"searchInformation" yaml:"search_information"`
}

// HasItems reports whether the response carried at least one item.
func (r SearchResult) HasItems() bool {
	return len(r.Items) > 0
}

// SearchInformation is the informational block of a search response.
type SearchInformation struct {
	TotalResults string `json:"totalResults" yaml:"total_results"`
}

// SearchItem is a single hit returned by the search API.
type SearchItem struct {
	Title       string `json:"title" yaml:"title"`
	Link        string `json:"link" yaml:"link"`
	DisplayLink string `json:"displayLink" yaml:"display_link"`
	Snippet     string `json:"snippet" yaml:"snippet"`
}
