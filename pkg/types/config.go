package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout. Zero leaves the client default.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "planfinder/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds the search client settings. The two credentials are
// required; the client refuses to start without them.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// Endpoint is the Custom Search JSON API URL.
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// APIKey is the value of GOOGLE_API_KEY.
	APIKey string `json:"-" yaml:"-"`

	// EngineID is the value of GOOGLE_CSE_ID (the "cx" parameter).
	EngineID string `json:"-" yaml:"-"`
}

// FinderConfig holds settings for the strategic plan finder run.
type FinderConfig struct {
	// DomainSuffix is the host suffix that qualifies an item (default ".edu").
	DomainSuffix string `json:"domain_suffix" yaml:"domain_suffix"`

	// Query is the primary search term; the site restriction is appended
	// (default "strategic plan").
	Query string `json:"query" yaml:"query"`
}

// ArchiveConfig holds settings for the optional run archive.
type ArchiveConfig struct {
	// Path is the SQLite database file. Empty disables archiving.
	Path string `json:"path" yaml:"path"`
}
