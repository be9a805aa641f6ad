// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ResultRecord is one row of the report, built from a search item whose host
// passed the domain suffix filter.
type ResultRecord struct {
	// URL is the item link as returned by the search API.
	URL string `json:"url" yaml:"url"`

	// Enrollment is the first enrollment-looking number found by the
	// secondary search on the item's domain, or empty.
	Enrollment string `json:"enrollment" yaml:"enrollment"`

	// PlanText is the snippet that referenced the strategic plan.
	PlanText string `json:"plan_text" yaml:"plan_text"`

	// YearsReferenced is the first year range found in PlanText, or empty.
	YearsReferenced string `json:"years_referenced" yaml:"years_referenced"`
}

// DiagnosticLevel classifies a user-facing status message.
type DiagnosticLevel string

const (
	LevelInfo    DiagnosticLevel = "info"
	LevelWarning DiagnosticLevel = "warning"
	LevelError   DiagnosticLevel = "error"
)

// Diagnostic is a status message produced during a run. The caller decides
// how to present it.
type Diagnostic struct {
	Level   DiagnosticLevel `json:"level" yaml:"level"`
	Message string          `json:"message" yaml:"message"`
}

// Report is the outcome of one finder run.
type Report struct {
	// Query is the primary search query that was issued.
	Query string `json:"query" yaml:"query"`

	// DomainSuffix is the host suffix used to filter items.
	DomainSuffix string `json:"domain_suffix" yaml:"domain_suffix"`

	// Records are the qualifying items in search order.
	Records []ResultRecord `json:"records" yaml:"records"`

	// Diagnostics lists info, warning, and error messages in emission order.
	Diagnostics []Diagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`

	// SecondarySearches counts the enrollment searches that were issued.
	SecondarySearches int `json:"secondary_searches" yaml:"secondary_searches"`
}

// Warnings returns the diagnostics at warning level.
func (r Report) Warnings() []Diagnostic {
	return r.filter(LevelWarning)
}

// Errors returns the diagnostics at error level.
func (r Report) Errors() []Diagnostic {
	return r.filter(LevelError)
}

func (r Report) filter(level DiagnosticLevel) []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Level == level {
			out = append(out, d)
		}
	}
	return out
}
