// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract pulls structured values out of search snippets with
// regular expressions. Every function is pure and returns "" on no match.
package extract

import "regexp"

var (
	// yearRangeRe matches 21st-century year ranges like "2025-2030" or
	// "2025 - 2030". Whitespace around the hyphen is kept in the match.
	yearRangeRe = regexp.MustCompile(`\b20\d{2}\s*-\s*20\d{2}\b`)

	// enrollmentRe matches a comma-grouped number ("15,000", "1,234,567")
	// or, failing that at the same position, a bare run of four or more
	// digits ("15000").
	enrollmentRe = regexp.MustCompile(`\d{1,3}(?:,\d{3})+|\d{4,}`)
)

// Years returns the first year range in text verbatim, or "".
func Years(text string) string {
	return yearRangeRe.FindString(text)
}

// Enrollment returns the first enrollment-looking number in snippet, or "".
func Enrollment(snippet string) string {
	return enrollmentRe.FindString(snippet)
}

// FirstEnrollment scans snippets in order and returns the first match from
// the first snippet that has one. Later snippets are not examined.
func FirstEnrollment(snippets []string) string {
	for _, s := range snippets {
		if m := Enrollment(s); m != "" {
			return m
		}
	}
	return ""
}
