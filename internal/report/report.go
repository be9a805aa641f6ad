// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders finder reports as tables, JSON, or CSV and saves
// them to YAML files that can be rendered again later.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/planfinder/pkg/types"
)

// Format selects an output renderer.
type Format string

const (
	FormatTableName Format = "table"
	FormatJSONName  Format = "json"
	FormatCSVName   Format = "csv"
)

// ParseFormat validates a format name; "" means table.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatTableName:
		return FormatTableName, nil
	case FormatJSONName, FormatCSVName:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want table, json, or csv)", s)
	}
}

// Render writes rep to w in the given format.
func Render(rep types.Report, f Format, w io.Writer) error {
	switch f {
	case FormatJSONName:
		return FormatJSON(rep, w)
	case FormatCSVName:
		return FormatCSV(rep, w)
	default:
		FormatTable(rep, w)
		return nil
	}
}

var columns = []string{"URL", "Enrollment Size", "Strategic Plan Text", "Years Referenced"}

// FormatTable writes records as a human-readable table to w.
func FormatTable(rep types.Report, w io.Writer) {
	if len(rep.Records) == 0 {
		fmt.Fprintln(w, "No data to display.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-45s  %-10s  %-12s  %s\n",
		"#", "URL", "Enrollment", "Years", "Strategic Plan Text")
	fmt.Fprintln(w, strings.Repeat("-", 130))

	for i, r := range rep.Records {
		fmt.Fprintf(w, "%-4d  %-45s  %-10s  %-12s  %s\n",
			i+1, truncate(r.URL, 45), r.Enrollment, r.YearsReferenced, truncate(oneLine(r.PlanText), 50))
	}

	fmt.Fprintf(w, "\n%d results", len(rep.Records))
	if rep.SecondarySearches > 0 {
		fmt.Fprintf(w, " (%d enrollment searches)", rep.SecondarySearches)
	}
	fmt.Fprintln(w)
}

// FormatJSON writes records as indented JSON to w.
func FormatJSON(rep types.Report, w io.Writer) error {
	records := rep.Records
	if records == nil {
		records = []types.ResultRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// FormatCSV writes a header row and one row per record to w.
func FormatCSV(rep types.Report, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}
	for _, r := range rep.Records {
		if err := cw.Write([]string{r.URL, r.Enrollment, r.PlanText, r.YearsReferenced}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteDiagnostics writes one "level: message" line per diagnostic.
func WriteDiagnostics(diags []types.Diagnostic, w io.Writer) {
	for _, d := range diags {
		fmt.Fprintf(w, "%s: %s\n", d.Level, d.Message)
	}
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	n := max - 3
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
