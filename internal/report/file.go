// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/planfinder/pkg/types"
)

// File is the on-disk representation of a finder run. A saved run can be
// rendered again without re-querying the search API.
type File struct {
	Report  types.Report `yaml:"report"`
	Summary Summary      `yaml:"summary"`
}

// Summary stores result statistics and a timestamp.
type Summary struct {
	Records  int       `yaml:"records"`
	Warnings int       `yaml:"warnings"`
	Errors   int       `yaml:"errors"`
	SavedAt  time.Time `yaml:"saved_at"`
}

// WriteFile saves rep to a YAML file at path.
func WriteFile(path string, rep types.Report) error {
	f := File{
		Report: rep,
		Summary: Summary{
			Records:  len(rep.Records),
			Warnings: len(rep.Warnings()),
			Errors:   len(rep.Errors()),
			SavedAt:  time.Now().UTC(),
		},
	}

	data, err := yaml.Marshal(&f)
	if err != nil {
		return fmt.Errorf("marshaling report file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadFile loads a previously saved report file from disk.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing report file: %w", err)
	}
	return &f, nil
}
