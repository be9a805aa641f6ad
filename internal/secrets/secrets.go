// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets resolves the search API credentials. Values come from the
// process environment, a .env file, or a directory of plain-text files where
// the filename is the key name and the trimmed contents are the value.
//
// Supported key files: google-api-key, google-cse-id.
package secrets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

// Credential names as they appear in the environment and .env files.
const (
	APIKey   = "GOOGLE_API_KEY"
	EngineID = "GOOGLE_CSE_ID"
)

// fileNames maps credential names to their .secrets/ file names.
var fileNames = map[string]string{
	APIKey:   "google-api-key",
	EngineID: "google-cse-id",
}

// ConfigError reports required configuration values that were not found.
type ConfigError struct {
	Missing []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", strings.Join(e.Missing, ", "))
}

// IsConfigError reports whether err is or wraps a *ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// LoadEnvFile parses a dotenv file. A missing file yields an empty map.
func LoadEnvFile(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading env file %s: %w", path, err)
	}
	return values, nil
}

// Sources holds the places credentials are looked up in, highest priority first.
type Sources struct {
	// Env looks up process environment variables. Nil means os.LookupEnv.
	Env func(string) (string, bool)

	// DotEnv holds values parsed from a .env file.
	DotEnv map[string]string

	// Files holds values loaded from the secrets directory, keyed by file name.
	Files map[string]string
}

// Resolve returns the value for a credential name, or "" if no source has it.
func (s Sources) Resolve(key string) string {
	env := s.Env
	if env == nil {
		env = os.LookupEnv
	}
	if v, ok := env(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	if v := strings.TrimSpace(s.DotEnv[key]); v != "" {
		return v
	}
	if name, ok := fileNames[key]; ok {
		if v := s.Files[name]; v != "" {
			return v
		}
	}
	return ""
}

// Require resolves every key and fails with a *ConfigError naming all keys
// that have no value.
func (s Sources) Require(keys ...string) (map[string]string, error) {
	values := make(map[string]string, len(keys))
	var missing []string
	for _, k := range keys {
		v := s.Resolve(k)
		if v == "" {
			missing = append(missing, k)
			continue
		}
		values[k] = v
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &ConfigError{Missing: missing}
	}
	return values, nil
}
