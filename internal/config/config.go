// Package config loads CLI configuration.
//
// Values are layered, highest priority first: explicitly set command-line
// flags, FEDCORE_* environment variables, the config file (fedcore.yaml),
// and built-in defaults.
package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
)

// Defaults.
const (
	DefaultFormat     = "text"
	DefaultLogLevel   = "warn"
	DefaultScriptsDir = "testdata/scripts"
)

// ValidFormats lists the accepted output formats.
var ValidFormats = []string{"text", "json"}

// Config holds all CLI configuration options.
type Config struct {
	Format     string `koanf:"format"`
	Verbose    bool   `koanf:"verbose"`
	LogLevel   string `koanf:"log_level"`
	ScriptsDir string `koanf:"scripts_dir"`

	// GoldenDir holds <script>.golden traces. Empty means the "golden"
	// directory next to ScriptsDir.
	GoldenDir string `koanf:"golden_dir"`
}

// Validate reports every invalid field.
func (c *Config) Validate() error {
	var errs error
	if !isValidFormat(c.Format) {
		errs = multierr.Append(errs, fmt.Errorf("invalid format %q: must be one of %v", c.Format, ValidFormats))
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = multierr.Append(errs, err)
	}
	if c.ScriptsDir == "" {
		errs = multierr.Append(errs, fmt.Errorf("scripts_dir must not be empty"))
	}
	return errs
}

// Level returns the slog level for LogLevel. Verbose forces debug.
func (c *Config) Level() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	l, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelWarn
	}
	return l
}

// GoldenDirFor returns the golden directory to use with scriptsDir.
func (c *Config) GoldenDirFor(scriptsDir string) string {
	if c.GoldenDir != "" {
		return c.GoldenDir
	}
	return filepath.Join(filepath.Dir(filepath.Clean(scriptsDir)), "golden")
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: must be debug, info, warn or error", s)
	}
	return l, nil
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
