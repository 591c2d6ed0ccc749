package types

import (
	"fmt"
	"strings"
)

// Config holds runtime configuration combining a config file, environment
// variables, flags and defaults
type Config struct {
	// Enforcement
	Limit      int      `yaml:"limit"`      // Row ceiling applied to every query
	Offset     *int     `yaml:"offset"`     // Offset added when a query has none; nil disables
	Strategies []string `yaml:"strategies"` // Ordered limit strategies (limit, fetch)

	// Execution
	Parallelism int `yaml:"parallel"` // Max files rewritten concurrently (1 = sequential)

	// Verification
	Connection string `yaml:"connection"` // PostgreSQL connection string used by --verify
	Verify     bool   `yaml:"verify"`     // EXPLAIN every rewritten query on the server

	// Output
	Output  string `yaml:"output"`  // "-" for stdout, a file, or a directory for many inputs
	Verbose bool   `yaml:"verbose"` // Enable debug logging
}

// MaxParallelism bounds the worker pool size
const MaxParallelism = 64

// ConfigError represents an invalid configuration value
type ConfigError struct {
	Field      string
	Value      interface{}
	Message    string
	Suggestion string
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("invalid configuration for %s: %s", e.Field, e.Message)
	if e.Suggestion != "" {
		msg += "\nSuggestion: " + e.Suggestion
	}
	return msg
}

// Validate checks the configuration and returns the first problem found
func (c *Config) Validate() error {
	if c.Limit < 0 {
		return &ConfigError{
			Field:      "limit",
			Value:      c.Limit,
			Message:    fmt.Sprintf("must be a non-negative integer, got %d", c.Limit),
			Suggestion: "Set --limit to the maximum number of rows a query may return",
		}
	}

	if c.Offset != nil && *c.Offset < 0 {
		return &ConfigError{
			Field:      "offset",
			Value:      *c.Offset,
			Message:    fmt.Sprintf("must be a non-negative integer, got %d", *c.Offset),
			Suggestion: "Omit --offset to leave offsets alone",
		}
	}

	if len(c.Strategies) == 0 {
		return &ConfigError{
			Field:      "strategies",
			Value:      c.Strategies,
			Message:    "at least one limit strategy is required",
			Suggestion: "Use --strategy limit, --strategy fetch, or both",
		}
	}

	if c.Parallelism < 1 || c.Parallelism > MaxParallelism {
		return &ConfigError{
			Field:      "parallel",
			Value:      c.Parallelism,
			Message:    fmt.Sprintf("must be between 1 and %d, got %d", MaxParallelism, c.Parallelism),
			Suggestion: "Use --parallel=1 for sequential processing",
		}
	}

	if c.Verify && strings.TrimSpace(c.Connection) == "" {
		return &ConfigError{
			Field:      "connection",
			Value:      c.Connection,
			Message:    "a connection string is required when verification is enabled",
			Suggestion: "Pass --connection 'postgresql://user@host/db' or drop --verify",
		}
	}

	if c.Output == "" {
		return &ConfigError{
			Field:      "output",
			Value:      c.Output,
			Message:    "output path must not be empty",
			Suggestion: "Use --output - to write to stdout",
		}
	}

	return nil
}
