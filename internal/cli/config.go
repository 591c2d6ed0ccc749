package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/cybertec-postgresql/sqllimit/pkg/types"
	"gopkg.in/yaml.v3"
)

// Config is an alias for the shared Config type
type Config = types.Config

// ConfigError is an alias for the shared ConfigError type
type ConfigError = types.ConfigError

// DefaultConfigFile is read when present and no --config is given
const DefaultConfigFile = ".sqllimit.yaml"

// DefaultConfig provides default configuration values
var DefaultConfig = Config{
	Limit:       1000,
	Offset:      nil,
	Strategies:  []string{"limit", "fetch"},
	Parallelism: 1,
	Output:      "-",
	Verbose:     false,
}

// LoadConfig returns the defaults overlaid with a YAML config file.
//
// An explicit path must exist. With an empty path DefaultConfigFile is used
// when it exists and silently skipped when it does not.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig
	cfg.Strategies = append([]string(nil), DefaultConfig.Strategies...)

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	f, err := os.Open(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, &ConfigError{
			Field:      "config",
			Value:      path,
			Message:    err.Error(),
			Suggestion: "Check the file against the keys: limit, offset, strategies, parallel, connection, verify, output, verbose",
		}
	}
	return &cfg, nil
}

// Flags carries command-line values. Nil pointers and zero values mean the
// flag was not given and leave the configuration untouched.
type Flags struct {
	Limit       *int
	Offset      *int
	Strategies  []string
	Parallelism int
	Connection  string
	Verify      bool
	Output      string
	Verbose     bool
}

// ApplyFlagsToConfig applies command-line flag values to configuration
func ApplyFlagsToConfig(c *Config, f Flags) {
	if f.Limit != nil {
		c.Limit = *f.Limit
	}
	if f.Offset != nil {
		offset := *f.Offset
		c.Offset = &offset
	}
	if len(f.Strategies) > 0 {
		c.Strategies = f.Strategies
	}
	if f.Parallelism != 0 {
		c.Parallelism = f.Parallelism
	}
	if f.Connection != "" {
		c.Connection = f.Connection
	}
	if f.Verify {
		c.Verify = true
	}
	if f.Output != "" {
		c.Output = f.Output
	}
	if f.Verbose {
		c.Verbose = true
	}
}
