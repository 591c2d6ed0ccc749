package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func intPtr(n int) *int { return &n }

// validConfig returns a configuration that passes validation.
func validConfig() *Config {
	return &Config{
		Limit:       1000,
		Strategies:  []string{"limit", "fetch"},
		Parallelism: 1,
		Output:      "-",
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Limit != 1000 {
		t.Errorf("expected default limit 1000, got %d", cfg.Limit)
	}
	if cfg.Offset != nil {
		t.Errorf("expected no default offset, got %d", *cfg.Offset)
	}
	if strings.Join(cfg.Strategies, ",") != "limit,fetch" {
		t.Errorf("expected default strategies limit,fetch, got %v", cfg.Strategies)
	}
	if cfg.Parallelism != 1 {
		t.Errorf("expected default parallelism 1, got %d", cfg.Parallelism)
	}
	if cfg.Output != "-" {
		t.Errorf("expected default output '-', got '%s'", cfg.Output)
	}
	if cfg.Verbose {
		t.Error("expected default verbose false")
	}
}

func TestLoadConfig_DoesNotShareDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Strategies[0] = "fetch"
	if DefaultConfig.Strategies[0] != "limit" {
		t.Fatal("LoadConfig returned a config aliasing DefaultConfig")
	}
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	content := "limit: 50\noffset: 5\nstrategies: [fetch]\nparallel: 4\nverbose: true\n"
	if err := os.WriteFile(DefaultConfigFile, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Limit != 50 || cfg.Offset == nil || *cfg.Offset != 5 {
		t.Errorf("limit/offset from file: %d/%v", cfg.Limit, cfg.Offset)
	}
	if len(cfg.Strategies) != 1 || cfg.Strategies[0] != "fetch" {
		t.Errorf("strategies from file: %v", cfg.Strategies)
	}
	if cfg.Parallelism != 4 || !cfg.Verbose {
		t.Errorf("parallel/verbose from file: %d/%v", cfg.Parallelism, cfg.Verbose)
	}
	if cfg.Output != "-" {
		t.Errorf("unset keys should keep defaults, output = %q", cfg.Output)
	}
}

func TestLoadConfig_ExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(path, []byte("limit: 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Limit != 7 {
		t.Errorf("limit = %d, want 7", cfg.Limit)
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestLoadConfig_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Limit != DefaultConfig.Limit {
		t.Errorf("limit = %d, want default", cfg.Limit)
	}
}

func TestLoadConfig_UnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typo.yaml")
	if err := os.WriteFile(path, []byte("limt: 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadConfig(path)

	var configErr *ConfigError
	if !errors.As(err, &configErr) {
		t.Fatalf("expected ConfigError, got %T (%v)", err, err)
	}
	if configErr.Field != "config" {
		t.Errorf("expected error field 'config', got '%s'", configErr.Field)
	}
}

func TestApplyFlagsToConfig_Overrides(t *testing.T) {
	cfg := validConfig()

	ApplyFlagsToConfig(cfg, Flags{
		Limit:       intPtr(0),
		Offset:      intPtr(20),
		Strategies:  []string{"fetch"},
		Parallelism: 4,
		Connection:  "postgres://localhost/db",
		Verify:      true,
		Output:      "out.sql",
		Verbose:     true,
	})

	if cfg.Limit != 0 {
		t.Errorf("expected limit from flag 0, got %d", cfg.Limit)
	}
	if cfg.Offset == nil || *cfg.Offset != 20 {
		t.Errorf("expected offset from flag 20, got %v", cfg.Offset)
	}
	if len(cfg.Strategies) != 1 || cfg.Strategies[0] != "fetch" {
		t.Errorf("expected strategies from flag [fetch], got %v", cfg.Strategies)
	}
	if cfg.Parallelism != 4 {
		t.Errorf("expected parallelism from flag 4, got %d", cfg.Parallelism)
	}
	if cfg.Connection != "postgres://localhost/db" || !cfg.Verify {
		t.Errorf("expected verification from flags, got %q/%v", cfg.Connection, cfg.Verify)
	}
	if cfg.Output != "out.sql" || !cfg.Verbose {
		t.Errorf("expected output/verbose from flags, got %q/%v", cfg.Output, cfg.Verbose)
	}
}

func TestApplyFlagsToConfig_EmptyFlagsPreserveConfig(t *testing.T) {
	cfg := validConfig()
	cfg.Offset = intPtr(3)

	ApplyFlagsToConfig(cfg, Flags{})

	if cfg.Limit != 1000 {
		t.Errorf("nil flag should not change limit")
	}
	if cfg.Offset == nil || *cfg.Offset != 3 {
		t.Errorf("nil flag should not change offset")
	}
	if len(cfg.Strategies) != 2 {
		t.Errorf("empty flag should not change strategies")
	}
	if cfg.Parallelism != 1 {
		t.Errorf("zero flag should not change parallelism")
	}
	if cfg.Output != "-" {
		t.Errorf("empty flag should not change output")
	}
}

func TestConfigValidate_ValidConfig(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Errorf("valid config should not return error: %v", err)
	}
}

func TestConfigValidate_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"negative limit", func(c *Config) { c.Limit = -1 }, "limit"},
		{"negative offset", func(c *Config) { c.Offset = intPtr(-1) }, "offset"},
		{"no strategies", func(c *Config) { c.Strategies = nil }, "strategies"},
		{"zero parallelism", func(c *Config) { c.Parallelism = 0 }, "parallel"},
		{"too high parallelism", func(c *Config) { c.Parallelism = 1000 }, "parallel"},
		{"verify without connection", func(c *Config) { c.Verify = true }, "connection"},
		{"empty output", func(c *Config) { c.Output = "" }, "output"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}

			configErr, ok := err.(*ConfigError)
			if !ok {
				t.Fatalf("expected ConfigError, got %T", err)
			}
			if configErr.Field != tt.field {
				t.Errorf("expected error field '%s', got '%s'", tt.field, configErr.Field)
			}
			if configErr.Suggestion == "" {
				t.Error("expected suggestion to be provided")
			}
		})
	}
}

// chdir changes the working directory for the rest of the test and restores
// it on cleanup (stands in for testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(old) })
}
