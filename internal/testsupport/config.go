// Package testsupport holds helpers shared by tests across packages.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"litsieve/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.LLM.APIKey = "test-key"
	cfgVal.Paths.WorkspaceDir = filepath.Join(base, "workspace")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfg := &cfgVal

	for _, opt := range opts {
		opt(cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return cfg
}

// WithAPIKey sets the LLM API key on the test config.
func WithAPIKey(key string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.LLM.APIKey = key
	}
}

// WithMaxRounds sets the fixed-round stop bound on the test config.
func WithMaxRounds(rounds int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Snowball.MaxRounds = rounds
	}
}

// WithWorkers sets the reviewer worker count on the test config.
func WithWorkers(n int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Review.Workers = n
	}
}

// WriteConfig persists cfg as a TOML file under its own workspace parent and
// returns the path, for tests that drive the CLI config loader.
func WriteConfig(t testing.TB, cfg *config.Config) string {
	t.Helper()

	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	path := filepath.Join(filepath.Dir(cfg.Paths.WorkspaceDir), "config.toml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
