package testsupport

import (
	"path/filepath"
	"testing"

	"nomadtool/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories and a
// single local destination per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.OMDB.APIKey = "test"
	cfg.Paths.StagingDir = filepath.Join(base, "staging")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Destinations = []config.Destination{
		{Name: "library", Path: filepath.Join(base, "library"), Kind: "local"},
	}

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithDestinations replaces the test destinations.
func WithDestinations(destinations ...config.Destination) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Destinations = destinations
	}
}

// WithMetadataDisabled turns off enrichment for tests without a provider.
func WithMetadataDisabled() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Metadata.Enabled = false
	}
}
