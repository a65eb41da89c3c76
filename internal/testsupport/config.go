// Package testsupport provides shared helpers for package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"gamedex/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// The search cache is disabled and fake IGDB credentials are set so clients
// can be constructed without real secrets.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LibrarySourceFile = filepath.Join(base, "library_export.csv")
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.HLTB.CachePath = ""
	cfg.IGDB.ClientID = "test-client"
	cfg.IGDB.ClientSecret = "test-secret"
	cfg.IGDB.RequestDelayMS = 0

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithRefreshWindow overrides the trailing re-query window.
func WithRefreshWindow(months int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.HLTB.RefreshWindowMonths = months
	}
}
