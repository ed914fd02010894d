package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"nomadtool/internal/config"
	"nomadtool/internal/media"
)

func TestLoadDefaultsUseEnvOMDBKeyAndExpandPaths(t *testing.T) {
	t.Setenv("OMDB_API_KEY", "test-key")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	configPath := filepath.Join(tempHome, "config.toml")
	writeConfig(t, configPath, `
[[destinations]]
name = "local"
path = "~/media"
kind = "local"
`)

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}

	wantStaging := filepath.Join(tempHome, ".local", "share", "nomadtool", "staging")
	if cfg.Paths.StagingDir != wantStaging {
		t.Fatalf("unexpected staging dir: got %q want %q", cfg.Paths.StagingDir, wantStaging)
	}
	if cfg.OMDB.APIKey != "test-key" {
		t.Fatalf("expected OMDb key from env, got %q", cfg.OMDB.APIKey)
	}
	if cfg.OMDB.BaseURL != config.Default().OMDB.BaseURL {
		t.Fatalf("unexpected OMDb base url: %q", cfg.OMDB.BaseURL)
	}
	if cfg.Library.Enabled {
		t.Fatal("expected library integration disabled by default")
	}
	if cfg.Transfer.Retries != 3 {
		t.Fatalf("unexpected retries: %d", cfg.Transfer.Retries)
	}
	if cfg.Transfer.BufferBytes != 1<<20 {
		t.Fatalf("unexpected copy buffer: %d", cfg.Transfer.BufferBytes)
	}
	if cfg.Metadata.Workers != 4 {
		t.Fatalf("unexpected metadata workers: %d", cfg.Metadata.Workers)
	}
	if cfg.Metadata.SimilarityThreshold != 0.70 {
		t.Fatalf("unexpected similarity threshold: %v", cfg.Metadata.SimilarityThreshold)
	}
	if cfg.Transcoder.TimeoutHours != 6 {
		t.Fatalf("unexpected transcode timeout: %d", cfg.Transcoder.TimeoutHours)
	}
	if got := cfg.Destinations[0].Path; got != filepath.Join(tempHome, "media") {
		t.Fatalf("expected local destination path expanded, got %q", got)
	}
}

func TestLoadRequiresDestinations(t *testing.T) {
	t.Setenv("OMDB_API_KEY", "test-key")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	configPath := filepath.Join(tempHome, "config.toml")
	writeConfig(t, configPath, "[paths]\n")

	_, _, _, err := config.Load(configPath)
	if err == nil {
		t.Fatal("expected error for missing destinations")
	}
	if !strings.Contains(err.Error(), "destinations") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadRejectsUnknownDestinationKind(t *testing.T) {
	t.Setenv("OMDB_API_KEY", "test-key")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	configPath := filepath.Join(tempHome, "config.toml")
	writeConfig(t, configPath, `
[[destinations]]
name = "weird"
path = "/mnt/media"
kind = "ftp"
`)

	_, _, _, err := config.Load(configPath)
	if err == nil || !strings.Contains(err.Error(), "kind") {
		t.Fatalf("expected kind validation error, got %v", err)
	}
}

func TestLoadRequiresOMDBKeyWhenMetadataEnabled(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("OMDB_API_KEY", "")
	os.Unsetenv("OMDB_API_KEY")

	configPath := filepath.Join(tempHome, "config.toml")
	writeConfig(t, configPath, `
[[destinations]]
name = "local"
path = "/mnt/media"
kind = "local"
`)

	_, _, _, err := config.Load(configPath)
	if err == nil || !strings.Contains(err.Error(), "omdb.api_key") {
		t.Fatalf("expected omdb.api_key error, got %v", err)
	}
}

func TestLoadAllowsMissingOMDBKeyWhenMetadataDisabled(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("OMDB_API_KEY", "")
	os.Unsetenv("OMDB_API_KEY")

	configPath := filepath.Join(tempHome, "config.toml")
	writeConfig(t, configPath, `
[metadata]
enabled = false

[[destinations]]
name = "local"
path = "/mnt/media"
kind = "local"
`)

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Metadata.Enabled {
		t.Fatal("expected metadata disabled")
	}
}

func TestTargetsPreservePriorityOrderAndKinds(t *testing.T) {
	cfg := config.Default()
	cfg.Destinations = []config.Destination{
		{Name: "share", Path: "//host/media", Kind: "network-share", Username: "u", Password: "p"},
		{Name: "local", Path: "/mnt/media", Kind: "local"},
	}

	targets := cfg.Targets()
	if len(targets) != 2 {
		t.Fatalf("expected two targets, got %d", len(targets))
	}
	if targets[0].Name != "share" || targets[0].Kind != media.TargetShare {
		t.Fatalf("unexpected primary target: %+v", targets[0])
	}
	if !targets[0].IsShare() {
		t.Fatal("expected primary target to be a share")
	}
	if targets[1].Kind != media.TargetLocal {
		t.Fatalf("unexpected failover kind: %v", targets[1].Kind)
	}
}

func TestCreateSampleWritesParseableConfig(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("OMDB_API_KEY", "test-key")

	samplePath := filepath.Join(tempHome, "nested", "config.toml")
	if err := config.CreateSample(samplePath); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}

	cfg, _, exists, err := config.Load(samplePath)
	if err != nil {
		t.Fatalf("Load of sample returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if len(cfg.Destinations) == 0 {
		t.Fatal("expected sample to include destinations")
	}
}

func writeConfig(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}
