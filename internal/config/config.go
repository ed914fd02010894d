package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"nomadtool/internal/media"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	StagingDir string `toml:"staging_dir"`
	LogDir     string `toml:"log_dir"`
}

// OMDB contains configuration for the OMDb metadata API.
type OMDB struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Library contains configuration for the remote media server whose library
// is rescanned after a successful batch.
type Library struct {
	Enabled        bool   `toml:"enabled"`
	URL            string `toml:"url"`
	Password       string `toml:"password"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Destination describes one transfer target. Targets are listed in priority
// order; the first entry is the primary and the rest are failover candidates.
type Destination struct {
	Name     string `toml:"name"`
	Path     string `toml:"path"`
	Kind     string `toml:"kind"`
	Username string `toml:"username"`
	Password string `toml:"password"`
}

// Transcoder contains configuration for the external video transcoder.
type Transcoder struct {
	Binary       string `toml:"binary"`
	Container    string `toml:"container"`
	TimeoutHours int    `toml:"timeout_hours"`
}

// Transfer contains configuration for the copy stage.
type Transfer struct {
	BufferBytes         int     `toml:"buffer_bytes"`
	Retries             int     `toml:"retries"`
	RetryBackoffSeconds int     `toml:"retry_backoff_seconds"`
	FreeSpacePercent    float64 `toml:"free_space_percent"`
	DeleteSource        bool    `toml:"delete_source"`
}

// Metadata contains configuration for metadata enrichment.
type Metadata struct {
	Enabled             bool    `toml:"enabled"`
	Workers             int     `toml:"workers"`
	SimilarityThreshold float64 `toml:"similarity_threshold"`
	Posters             bool    `toml:"posters"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for nomadtool.
//
// Configuration sections by subsystem:
//   - Paths: staging and log directories
//   - OMDB: metadata lookups against the OMDb API
//   - Library: remote media server rescan integration
//   - Destinations: transfer targets in priority order
//   - Transcoder: external encoder binary settings
//   - Transfer: copy buffering, retries, and free-space failover
//   - Metadata: enrichment workers and acceptance threshold
//   - Logging: log format and level
type Config struct {
	Paths        Paths         `toml:"paths"`
	OMDB         OMDB          `toml:"omdb"`
	Library      Library       `toml:"library"`
	Destinations []Destination `toml:"destinations"`
	Transcoder   Transcoder    `toml:"transcoder"`
	Transfer     Transfer      `toml:"transfer"`
	Metadata     Metadata      `toml:"metadata"`
	Logging      Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/nomadtool/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("nomadtool.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for batch operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StagingDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// Targets converts the configured destinations into media targets,
// preserving priority order.
func (c *Config) Targets() []media.Target {
	targets := make([]media.Target, 0, len(c.Destinations))
	for _, dest := range c.Destinations {
		kind := media.TargetLocal
		if dest.Kind == string(media.TargetShare) {
			kind = media.TargetShare
		}
		targets = append(targets, media.Target{
			Name:     dest.Name,
			Path:     dest.Path,
			Kind:     kind,
			Username: dest.Username,
			Password: dest.Password,
		})
	}
	return targets
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
