package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeOMDB(); err != nil {
		return err
	}
	if err := c.normalizeDestinations(); err != nil {
		return err
	}
	c.normalizeLibrary()
	c.normalizeTranscoder()
	c.normalizeTransfer()
	c.normalizeMetadata()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeOMDB() error {
	if c.OMDB.APIKey == "" {
		if value, ok := os.LookupEnv("OMDB_API_KEY"); ok {
			c.OMDB.APIKey = value
		}
	}
	c.OMDB.BaseURL = strings.TrimSpace(c.OMDB.BaseURL)
	if c.OMDB.BaseURL == "" {
		c.OMDB.BaseURL = defaultOMDBBaseURL
	}
	if c.OMDB.TimeoutSeconds <= 0 {
		c.OMDB.TimeoutSeconds = defaultOMDBTimeoutSeconds
	}
	return nil
}

func (c *Config) normalizeDestinations() error {
	for i := range c.Destinations {
		dest := &c.Destinations[i]
		dest.Name = strings.TrimSpace(dest.Name)
		dest.Kind = strings.ToLower(strings.TrimSpace(dest.Kind))
		if dest.Kind == "" {
			dest.Kind = "local"
		}
		if dest.Kind == "local" {
			expanded, err := expandPath(dest.Path)
			if err != nil {
				return fmt.Errorf("destinations[%d].path: %w", i, err)
			}
			dest.Path = expanded
		} else {
			dest.Path = strings.TrimSpace(dest.Path)
		}
		if dest.Name == "" {
			dest.Name = fmt.Sprintf("destination-%d", i+1)
		}
	}
	return nil
}

func (c *Config) normalizeLibrary() {
	c.Library.URL = strings.TrimRight(strings.TrimSpace(c.Library.URL), "/")
	if c.Library.TimeoutSeconds <= 0 {
		c.Library.TimeoutSeconds = defaultLibraryTimeoutSeconds
	}
}

func (c *Config) normalizeTranscoder() {
	c.Transcoder.Binary = strings.TrimSpace(c.Transcoder.Binary)
	if c.Transcoder.Binary == "" {
		c.Transcoder.Binary = defaultTranscoderBinary
	}
	c.Transcoder.Container = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(c.Transcoder.Container)), ".")
	if c.Transcoder.Container == "" {
		c.Transcoder.Container = defaultTranscoderContainer
	}
	if c.Transcoder.TimeoutHours <= 0 {
		c.Transcoder.TimeoutHours = defaultTranscodeTimeoutHours
	}
}

func (c *Config) normalizeTransfer() {
	if c.Transfer.BufferBytes <= 0 {
		c.Transfer.BufferBytes = defaultCopyBufferBytes
	}
	if c.Transfer.Retries <= 0 {
		c.Transfer.Retries = defaultCopyRetries
	}
	if c.Transfer.RetryBackoffSeconds <= 0 {
		c.Transfer.RetryBackoffSeconds = defaultRetryBackoffSeconds
	}
	if c.Transfer.FreeSpacePercent <= 0 {
		c.Transfer.FreeSpacePercent = defaultFreeSpacePercent
	}
}

func (c *Config) normalizeMetadata() {
	if c.Metadata.Workers <= 0 {
		c.Metadata.Workers = defaultMetadataWorkers
	}
	if c.Metadata.SimilarityThreshold <= 0 {
		c.Metadata.SimilarityThreshold = defaultSimilarityThreshold
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
