package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateOMDB(); err != nil {
		return err
	}
	if err := c.validateLibrary(); err != nil {
		return err
	}
	if err := c.validateDestinations(); err != nil {
		return err
	}
	if err := c.validateTransfer(); err != nil {
		return err
	}
	if err := c.validateMetadata(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateOMDB() error {
	if !c.Metadata.Enabled {
		return nil
	}
	if c.OMDB.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/nomadtool/config.toml"
		}
		return fmt.Errorf("omdb.api_key is required when metadata.enabled is true. Set OMDB_API_KEY env var or edit %s (create with 'nomadtool config init')", defaultPath)
	}
	return nil
}

func (c *Config) validateLibrary() error {
	if !c.Library.Enabled {
		return nil
	}
	if c.Library.URL == "" {
		return errors.New("library.url must be set when library.enabled is true")
	}
	if c.Library.Password == "" {
		return errors.New("library.password must be set when library.enabled is true")
	}
	return nil
}

func (c *Config) validateDestinations() error {
	if len(c.Destinations) == 0 {
		return errors.New("at least one [[destinations]] entry must be configured")
	}
	seen := make(map[string]struct{}, len(c.Destinations))
	for i, dest := range c.Destinations {
		if dest.Path == "" {
			return fmt.Errorf("destinations[%d].path must be set", i)
		}
		if dest.Kind != "local" && dest.Kind != "network-share" {
			return fmt.Errorf("destinations[%d].kind must be local or network-share, got %q", i, dest.Kind)
		}
		if _, dup := seen[dest.Name]; dup {
			return fmt.Errorf("destinations[%d].name %q is duplicated", i, dest.Name)
		}
		seen[dest.Name] = struct{}{}
	}
	return nil
}

func (c *Config) validateTransfer() error {
	if c.Transfer.FreeSpacePercent >= 100 {
		return errors.New("transfer.free_space_percent must be below 100")
	}
	return nil
}

func (c *Config) validateMetadata() error {
	if c.Metadata.SimilarityThreshold > 1 {
		return errors.New("metadata.similarity_threshold must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
