package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeStorage(); err != nil {
		return err
	}
	c.normalizeProfile()
	return c.normalizeLogging()
}

func (c *Config) normalizeStorage() error {
	if value, ok := os.LookupEnv("BOOKKEEP_ROOT"); ok && strings.TrimSpace(value) != "" {
		c.Storage.Root = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Storage.Root) == "" {
		c.Storage.Root = defaultStorageRoot()
	}
	var err error
	if c.Storage.Root, err = expandPath(strings.TrimSpace(c.Storage.Root)); err != nil {
		return fmt.Errorf("storage.root: %w", err)
	}
	return nil
}

func (c *Config) normalizeProfile() {
	c.Profile.DefaultUsername = strings.TrimSpace(c.Profile.DefaultUsername)
	if c.Profile.DefaultUsername == "" {
		c.Profile.DefaultUsername = defaultUsername
	}
	if strings.TrimSpace(c.Profile.DateLayout) == "" {
		c.Profile.DateLayout = defaultDateLayout
	}
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
	if strings.TrimSpace(c.Logging.Dir) != "" {
		var err error
		if c.Logging.Dir, err = expandPath(strings.TrimSpace(c.Logging.Dir)); err != nil {
			return fmt.Errorf("logging.dir: %w", err)
		}
	}
	return nil
}
