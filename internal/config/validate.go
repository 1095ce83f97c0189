package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateProfile(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateStorage() error {
	if strings.TrimSpace(c.Storage.Root) == "" {
		return errors.New("storage.root must be set")
	}
	return nil
}

func (c *Config) validateProfile() error {
	layout := strings.TrimSpace(c.Profile.DateLayout)
	if layout == "" {
		return errors.New("profile.date_layout must be set")
	}
	// A layout without any reference component comes back unchanged.
	sample := time.Date(2001, time.February, 3, 4, 5, 6, 0, time.UTC)
	if sample.Format(layout) == layout {
		return fmt.Errorf("profile.date_layout %q contains no date components", layout)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
