package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"bookkeep/internal/config"
	"bookkeep/internal/logging"
	"bookkeep/internal/store"
)

type commandContext struct {
	configFlag *string
	sessionID  string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		sessionID:  uuid.NewString(),
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.loggerErr = fmt.Errorf("init logger: %w", err)
			return
		}
		if dir := cfg.Logging.Dir; dir != "" {
			logging.CleanupOldLogs(logger, cfg.Logging.RetentionDays, logging.RetentionTarget{
				Dir:     dir,
				Pattern: logging.LogFilePattern,
				Exclude: []string{logging.LogFilePath(dir, time.Now())},
			})
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

// withStore opens the configured storage root, runs the idempotent bootstrap
// and hands the store to fn. The store is closed when fn returns.
func (c *commandContext) withStore(cmd *cobra.Command, fn func(ctx context.Context, s *store.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return err
	}
	ctx := logging.WithSessionID(cmd.Context(), c.sessionID)

	s, err := store.Open(cfg.Storage.Root, logger, store.OptionsFromConfig(cfg))
	if err != nil {
		return wrapOpenError(err, cfg.Storage.Root)
	}
	defer s.Close()

	s.EnsureStorageInitialized(ctx)
	return fn(ctx, s)
}

func wrapOpenError(err error, root string) error {
	switch {
	case errors.Is(err, store.ErrLocked):
		return fmt.Errorf("open library: %s is in use by another bookkeep process", root)
	case errors.Is(err, store.ErrStorageRoot):
		return fmt.Errorf("open library: %w; check storage.root in the config file", err)
	default:
		return fmt.Errorf("open library: %w", err)
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
