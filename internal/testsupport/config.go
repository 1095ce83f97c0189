package testsupport

import (
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"bookkeep/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Locking is disabled so several stores may share a root within one test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Storage.Root = filepath.Join(base, "library")
	cfgVal.Storage.Lock = false
	cfgVal.Logging.Dir = filepath.Join(base, "logs")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithLock enables the storage root lock.
func WithLock() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Storage.Lock = true
	}
}

// WithUsername overrides the default profile username.
func WithUsername(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Profile.DefaultUsername = name
	}
}

// WithRoot points the storage root at a directory below the test base.
func WithRoot(rel string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Storage.Root = filepath.Join(b.baseDir, rel)
	}
}

// WriteConfigFile encodes cfg as TOML at path, creating parent directories.
func WriteConfigFile(t testing.TB, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	WriteFile(t, path, data)
}
