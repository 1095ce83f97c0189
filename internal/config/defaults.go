package config

const (
	defaultConfigPath          = "~/.config/bookkeep/config.toml"
	defaultStorageRootFallback = "~/.local/share/bookkeep"
	defaultStorageLock         = true
	defaultUsername            = "User"
	// Medium date style without a time component, e.g. "Jan 9, 2025".
	defaultDateLayout       = "Jan 2, 2006"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogRetentionDays = 30
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Storage: Storage{
			Root: defaultStorageRoot(),
			Lock: defaultStorageLock,
		},
		Profile: Profile{
			DefaultUsername: defaultUsername,
			DateLayout:      defaultDateLayout,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
