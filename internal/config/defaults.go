package config

const (
	BackendSupabase = "supabase"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	// BackendMemory keeps records for the lifetime of one process only.
	BackendMemory   = "memory"
)

const (
	defaultBackend             = BackendSupabase
	defaultTable               = "progress"
	defaultSQLitePath          = "~/.local/share/progress/progress.db"
	defaultSupabaseTimeout     = 30
	defaultPushoverAPIURL      = "https://api.pushover.net/1/messages.json"
	defaultNotificationTitle   = "Supabase Activity"
	defaultNotificationTimeout = 10
	defaultLockPath            = "~/.cache/progress/add.lock"
	defaultLockTimeout         = 10
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultEnvFile             = ".env"
	defaultConfigPath          = "~/.config/progress/config.toml"
	projectConfigName          = "progress.toml"
	minPushoverPriority        = -2
	maxPushoverPriority        = 2
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Storage: Storage{
			Backend: defaultBackend,
			Table:   defaultTable,
		},
		Supabase: Supabase{
			RequestTimeout: defaultSupabaseTimeout,
		},
		Notifications: Notifications{
			Title:          defaultNotificationTitle,
			RequestTimeout: defaultNotificationTimeout,
		},
		Lock: Lock{
			Enabled:        true,
			Path:           defaultLockPath,
			TimeoutSeconds: defaultLockTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
