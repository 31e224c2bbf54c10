package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeStorage()
	c.normalizeSupabase()
	c.normalizeNotifications()
	c.normalizeLogging()

	var err error
	if c.Storage.SQLitePath, err = ExpandPath(c.Storage.SQLitePath); err != nil {
		return fmt.Errorf("storage.sqlite_path: %w", err)
	}
	if strings.TrimSpace(c.Lock.Path) == "" {
		c.Lock.Path = defaultLockPath
	}
	if c.Lock.Path, err = ExpandPath(c.Lock.Path); err != nil {
		return fmt.Errorf("lock.path: %w", err)
	}
	if c.Lock.TimeoutSeconds < 0 {
		c.Lock.TimeoutSeconds = 0
	}
	return nil
}

// fillFromEnv sets *dst from the first non-empty variable in keys when *dst
// is empty.
func fillFromEnv(dst *string, keys ...string) {
	if strings.TrimSpace(*dst) != "" {
		*dst = strings.TrimSpace(*dst)
		return
	}
	for _, key := range keys {
		if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
			*dst = strings.TrimSpace(value)
			return
		}
	}
}

func (c *Config) normalizeStorage() {
	if value, ok := os.LookupEnv("PROGRESS_BACKEND"); ok && strings.TrimSpace(value) != "" {
		c.Storage.Backend = value
	}
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	if c.Storage.Backend == "" {
		c.Storage.Backend = defaultBackend
	}

	if value, ok := os.LookupEnv("SUPABASE_TABLE"); ok && strings.TrimSpace(value) != "" {
		c.Storage.Table = value
	}
	c.Storage.Table = strings.TrimSpace(c.Storage.Table)
	if c.Storage.Table == "" {
		c.Storage.Table = defaultTable
	}

	fillFromEnv(&c.Storage.DatabaseURL, "DATABASE_URL", "SUPABASE_DB_URL")
	fillFromEnv(&c.Storage.SQLitePath, "PROGRESS_SQLITE_PATH")
	if c.Storage.SQLitePath == "" {
		c.Storage.SQLitePath = defaultSQLitePath
	}
}

func (c *Config) normalizeSupabase() {
	fillFromEnv(&c.Supabase.URL, "SUPABASE_API_URL", "SUPABASE_URL")
	fillFromEnv(&c.Supabase.ServiceRoleKey, "SUPABASE_SERVICE_ROLE_KEY")
	c.Supabase.URL = strings.TrimRight(c.Supabase.URL, "/")
	if c.Supabase.RequestTimeout <= 0 {
		c.Supabase.RequestTimeout = defaultSupabaseTimeout
	}
}

func (c *Config) normalizeNotifications() {
	fillFromEnv(&c.Notifications.UserKey, "PUSHOVER_USER_KEY")
	fillFromEnv(&c.Notifications.AppToken, "PUSHOVER_TOKEN", "PUSHOVER_APP_TOKEN")
	fillFromEnv(&c.Notifications.APIURL, "PUSHOVER_API_URL")
	if c.Notifications.APIURL == "" {
		c.Notifications.APIURL = defaultPushoverAPIURL
	}
	c.Notifications.Title = strings.TrimSpace(c.Notifications.Title)
	if c.Notifications.Title == "" {
		c.Notifications.Title = defaultNotificationTitle
	}
	c.Notifications.Sound = strings.TrimSpace(c.Notifications.Sound)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotificationTimeout
	}
}

func (c *Config) normalizeLogging() {
	if value, ok := os.LookupEnv("PROGRESS_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	if value, ok := os.LookupEnv("PROGRESS_LOG_FORMAT"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Format = value
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
}

// NotificationsFromEnv returns notification settings built from defaults and
// the environment only. It lets callers report a failure when the full
// configuration cannot be loaded.
func NotificationsFromEnv() Notifications {
	cfg := Default()
	cfg.normalizeNotifications()
	return cfg.Notifications
}
