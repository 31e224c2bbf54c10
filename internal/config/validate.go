package config

import (
	"errors"
	"fmt"
	"net/url"
)

var (
	ErrMissingSupabaseURL = errors.New("supabase.url is required (set SUPABASE_API_URL)")
	ErrMissingSupabaseKey = errors.New("supabase.service_role_key is required (set SUPABASE_SERVICE_ROLE_KEY)")
	ErrMissingDatabaseURL = errors.New("storage.database_url is required for the postgres backend (set DATABASE_URL)")
	ErrMissingSQLitePath  = errors.New("storage.sqlite_path is required for the sqlite backend")
	ErrUnknownBackend     = errors.New("storage.backend must be one of supabase, postgres, sqlite, memory")
)

// Validate ensures the configuration is usable. It never touches the network.
func (c *Config) Validate() error {
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateStorage() error {
	switch c.Storage.Backend {
	case BackendSupabase:
		if c.Supabase.URL == "" {
			return ErrMissingSupabaseURL
		}
		if u, err := url.Parse(c.Supabase.URL); err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("supabase.url %q is not an absolute URL", c.Supabase.URL)
		}
		if c.Supabase.ServiceRoleKey == "" {
			return ErrMissingSupabaseKey
		}
	case BackendPostgres:
		if c.Storage.DatabaseURL == "" {
			return ErrMissingDatabaseURL
		}
	case BackendSQLite:
		if c.Storage.SQLitePath == "" {
			return ErrMissingSQLitePath
		}
	case BackendMemory:
	default:
		return fmt.Errorf("%w (got %q)", ErrUnknownBackend, c.Storage.Backend)
	}
	return nil
}

func (c *Config) validateNotifications() error {
	for name, p := range map[string]int{
		"notifications.priority":       c.Notifications.Priority,
		"notifications.error_priority": c.Notifications.ErrorPriority,
	} {
		if p < minPushoverPriority || p > maxPushoverPriority {
			return fmt.Errorf("%s must be between %d and %d", name, minPushoverPriority, maxPushoverPriority)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error (got %q)", c.Logging.Level)
	}
	return nil
}

// NotificationsConfigured reports whether Pushover credentials are present.
func (c *Config) NotificationsConfigured() bool {
	return c.Notifications.UserKey != "" && c.Notifications.AppToken != ""
}
