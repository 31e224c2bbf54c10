package main

import (
	"context"
	"fmt"
	"log/slog"

	"progress/internal/adapter/memory"
	"progress/internal/adapter/postgres"
	"progress/internal/adapter/sqlite"
	"progress/internal/adapter/supabase"
	"progress/internal/config"
	"progress/internal/domain"
)

func openRepository(_ context.Context, cfg *config.Config, logger *slog.Logger) (domain.ProgressRepository, func() error, error) {
	logger = logger.With("backend", cfg.Storage.Backend, "table", cfg.Storage.Table)

	switch cfg.Storage.Backend {
	case config.BackendSupabase:
		client, err := supabase.New(supabase.Options{
			URL:            cfg.Supabase.URL,
			ServiceRoleKey: cfg.Supabase.ServiceRoleKey,
			Table:          cfg.Storage.Table,
			Timeout:        cfg.SupabaseTimeout(),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("supabase client: %w", err)
		}
		logger.Debug("repository ready", "url", cfg.Supabase.URL)
		return client, func() error { return nil }, nil
	case config.BackendPostgres:
		db, err := postgres.Open(cfg.Storage.DatabaseURL, cfg.Storage.Table)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres: %w", err)
		}
		logger.Debug("repository ready")
		return db, db.Close, nil
	case config.BackendSQLite:
		store, err := sqlite.Open(cfg.Storage.SQLitePath, cfg.Storage.Table)
		if err != nil {
			return nil, nil, fmt.Errorf("sqlite: %w", err)
		}
		logger.Debug("repository ready", "path", cfg.Storage.SQLitePath)
		return store, store.Close, nil
	case config.BackendMemory:
		logger.Warn("memory backend does not persist records between runs")
		return memory.New(), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("%w (got %q)", config.ErrUnknownBackend, cfg.Storage.Backend)
	}
}
