// Package postgres implements the domain repositories using PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// DB wraps a *sql.DB and implements domain repository interfaces.
type DB struct {
	sql   *sql.DB
	table string
}

// Open connects to PostgreSQL, pings, and creates the progress table when it
// does not exist yet.
func Open(connStr, table string) (*DB, error) {
	s, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	s.SetMaxOpenConns(2)
	s.SetMaxIdleConns(1)
	s.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.PingContext(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}

	d := &DB{sql: s, table: pq.QuoteIdentifier(table)}
	if err := d.migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) migrate(ctx context.Context) error {
	stmts := []string{
		"CREATE TABLE IF NOT EXISTS " + d.table + ` (
			id UUID PRIMARY KEY,
			week_number INTEGER NOT NULL UNIQUE,
			date DATE NOT NULL,
			weight DOUBLE PRECISION NOT NULL,
			fat_percent DOUBLE PRECISION NOT NULL DEFAULT 0,
			bmi DOUBLE PRECISION NOT NULL DEFAULT 0,
			fat_weight DOUBLE PRECISION NOT NULL DEFAULT 0,
			lean_weight DOUBLE PRECISION NOT NULL DEFAULT 0,
			neck DOUBLE PRECISION NOT NULL DEFAULT 0,
			shoulders DOUBLE PRECISION NOT NULL DEFAULT 0,
			biceps DOUBLE PRECISION NOT NULL DEFAULT 0,
			forearms DOUBLE PRECISION NOT NULL DEFAULT 0,
			chest DOUBLE PRECISION NOT NULL DEFAULT 0,
			above_navel DOUBLE PRECISION NOT NULL DEFAULT 0,
			navel DOUBLE PRECISION NOT NULL DEFAULT 0,
			waist DOUBLE PRECISION NOT NULL DEFAULT 0,
			hips DOUBLE PRECISION NOT NULL DEFAULT 0,
			thighs DOUBLE PRECISION NOT NULL DEFAULT 0,
			calves DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
	}

	for _, stmt := range stmts {
		if _, err := d.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
