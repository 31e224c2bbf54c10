// Package sqlite stores progress records in a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"progress/internal/domain"
)

// SQLITE_CONSTRAINT_UNIQUE extended result code.
const sqliteConstraintUnique = 2067

const recordColumns = "id, week_number, date, weight, fat_percent, bmi, fat_weight, lean_weight, " +
	"neck, shoulders, biceps, forearms, chest, above_navel, navel, waist, hips, thighs, calves"

// Store implements domain.ProgressRepository on SQLite.
type Store struct {
	db    *sql.DB
	path  string
	table string
}

var _ domain.ProgressRepository = (*Store)(nil)

// Open creates or opens the database file at path and ensures the table.
func Open(path, table string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	s := &Store{db: db, path: path, table: quoteIdent(table)}
	if err := s.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (s *Store) initSchema(ctx context.Context) error {
	schema := "CREATE TABLE IF NOT EXISTS " + s.table + ` (
		id TEXT PRIMARY KEY,
		week_number INTEGER NOT NULL UNIQUE,
		date TEXT NOT NULL,
		weight REAL NOT NULL,
		fat_percent REAL NOT NULL DEFAULT 0,
		bmi REAL NOT NULL DEFAULT 0,
		fat_weight REAL NOT NULL DEFAULT 0,
		lean_weight REAL NOT NULL DEFAULT 0,
		neck REAL NOT NULL DEFAULT 0,
		shoulders REAL NOT NULL DEFAULT 0,
		biceps REAL NOT NULL DEFAULT 0,
		forearms REAL NOT NULL DEFAULT 0,
		chest REAL NOT NULL DEFAULT 0,
		above_navel REAL NOT NULL DEFAULT 0,
		navel REAL NOT NULL DEFAULT 0,
		waist REAL NOT NULL DEFAULT 0,
		hips REAL NOT NULL DEFAULT 0,
		thighs REAL NOT NULL DEFAULT 0,
		calves REAL NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteConstraintUnique {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]domain.ProgressRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ProgressRecord
	for rows.Next() {
		var r domain.ProgressRecord
		if err := rows.Scan(&r.ID, &r.WeekNumber, &r.Date, &r.Weight, &r.FatPercent, &r.BMI, &r.FatWeight, &r.LeanWeight,
			&r.Neck, &r.Shoulders, &r.Biceps, &r.Forearms, &r.Chest, &r.AboveNavel, &r.Navel,
			&r.Waist, &r.Hips, &r.Thighs, &r.Calves); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// FindByWeek returns the records stored for a week number.
func (s *Store) FindByWeek(ctx context.Context, week int) ([]domain.ProgressRecord, error) {
	return s.query(ctx, "SELECT "+recordColumns+" FROM "+s.table+" WHERE week_number = ?", week)
}

// Insert stores rec under a new UUID.
func (s *Store) Insert(ctx context.Context, rec domain.ProgressRecord) (*domain.ProgressRecord, error) {
	rec.ID = uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO "+s.table+" ("+recordColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		rec.ID, rec.WeekNumber, rec.Date, rec.Weight, rec.FatPercent, rec.BMI, rec.FatWeight, rec.LeanWeight,
		rec.Neck, rec.Shoulders, rec.Biceps, rec.Forearms, rec.Chest, rec.AboveNavel, rec.Navel,
		rec.Waist, rec.Hips, rec.Thighs, rec.Calves,
	)
	if isUniqueViolation(err) {
		return nil, domain.ErrDuplicateWeek
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// DeleteByID removes the record with the given id.
func (s *Store) DeleteByID(ctx context.Context, id string) (int, error) {
	return s.exec(ctx, "DELETE FROM "+s.table+" WHERE id = ?", id)
}

// DeleteByWeek removes the records for a week number.
func (s *Store) DeleteByWeek(ctx context.Context, week int) (int, error) {
	return s.exec(ctx, "DELETE FROM "+s.table+" WHERE week_number = ?", week)
}

func (s *Store) exec(ctx context.Context, query string, args ...any) (int, error) {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// ListByWeek returns every record ordered by week number.
func (s *Store) ListByWeek(ctx context.Context) ([]domain.ProgressRecord, error) {
	return s.query(ctx, "SELECT "+recordColumns+" FROM "+s.table+" ORDER BY week_number ASC, date ASC, id ASC")
}

// ListAll returns complete records; the listing already selects every column.
func (s *Store) ListAll(ctx context.Context) ([]domain.ProgressRecord, error) {
	return s.ListByWeek(ctx)
}
