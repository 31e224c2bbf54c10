// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"progress/internal/domain"
)

// DB implements an in-memory progress table. Like the SQL stores it rejects a
// second record for the same week.
type DB struct {
	mu      sync.Mutex
	records []domain.ProgressRecord
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{}
}

// Ensure interfaces are met.
var _ domain.ProgressRepository = (*DB)(nil)

// FindByWeek returns records with the given week number.
func (db *DB) FindByWeek(ctx context.Context, week int) ([]domain.ProgressRecord, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var out []domain.ProgressRecord
	for _, r := range db.records {
		if r.WeekNumber == week {
			out = append(out, r)
		}
	}
	return out, nil
}

// Insert stores a copy of rec under a fresh UUID.
func (db *DB) Insert(ctx context.Context, rec domain.ProgressRecord) (*domain.ProgressRecord, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, r := range db.records {
		if r.WeekNumber == rec.WeekNumber {
			return nil, domain.ErrDuplicateWeek
		}
	}
	rec.ID = uuid.NewString()
	db.records = append(db.records, rec)
	return &rec, nil
}

// DeleteByID removes the record with the given id.
func (db *DB) DeleteByID(ctx context.Context, id string) (int, error) {
	return db.deleteWhere(func(r domain.ProgressRecord) bool { return r.ID == id }), nil
}

// DeleteByWeek removes all records with the given week number.
func (db *DB) DeleteByWeek(ctx context.Context, week int) (int, error) {
	return db.deleteWhere(func(r domain.ProgressRecord) bool { return r.WeekNumber == week }), nil
}

func (db *DB) deleteWhere(match func(domain.ProgressRecord) bool) int {
	db.mu.Lock()
	defer db.mu.Unlock()

	kept := db.records[:0]
	removed := 0
	for _, r := range db.records {
		if match(r) {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	db.records = kept
	return removed
}

// ListByWeek returns every record sorted by week number, then date, then id.
func (db *DB) ListByWeek(ctx context.Context) ([]domain.ProgressRecord, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := make([]domain.ProgressRecord, len(db.records))
	copy(result, db.records)

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].WeekNumber != result[j].WeekNumber {
			return result[i].WeekNumber < result[j].WeekNumber
		}
		if result[i].Date != result[j].Date {
			return result[i].Date < result[j].Date
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// ListAll is ListByWeek; memory records are always complete.
func (db *DB) ListAll(ctx context.Context) ([]domain.ProgressRecord, error) {
	return db.ListByWeek(ctx)
}
