package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"progress/internal/domain"
)

const uniqueViolation = "23505"

const recordColumns = "id, week_number, date, weight, fat_percent, bmi, fat_weight, lean_weight, " +
	"neck, shoulders, biceps, forearms, chest, above_navel, navel, waist, hips, thighs, calves"

var _ domain.ProgressRepository = (*DB)(nil)

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (domain.ProgressRecord, error) {
	var (
		r    domain.ProgressRecord
		date time.Time
	)
	err := s.Scan(&r.ID, &r.WeekNumber, &date, &r.Weight, &r.FatPercent, &r.BMI, &r.FatWeight, &r.LeanWeight,
		&r.Neck, &r.Shoulders, &r.Biceps, &r.Forearms, &r.Chest, &r.AboveNavel, &r.Navel,
		&r.Waist, &r.Hips, &r.Thighs, &r.Calves)
	r.Date = date.Format(domain.DateLayout)
	return r, err
}

func (d *DB) query(ctx context.Context, query string, args ...any) ([]domain.ProgressRecord, error) {
	rows, err := d.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var out []domain.ProgressRecord
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// FindByWeek returns the records stored for a week number.
func (d *DB) FindByWeek(ctx context.Context, week int) ([]domain.ProgressRecord, error) {
	return d.query(ctx, "SELECT "+recordColumns+" FROM "+d.table+" WHERE week_number=$1;", week)
}

// Insert stores rec under a new UUID. A unique violation on week_number is
// reported as domain.ErrDuplicateWeek.
func (d *DB) Insert(ctx context.Context, rec domain.ProgressRecord) (*domain.ProgressRecord, error) {
	rec.ID = uuid.NewString()
	_, err := d.sql.ExecContext(ctx,
		"INSERT INTO "+d.table+"("+recordColumns+") VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);",
		rec.ID, rec.WeekNumber, rec.Date, rec.Weight, rec.FatPercent, rec.BMI, rec.FatWeight, rec.LeanWeight,
		rec.Neck, rec.Shoulders, rec.Biceps, rec.Forearms, rec.Chest, rec.AboveNavel, rec.Navel,
		rec.Waist, rec.Hips, rec.Thighs, rec.Calves,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
		return nil, domain.ErrDuplicateWeek
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// DeleteByID removes the record with the given id.
func (d *DB) DeleteByID(ctx context.Context, id string) (int, error) {
	return d.exec(ctx, "DELETE FROM "+d.table+" WHERE id::text=$1;", id)
}

// DeleteByWeek removes the records for a week number.
func (d *DB) DeleteByWeek(ctx context.Context, week int) (int, error) {
	return d.exec(ctx, "DELETE FROM "+d.table+" WHERE week_number=$1;", week)
}

func (d *DB) exec(ctx context.Context, query string, args ...any) (int, error) {
	res, err := d.sql.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// ListByWeek returns every record ordered by week number.
func (d *DB) ListByWeek(ctx context.Context) ([]domain.ProgressRecord, error) {
	return d.query(ctx, "SELECT "+recordColumns+" FROM "+d.table+" ORDER BY week_number ASC, date ASC, id ASC;")
}

// ListAll returns complete records; the listing already selects every column.
func (d *DB) ListAll(ctx context.Context) ([]domain.ProgressRecord, error) {
	return d.ListByWeek(ctx)
}
