// Package domain contains the core business entities and interfaces.
package domain

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DateLayout is the calendar date format stored in the date column.
const DateLayout = "2006-01-02"

var (
	// ErrDuplicateWeek indicates a record with the same week number already exists.
	ErrDuplicateWeek = errors.New("entry with this week number already exists")
	// ErrInvalidRecord indicates a record failed validation.
	ErrInvalidRecord = errors.New("invalid progress record")
)

// ProgressRecord is one weekly set of body measurements. WeekNumber is the
// business key; ID is assigned by the store at insert time.
type ProgressRecord struct {
	ID         string  `json:"id,omitempty" toml:"-"`
	WeekNumber int     `json:"week_number" toml:"week_number"`
	Date       string  `json:"date" toml:"date"`
	Weight     float64 `json:"weight" toml:"weight"`
	FatPercent float64 `json:"fat_percent" toml:"fat_percent"`
	BMI        float64 `json:"bmi" toml:"bmi"`
	FatWeight  float64 `json:"fat_weight" toml:"fat_weight"`
	LeanWeight float64 `json:"lean_weight" toml:"lean_weight"`
	Neck       float64 `json:"neck" toml:"neck"`
	Shoulders  float64 `json:"shoulders" toml:"shoulders"`
	Biceps     float64 `json:"biceps" toml:"biceps"`
	Forearms   float64 `json:"forearms" toml:"forearms"`
	Chest      float64 `json:"chest" toml:"chest"`
	AboveNavel float64 `json:"above_navel" toml:"above_navel"`
	Navel      float64 `json:"navel" toml:"navel"`
	Waist      float64 `json:"waist" toml:"waist"`
	Hips       float64 `json:"hips" toml:"hips"`
	Thighs     float64 `json:"thighs" toml:"thighs"`
	Calves     float64 `json:"calves" toml:"calves"`
}

// DefaultRecord returns the stock week-1 entry dated on the given day.
func DefaultRecord(date time.Time) ProgressRecord {
	return ProgressRecord{
		WeekNumber: 1,
		Date:       date.In(time.Local).Format(DateLayout),
		Weight:     75,
		FatPercent: 0.09,
		BMI:        25,
		FatWeight:  7.5,
		LeanWeight: 67.5,
		Neck:       16,
		Shoulders:  18,
		Biceps:     19,
		Forearms:   13,
		Chest:      40,
		AboveNavel: 36,
		Navel:      38,
		Waist:      38,
		Hips:       40,
		Thighs:     22,
		Calves:     15,
	}
}

// Validate checks the record before it is written.
func (r ProgressRecord) Validate() error {
	if r.WeekNumber < 1 {
		return fmt.Errorf("%w: week_number must be >= 1", ErrInvalidRecord)
	}
	if _, err := time.Parse(DateLayout, r.Date); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidRecord)
	}
	if r.Weight <= 0 {
		return fmt.Errorf("%w: weight must be > 0", ErrInvalidRecord)
	}
	if r.FatPercent < 0 || r.FatPercent > 1 {
		return fmt.Errorf("%w: fat_percent must be within [0, 1]", ErrInvalidRecord)
	}
	for name, v := range r.measurements() {
		if v < 0 {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalidRecord, name)
		}
	}
	return nil
}

func (r ProgressRecord) measurements() map[string]float64 {
	return map[string]float64{
		"bmi":         r.BMI,
		"fat_weight":  r.FatWeight,
		"lean_weight": r.LeanWeight,
		"neck":        r.Neck,
		"shoulders":   r.Shoulders,
		"biceps":      r.Biceps,
		"forearms":    r.Forearms,
		"chest":       r.Chest,
		"above_navel": r.AboveNavel,
		"navel":       r.Navel,
		"waist":       r.Waist,
		"hips":        r.Hips,
		"thighs":      r.Thighs,
		"calves":      r.Calves,
	}
}

// ProgressRepository is the port for progress persistence.
//
// DeleteByID and DeleteByWeek return the number of rows removed. Insert
// returns ErrDuplicateWeek when the store itself rejects a second record for
// the same week. ListByWeek may return only the listing columns (id, week,
// date, weight); ListAll returns complete records in the same order.
type ProgressRepository interface {
	FindByWeek(ctx context.Context, week int) ([]ProgressRecord, error)
	Insert(ctx context.Context, rec ProgressRecord) (*ProgressRecord, error)
	DeleteByID(ctx context.Context, id string) (int, error)
	DeleteByWeek(ctx context.Context, week int) (int, error)
	ListByWeek(ctx context.Context) ([]ProgressRecord, error)
	ListAll(ctx context.Context) ([]ProgressRecord, error)
}
