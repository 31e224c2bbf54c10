package app

import (
	"context"
	"fmt"

	"progress/internal/domain"
)

// TrendService builds week-over-week reports from stored records.
type TrendService struct {
	repo domain.ProgressRepository
}

// NewTrendService creates a TrendService backed by the given repository.
func NewTrendService(repo domain.ProgressRepository) *TrendService {
	return &TrendService{repo: repo}
}

// WeekPoint is one row of the trend report.
type WeekPoint struct {
	WeekNumber int     `json:"week_number"`
	Date       string  `json:"date"`
	Weight     float64 `json:"weight"`
	Unit       string  `json:"unit"`
	FatPercent float64 `json:"fat_percent"`
	Waist      float64 `json:"waist"`
	// Change is the weight difference from the previous listed week; nil on
	// the first row.
	Change *float64 `json:"change"`
}

// Weekly returns one point per stored week, weights converted to unit. When
// last is positive only the most recent last weeks are returned; changes are
// still computed against the full history.
func (s *TrendService) Weekly(ctx context.Context, unit string, last int) ([]WeekPoint, error) {
	unit, err := domain.ParseUnit(unit)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("trend: %w", err)
	}

	points := make([]WeekPoint, 0, len(items))
	var prev *float64
	for _, item := range items {
		weight := domain.ConvertWeight(item.Weight, domain.UnitKG, unit)
		p := WeekPoint{
			WeekNumber: item.WeekNumber,
			Date:       item.Date,
			Weight:     weight,
			Unit:       unit,
			FatPercent: item.FatPercent,
			Waist:      item.Waist,
		}
		if prev != nil {
			change := weight - *prev
			p.Change = &change
		}
		prev = &weight
		points = append(points, p)
	}

	if last > 0 && len(points) > last {
		points = points[len(points)-last:]
	}
	return points, nil
}
