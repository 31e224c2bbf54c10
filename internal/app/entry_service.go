// Package app holds the application services and business logic.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"progress/internal/domain"
)

// Locker serialises add runs that share a store. Lock returns a release
// function that must be called once the critical section is done.
type Locker interface {
	Lock(ctx context.Context) (func() error, error)
}

// EntryService encapsulates the add, remove and list use cases.
type EntryService struct {
	repo   domain.ProgressRepository
	locker Locker
	logger *slog.Logger
}

// NewEntryService creates an EntryService backed by the given repository.
// locker may be nil; logger defaults to slog.Default().
func NewEntryService(repo domain.ProgressRepository, locker Locker, logger *slog.Logger) *EntryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &EntryService{
		repo:   repo,
		locker: locker,
		logger: logger.With("component", "entries"),
	}
}

// AddEntry inserts rec unless a record with the same week number already
// exists. An existing record yields OutcomeDuplicate and no write.
func (s *EntryService) AddEntry(ctx context.Context, rec domain.ProgressRecord) domain.Outcome {
	out := domain.Outcome{Action: domain.ActionAdd, Identifier: domain.WeekIdentifier(rec.WeekNumber)}

	if err := rec.Validate(); err != nil {
		return s.fail(out, err)
	}

	if s.locker != nil {
		unlock, err := s.locker.Lock(ctx)
		if err != nil {
			return s.fail(out, fmt.Errorf("acquire add lock: %w", err))
		}
		defer func() {
			if err := unlock(); err != nil {
				s.logger.Warn("release add lock", "error", err)
			}
		}()
	}

	s.logger.Debug("checking for existing entry", "week_number", rec.WeekNumber)
	existing, err := s.repo.FindByWeek(ctx, rec.WeekNumber)
	if err != nil {
		return s.fail(out, fmt.Errorf("lookup %s: %w", out.Identifier, err))
	}
	if len(existing) > 0 {
		out.Kind = domain.OutcomeDuplicate
		out.Existing = &existing[0]
		s.logger.Info("entry already exists", "week_number", rec.WeekNumber, "id", existing[0].ID)
		return out
	}

	stored, err := s.repo.Insert(ctx, rec)
	if errors.Is(err, domain.ErrDuplicateWeek) {
		// Another writer inserted the week between lookup and insert.
		out.Kind = domain.OutcomeDuplicate
		s.logger.Info("entry inserted concurrently", "week_number", rec.WeekNumber)
		return out
	}
	if err != nil {
		return s.fail(out, fmt.Errorf("insert %s: %w", out.Identifier, err))
	}

	out.Kind = domain.OutcomeCreated
	out.Record = stored
	s.logger.Info("entry created", "week_number", stored.WeekNumber, "id", stored.ID)
	return out
}

// RemoveSelector picks the record(s) to delete. ID takes precedence over
// WeekNumber when both are set.
type RemoveSelector struct {
	ID         string
	WeekNumber *int
}

// RemoveEntry deletes by surrogate id or by week number.
func (s *EntryService) RemoveEntry(ctx context.Context, sel RemoveSelector) domain.Outcome {
	out := domain.Outcome{Action: domain.ActionRemove}

	var (
		affected int
		err      error
	)
	switch {
	case sel.ID != "":
		out.Identifier = domain.IDIdentifier(sel.ID)
		affected, err = s.repo.DeleteByID(ctx, sel.ID)
	case sel.WeekNumber != nil:
		out.Identifier = domain.WeekIdentifier(*sel.WeekNumber)
		affected, err = s.repo.DeleteByWeek(ctx, *sel.WeekNumber)
	default:
		out.Kind = domain.OutcomeUsageError
		out.Err = errors.New("provide either a week number or an entry id to remove")
		return out
	}
	if err != nil {
		return s.fail(out, fmt.Errorf("delete %s: %w", out.Identifier, err))
	}

	out.Affected = affected
	if affected == 0 {
		out.Kind = domain.OutcomeNotFound
		s.logger.Info("entry not found", "key", out.Identifier)
		return out
	}
	out.Kind = domain.OutcomeDeleted
	s.logger.Info("entry deleted", "key", out.Identifier, "rows", affected)
	return out
}

// ListEntries returns every record ordered by week number.
func (s *EntryService) ListEntries(ctx context.Context) ([]domain.ProgressRecord, error) {
	items, err := s.repo.ListByWeek(ctx)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return items, nil
}

func (s *EntryService) fail(out domain.Outcome, err error) domain.Outcome {
	out.Kind = domain.OutcomeFailed
	out.Err = err
	s.logger.Error("workflow failed", "action", string(out.Action), "key", out.Identifier, "error", err)
	return out
}
