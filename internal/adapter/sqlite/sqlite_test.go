package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"progress/internal/adapter/sqlite"
	"progress/internal/domain"
)

func openStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "data", "progress.db"), "progress")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func rec(week int, date string, weight float64) domain.ProgressRecord {
	return domain.ProgressRecord{WeekNumber: week, Date: date, Weight: weight, Waist: 38}
}

func TestInsertAndFind(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	stored, err := store.Insert(ctx, rec(1, "2024-01-01", 75))
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if stored.ID == "" {
		t.Fatal("expected generated id")
	}

	found, err := store.FindByWeek(ctx, 1)
	if err != nil {
		t.Fatalf("FindByWeek: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("expected 1 row, got %d", len(found))
	}
	if found[0].ID != stored.ID || found[0].Weight != 75 || found[0].Waist != 38 || found[0].Date != "2024-01-01" {
		t.Fatalf("unexpected row: %+v", found[0])
	}

	missing, err := store.FindByWeek(ctx, 2)
	if err != nil || len(missing) != 0 {
		t.Fatalf("expected no rows for week 2, got %d (%v)", len(missing), err)
	}
}

func TestInsertDuplicateWeek(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if _, err := store.Insert(ctx, rec(4, "2024-01-22", 74)); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	_, err := store.Insert(ctx, rec(4, "2024-01-23", 73))
	if !errors.Is(err, domain.ErrDuplicateWeek) {
		t.Fatalf("expected ErrDuplicateWeek, got %v", err)
	}
}

func TestListOrderedAndDelete(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	var ids []string
	for _, week := range []int{3, 1, 2} {
		stored, err := store.Insert(ctx, rec(week, "2024-01-01", 70+float64(week)))
		if err != nil {
			t.Fatalf("Insert week %d: %v", week, err)
		}
		ids = append(ids, stored.ID)
	}

	items, err := store.ListByWeek(ctx)
	if err != nil {
		t.Fatalf("ListByWeek: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(items))
	}
	for i, want := range []int{1, 2, 3} {
		if items[i].WeekNumber != want {
			t.Fatalf("row %d: expected week %d, got %d", i, want, items[i].WeekNumber)
		}
	}

	n, err := store.DeleteByID(ctx, ids[0])
	if err != nil || n != 1 {
		t.Fatalf("DeleteByID: n=%d err=%v", n, err)
	}
	n, err = store.DeleteByWeek(ctx, 1)
	if err != nil || n != 1 {
		t.Fatalf("DeleteByWeek: n=%d err=%v", n, err)
	}
	n, err = store.DeleteByWeek(ctx, 1)
	if err != nil || n != 0 {
		t.Fatalf("second DeleteByWeek: n=%d err=%v", n, err)
	}

	items, _ = store.ListByWeek(ctx)
	if len(items) != 1 || items[0].WeekNumber != 2 {
		t.Fatalf("expected only week 2 left, got %+v", items)
	}
}

func TestCustomTableName(t *testing.T) {
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "p.db"), "my progress")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()
	if _, err := store.Insert(context.Background(), rec(1, "2024-01-01", 70)); err != nil {
		t.Fatalf("Insert: %v", err)
	}
}

func TestListAllReturnsMeasurements(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	r := rec(1, "2024-01-01", 80)
	r.FatPercent = 0.2
	if _, err := store.Insert(ctx, r); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	items, err := store.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(items) != 1 || items[0].FatPercent != 0.2 || items[0].Waist != 38 {
		t.Fatalf("unexpected rows: %+v", items)
	}
}
