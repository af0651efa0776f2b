package storage

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/yinsights8/personal-expense-tracker-mcp/internal/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func mustInsert(t *testing.T, store *Store, kind core.Kind, rec core.Record) int64 {
	t.Helper()
	id, err := store.Insert(context.Background(), kind, rec)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	return id
}

func TestInsertThenList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	in := core.Record{Date: "2024-01-05", Amount: 12.0, Category: "Food", Subcategory: "Coffee", Note: "morning"}
	id := mustInsert(t, store, core.Expense, in)
	if id <= 0 {
		t.Fatalf("expected positive id, got %d", id)
	}

	got, err := store.ListRange(ctx, core.Expense, "2024-01-01", "2024-01-31")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}

	want := in
	want.ID = id
	if got[0] != want {
		t.Errorf("got %+v, want %+v", got[0], want)
	}
}

func TestLedgersAreIndependent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	mustInsert(t, store, core.Expense, core.Record{Date: "2024-01-05", Amount: 10, Category: "Food"})
	mustInsert(t, store, core.Credit, core.Record{Date: "2024-01-05", Amount: 500, Category: "Salary"})

	expenses, err := store.ListRange(ctx, core.Expense, "2024-01-01", "2024-01-31")
	if err != nil {
		t.Fatalf("list expenses: %v", err)
	}
	credits, err := store.ListRange(ctx, core.Credit, "2024-01-01", "2024-01-31")
	if err != nil {
		t.Fatalf("list credits: %v", err)
	}
	if len(expenses) != 1 || expenses[0].Category != "Food" {
		t.Errorf("unexpected expenses: %+v", expenses)
	}
	if len(credits) != 1 || credits[0].Category != "Salary" {
		t.Errorf("unexpected credits: %+v", credits)
	}
}

func TestListRangeInclusiveBounds(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, date := range []string{"2024-01-31", "2024-02-01", "2024-02-29", "2024-03-01"} {
		mustInsert(t, store, core.Expense, core.Record{Date: date, Amount: 1, Category: "Food"})
	}

	got, err := store.ListRange(ctx, core.Expense, "2024-02-01", "2024-02-29")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records within bounds, got %d", len(got))
	}
	if got[0].Date != "2024-02-01" || got[1].Date != "2024-02-29" {
		t.Errorf("bounds not inclusive: %+v", got)
	}
}

func TestListRangeOrderedByID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Same day: relative order must follow insertion, not any other key.
	first := mustInsert(t, store, core.Expense, core.Record{Date: "2024-01-05", Amount: 9, Category: "Zoo"})
	second := mustInsert(t, store, core.Expense, core.Record{Date: "2024-01-05", Amount: 1, Category: "Art"})

	got, err := store.ListRange(ctx, core.Expense, "2024-01-05", "2024-01-05")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].ID != first || got[1].ID != second {
		t.Errorf("expected insertion order [%d %d], got %+v", first, second, got)
	}
}

func TestListRangeEmpty(t *testing.T) {
	store := newTestStore(t)

	got, err := store.ListRange(context.Background(), core.Expense, "2024-01-01", "2024-01-31")
	if err != nil {
		t.Fatalf("empty range should not error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no records, got %d", len(got))
	}
}

func TestEditFieldsIsolation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	in := core.Record{Date: "2024-01-05", Amount: 12, Category: "Food", Subcategory: "Coffee", Note: "flat white"}
	id := mustInsert(t, store, core.Expense, in)

	if err := store.EditFields(ctx, core.Expense, id, core.Patch{Amount: floatPtr(15)}); err != nil {
		t.Fatalf("edit: %v", err)
	}

	got, err := store.Get(ctx, core.Expense, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	want := in
	want.ID = id
	want.Amount = 15
	if got != want {
		t.Errorf("only amount should change: got %+v, want %+v", got, want)
	}
}

func TestEditFieldsEmptyPatch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	in := core.Record{Date: "2024-01-05", Amount: 12, Category: "Food"}
	id := mustInsert(t, store, core.Expense, in)

	err := store.EditFields(ctx, core.Expense, id, core.Patch{})
	if !errors.Is(err, core.ErrEmptyPatch) {
		t.Fatalf("expected ErrEmptyPatch, got %v", err)
	}

	got, err := store.Get(ctx, core.Expense, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	want := in
	want.ID = id
	if got != want {
		t.Errorf("row changed by empty patch: %+v", got)
	}
}

func TestEditFieldsNotFound(t *testing.T) {
	store := newTestStore(t)

	err := store.EditFields(context.Background(), core.Expense, 9999, core.Patch{Note: strPtr("x")})
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEditFieldsExplicitEmpty(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id := mustInsert(t, store, core.Expense, core.Record{Date: "2024-01-05", Amount: 12, Category: "Food", Note: "lunch"})

	if err := store.EditFields(ctx, core.Expense, id, core.Patch{Note: strPtr("")}); err != nil {
		t.Fatalf("edit: %v", err)
	}
	got, err := store.Get(ctx, core.Expense, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Note != "" {
		t.Errorf("note should be cleared, got %q", got.Note)
	}
}

func TestDeleteByID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id := mustInsert(t, store, core.Credit, core.Record{Date: "2024-01-05", Amount: 100, Category: "Salary"})

	if err := store.DeleteByID(ctx, core.Credit, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, core.Credit, id); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("record should be gone, got %v", err)
	}
	if err := store.DeleteByID(ctx, core.Credit, id); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("second delete should report not found, got %v", err)
	}
}

func TestDeleteByCriteriaCountsDuplicates(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec := core.Record{Date: "2024-01-05", Amount: 12, Category: "Food", Subcategory: "Coffee", Note: ""}
	mustInsert(t, store, core.Expense, rec)
	mustInsert(t, store, core.Expense, rec)
	other := rec
	other.Note = "different"
	keep := mustInsert(t, store, core.Expense, other)

	deleted, err := store.DeleteByCriteria(ctx, core.Expense, rec)
	if err != nil {
		t.Fatalf("delete by criteria: %v", err)
	}
	if deleted != 2 {
		t.Errorf("expected 2 deleted, got %d", deleted)
	}

	if _, err := store.Get(ctx, core.Expense, keep); err != nil {
		t.Errorf("non-matching record should survive: %v", err)
	}
}

func TestDeleteByCriteriaNoMatch(t *testing.T) {
	store := newTestStore(t)

	deleted, err := store.DeleteByCriteria(context.Background(), core.Expense,
		core.Record{Date: "2024-01-05", Amount: 1, Category: "Nope"})
	if err != nil {
		t.Fatalf("zero matches is not a storage error: %v", err)
	}
	if deleted != 0 {
		t.Errorf("expected 0 deleted, got %d", deleted)
	}
}

func TestSummarizeGrouping(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	mustInsert(t, store, core.Expense, core.Record{Date: "2024-01-05", Amount: 10, Category: "Food"})
	mustInsert(t, store, core.Expense, core.Record{Date: "2024-01-10", Amount: 5, Category: "Food"})
	mustInsert(t, store, core.Expense, core.Record{Date: "2024-01-12", Amount: 3, Category: "Transport"})
	mustInsert(t, store, core.Expense, core.Record{Date: "2024-02-01", Amount: 99, Category: "Food"}) // out of range

	got, err := store.Summarize(ctx, core.Expense, "2024-01-01", "2024-01-31", "")
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	want := []core.Summary{{Category: "Food", TotalAmount: 15}, {Category: "Transport", TotalAmount: 3}}
	if len(got) != len(want) {
		t.Fatalf("expected %d groups, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("group %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSummarizeCategoryFilter(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	mustInsert(t, store, core.Expense, core.Record{Date: "2024-01-05", Amount: 10, Category: "Food"})
	mustInsert(t, store, core.Expense, core.Record{Date: "2024-01-12", Amount: 3, Category: "Transport"})

	got, err := store.Summarize(ctx, core.Expense, "2024-01-01", "2024-01-31", "Food")
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if len(got) != 1 || got[0].Category != "Food" || got[0].TotalAmount != 10 {
		t.Errorf("unexpected filtered summary: %+v", got)
	}
}

func TestSummarizeEmptyRange(t *testing.T) {
	store := newTestStore(t)

	got, err := store.Summarize(context.Background(), core.Expense, "2030-01-01", "2030-12-31", "")
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty summary, got %+v", got)
	}
}

func TestConcurrentInserts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	const n = 20
	ids := make(chan int64, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := store.Insert(ctx, core.Expense, core.Record{Date: "2024-01-05", Amount: 1, Category: "Food"})
			if err != nil {
				t.Errorf("concurrent insert: %v", err)
				return
			}
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		if seen[id] {
			t.Errorf("duplicate id assigned: %d", id)
		}
		seen[id] = true
	}
	if len(seen) != n {
		t.Fatalf("expected %d distinct ids, got %d", n, len(seen))
	}

	records, err := store.ListRange(ctx, core.Expense, "2024-01-05", "2024-01-05")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != n {
		t.Errorf("lost writes: %d rows, want %d", len(records), n)
	}
}

func TestUnknownKindRejected(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Insert(context.Background(), core.Kind("savings"), core.Record{Date: "2024-01-05", Category: "X"})
	if !errors.Is(err, core.ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}

func TestOpenBadPath(t *testing.T) {
	// A directory where the db file should be is an open failure, surfaced
	// to the caller rather than swallowed.
	dir := t.TempDir()
	if _, err := Open(dir); err == nil {
		t.Fatal("expected error opening a directory as database")
	}
}
