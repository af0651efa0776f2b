package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/yinsights8/personal-expense-tracker-mcp/internal/core"
	"github.com/yinsights8/personal-expense-tracker-mcp/internal/storage"
)

func newTestService(t *testing.T) *LedgerService {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	// nil AMQP client: events are skipped, operations still succeed
	svc := NewLedgerService(store, nil)
	t.Cleanup(func() { svc.Close() })
	return svc
}

func TestAddValidates(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Add(ctx, core.Expense, core.Record{Date: "2024-01-05", Amount: 1}); !errors.Is(err, core.ErrMissingCategory) {
		t.Errorf("expected ErrMissingCategory, got %v", err)
	}
	if _, err := svc.Add(ctx, core.Kind("bogus"), core.Record{Date: "2024-01-05", Amount: 1, Category: "Food"}); !errors.Is(err, core.ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}

	id, err := svc.Add(ctx, core.Expense, core.Record{Date: "2024-01-05", Amount: 1, Category: "Food"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if id <= 0 {
		t.Errorf("expected positive id, got %d", id)
	}
}

func TestListValidatesDates(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.List(context.Background(), core.Expense, "", "2024-01-31"); !errors.Is(err, core.ErrMissingDate) {
		t.Errorf("expected ErrMissingDate, got %v", err)
	}
	if _, err := svc.List(context.Background(), core.Expense, "2024-01-01", "Jan 31"); !errors.Is(err, core.ErrBadDate) {
		t.Errorf("expected ErrBadDate, got %v", err)
	}
}

func TestEditEmptyPatchRejected(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	id, err := svc.Add(ctx, core.Credit, core.Record{Date: "2024-01-05", Amount: 100, Category: "Salary"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := svc.Edit(ctx, core.Credit, id, core.Patch{}); !errors.Is(err, core.ErrEmptyPatch) {
		t.Errorf("expected ErrEmptyPatch, got %v", err)
	}

	// Record unchanged after the rejected edit.
	got, err := svc.Get(ctx, core.Credit, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Amount != 100 || got.Category != "Salary" {
		t.Errorf("record mutated by empty patch: %+v", got)
	}
}

func TestDeleteByIDNotFound(t *testing.T) {
	svc := newTestService(t)

	if err := svc.DeleteByID(context.Background(), core.Expense, 12345); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRemoveByCriteriaReportsCount(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	rec := core.Record{Date: "2024-01-05", Amount: 12, Category: "Food", Subcategory: "Coffee"}
	if _, err := svc.Add(ctx, core.Expense, rec); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.Add(ctx, core.Expense, rec); err != nil {
		t.Fatalf("add: %v", err)
	}

	count, err := svc.RemoveByCriteria(ctx, core.Expense, rec)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if count != 2 {
		t.Errorf("expected count 2, got %d", count)
	}

	count, err = svc.RemoveByCriteria(ctx, core.Expense, rec)
	if err != nil {
		t.Fatalf("remove again: %v", err)
	}
	if count != 0 {
		t.Errorf("expected count 0 on second pass, got %d", count)
	}
}

func TestCloseNilComponents(t *testing.T) {
	svc := NewLedgerService(nil, nil)
	if err := svc.Close(); err != nil {
		t.Fatalf("Close with nil components: %v", err)
	}
}
