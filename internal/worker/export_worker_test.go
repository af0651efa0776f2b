package worker

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/yinsights8/personal-expense-tracker-mcp/internal/amqp"
	"github.com/yinsights8/personal-expense-tracker-mcp/internal/core"
	"github.com/yinsights8/personal-expense-tracker-mcp/internal/sheets/memory"
	"github.com/yinsights8/personal-expense-tracker-mcp/internal/storage"
)

func newTestWorker(t *testing.T) (*ExportWorker, *storage.Store, *memory.Store) {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	appender := memory.New()
	return NewExportWorker(store, appender), store, appender
}

func TestHandleInsertEventExportsRecord(t *testing.T) {
	w, store, appender := newTestWorker(t)
	ctx := context.Background()

	rec := core.Record{Date: "2024-01-05", Amount: 12, Category: "Food"}
	id, err := store.Insert(ctx, core.Expense, rec)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	if err := w.HandleRecordEvent(ctx, amqp.NewRecordEvent(core.Expense, amqp.ActionInserted, id)); err != nil {
		t.Fatalf("handle event: %v", err)
	}

	exported := appender.Records(core.Expense)
	if len(exported) != 1 {
		t.Fatalf("expected 1 exported record, got %d", len(exported))
	}
	if exported[0].ID != id || exported[0].Category != "Food" {
		t.Errorf("unexpected exported record: %+v", exported[0])
	}
}

func TestHandleInsertEventRecordGone(t *testing.T) {
	w, _, appender := newTestWorker(t)

	// Record deleted before the event arrives: acknowledged, not an error.
	if err := w.HandleRecordEvent(context.Background(), amqp.NewRecordEvent(core.Expense, amqp.ActionInserted, 999)); err != nil {
		t.Fatalf("missing record should not fail the event: %v", err)
	}
	if len(appender.Records(core.Expense)) != 0 {
		t.Error("nothing should be exported for a missing record")
	}
}

func TestHandleNonInsertEventsSkipped(t *testing.T) {
	w, store, appender := newTestWorker(t)
	ctx := context.Background()

	id, err := store.Insert(ctx, core.Credit, core.Record{Date: "2024-01-05", Amount: 100, Category: "Salary"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	for _, action := range []string{amqp.ActionUpdated, amqp.ActionDeleted, "unknown"} {
		if err := w.HandleRecordEvent(ctx, amqp.NewRecordEvent(core.Credit, action, id)); err != nil {
			t.Errorf("action %q should be acknowledged: %v", action, err)
		}
	}
	if len(appender.Records(core.Credit)) != 0 {
		t.Error("non-insert events must not append rows")
	}
}
