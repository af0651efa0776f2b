// Package worker mirrors committed ledger mutations to an external sheet.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/yinsights8/personal-expense-tracker-mcp/internal/amqp"
	"github.com/yinsights8/personal-expense-tracker-mcp/internal/core"
	"github.com/yinsights8/personal-expense-tracker-mcp/internal/sheets"
	"github.com/yinsights8/personal-expense-tracker-mcp/internal/storage"
)

// ExportWorker consumes record events and appends inserted records to the
// configured sheet. The export is best-effort: the ledger store stays the
// source of truth and a failed export never touches it.
type ExportWorker struct {
	storage  *storage.Store
	appender sheets.RecordAppender
}

func NewExportWorker(storage *storage.Store, appender sheets.RecordAppender) *ExportWorker {
	return &ExportWorker{
		storage:  storage,
		appender: appender,
	}
}

// HandleRecordEvent processes one event from the bus. Only inserts are
// mirrored; the sheet is an append-only journal, so updates and deletes are
// logged and acknowledged without touching it.
func (w *ExportWorker) HandleRecordEvent(ctx context.Context, event *amqp.RecordEvent) error {
	switch event.Action {
	case amqp.ActionInserted:
		return w.exportRecord(ctx, event.Ledger, event.ID)
	case amqp.ActionUpdated, amqp.ActionDeleted:
		slog.InfoContext(ctx, "Skipping non-insert event",
			"ledger", event.Ledger,
			"action", event.Action,
			"record_id", event.ID)
		return nil
	default:
		slog.WarnContext(ctx, "Unknown event action",
			"action", event.Action,
			"record_id", event.ID)
		return nil
	}
}

func (w *ExportWorker) exportRecord(ctx context.Context, kind core.Kind, id int64) error {
	rec, err := w.storage.Get(ctx, kind, id)
	if errors.Is(err, core.ErrNotFound) {
		// Deleted between commit and export; nothing left to mirror.
		slog.WarnContext(ctx, "Record gone before export",
			"ledger", kind,
			"record_id", id)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get record from storage: %w", err)
	}

	ref, err := w.appender.AppendRecord(ctx, kind, rec)
	if err != nil {
		return fmt.Errorf("append to sheet: %w", err)
	}

	slog.InfoContext(ctx, "Record exported",
		"ledger", kind,
		"record_id", id,
		"sheet_ref", ref)
	return nil
}
