// Package sheets declares the ports for mirroring ledger records to an
// external spreadsheet.
package sheets

import (
	"context"

	"github.com/yinsights8/personal-expense-tracker-mcp/internal/core"
)

// RecordAppender mirrors one committed ledger record to an external sheet
// and returns a reference to the written row.
type RecordAppender interface {
	AppendRecord(ctx context.Context, kind core.Kind, rec core.Record) (rowRef string, err error)
}
