package storage

import (
	"fmt"
	"strings"

	"github.com/yinsights8/personal-expense-tracker-mcp/internal/core"
)

// buildUpdate compiles a sparse patch into a parameterized UPDATE statement.
// Only explicitly set fields contribute a SET clause, walked in schema
// declaration order so the generated statement is deterministic. Values are
// always bound parameters; the table name comes from the closed ledger map,
// never from caller input. An empty patch is rejected before any statement
// is built.
func buildUpdate(table string, id int64, p core.Patch) (string, []any, error) {
	var (
		sets []string
		args []any
	)

	if p.Date != nil {
		sets = append(sets, "date = ?")
		args = append(args, *p.Date)
	}
	if p.Amount != nil {
		sets = append(sets, "amount = ?")
		args = append(args, *p.Amount)
	}
	if p.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, *p.Category)
	}
	if p.Subcategory != nil {
		sets = append(sets, "subcategory = ?")
		args = append(args, *p.Subcategory)
	}
	if p.Note != nil {
		sets = append(sets, "note = ?")
		args = append(args, *p.Note)
	}

	if len(sets) == 0 {
		return "", nil, core.ErrEmptyPatch
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", table, strings.Join(sets, ", "))
	return query, args, nil
}
