package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/yinsights8/personal-expense-tracker-mcp/internal/core"
)

// tables maps a ledger kind to its backing table. Kinds outside this map are
// rejected, so a table name is never assembled from caller input.
var tables = map[core.Kind]string{
	core.Expense: "expenses",
	core.Credit:  "credits",
}

func tableFor(kind core.Kind) (string, error) {
	table, ok := tables[kind]
	if !ok {
		return "", fmt.Errorf("%w: %q", core.ErrUnknownKind, kind)
	}
	return table, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (core.Record, error) {
	var rec core.Record
	err := s.Scan(&rec.ID, &rec.Date, &rec.Amount, &rec.Category, &rec.Subcategory, &rec.Note)
	return rec, err
}

const recordColumns = "id, date, amount, category, subcategory, note"

// Insert persists a new record and returns the id assigned by the store.
// AUTOINCREMENT keeps ids monotonic within a ledger and never reuses one
// after deletion.
func (s *Store) Insert(ctx context.Context, kind core.Kind, rec core.Record) (int64, error) {
	table, err := tableFor(kind)
	if err != nil {
		return 0, err
	}

	var id int64
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		query := fmt.Sprintf("INSERT INTO %s (date, amount, category, subcategory, note) VALUES (?, ?, ?, ?, ?)", table)
		res, err := tx.ExecContext(ctx, query, rec.Date, rec.Amount, rec.Category, rec.Subcategory, rec.Note)
		if err != nil {
			return fmt.Errorf("insert record: %w", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("read assigned id: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	slog.InfoContext(ctx, "Record saved",
		"ledger", kind,
		"record_id", id,
		"date", rec.Date,
		"category", rec.Category)

	return id, nil
}

// ListRange returns records with date within [start, end] inclusive, ordered
// by ascending id so same-day entries retain insertion order. An empty range
// yields an empty slice, never an error.
func (s *Store) ListRange(ctx context.Context, kind core.Kind, start, end string) ([]core.Record, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	records := make([]core.Record, 0)
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		query := fmt.Sprintf("SELECT %s FROM %s WHERE date BETWEEN ? AND ? ORDER BY id ASC", recordColumns, table)
		rows, err := tx.QueryContext(ctx, query, start, end)
		if err != nil {
			return fmt.Errorf("list records: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			rec, err := scanRecord(rows)
			if err != nil {
				return fmt.Errorf("scan record: %w", err)
			}
			records = append(records, rec)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Get returns a single record by id, or core.ErrNotFound.
func (s *Store) Get(ctx context.Context, kind core.Kind, id int64) (core.Record, error) {
	table, err := tableFor(kind)
	if err != nil {
		return core.Record{}, err
	}

	var rec core.Record
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		query := fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", recordColumns, table)
		rec, err = scanRecord(tx.QueryRowContext(ctx, query, id))
		if err == sql.ErrNoRows {
			return core.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get record: %w", err)
		}
		return nil
	})
	if err != nil {
		return core.Record{}, err
	}
	return rec, nil
}

// EditFields applies a sparse patch to one record. An empty patch is a
// validation error and touches nothing; a missing id reports
// core.ErrNotFound without mutating anything.
func (s *Store) EditFields(ctx context.Context, kind core.Kind, id int64, patch core.Patch) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	query, args, err := buildUpdate(table, id, patch)
	if err != nil {
		return err
	}

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("update record: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("read affected rows: %w", err)
		}
		if affected == 0 {
			return core.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "Record updated", "ledger", kind, "record_id", id)
	return nil
}

// DeleteByID removes one record by id, or reports core.ErrNotFound.
func (s *Store) DeleteByID(ctx context.Context, kind core.Kind, id int64) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", table)
		res, err := tx.ExecContext(ctx, query, id)
		if err != nil {
			return fmt.Errorf("delete record: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("read affected rows: %w", err)
		}
		if affected == 0 {
			return core.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "Record deleted", "ledger", kind, "record_id", id)
	return nil
}

// DeleteByCriteria removes every record matching all five fields exactly and
// returns the count deleted. Duplicate rows with identical fields go
// together; zero matches is not an error here, callers decide how to report
// it.
func (s *Store) DeleteByCriteria(ctx context.Context, kind core.Kind, rec core.Record) (int64, error) {
	table, err := tableFor(kind)
	if err != nil {
		return 0, err
	}

	var deleted int64
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		query := fmt.Sprintf("DELETE FROM %s WHERE date = ? AND amount = ? AND category = ? AND subcategory = ? AND note = ?", table)
		res, err := tx.ExecContext(ctx, query, rec.Date, rec.Amount, rec.Category, rec.Subcategory, rec.Note)
		if err != nil {
			return fmt.Errorf("delete records: %w", err)
		}
		deleted, err = res.RowsAffected()
		if err != nil {
			return fmt.Errorf("read affected rows: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	slog.InfoContext(ctx, "Records deleted by criteria",
		"ledger", kind,
		"count", deleted,
		"date", rec.Date,
		"category", rec.Category)

	return deleted, nil
}

// Summarize groups records in [start, end] by category, summing amounts.
// A non-empty category restricts the result to that single group. Groups are
// ordered by category name ascending.
func (s *Store) Summarize(ctx context.Context, kind core.Kind, start, end, category string) ([]core.Summary, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT category, SUM(amount) AS total_amount FROM %s WHERE date BETWEEN ? AND ?", table)
	args := []any{start, end}
	if category != "" {
		query += " AND category = ?"
		args = append(args, category)
	}
	query += " GROUP BY category ORDER BY category ASC"

	summaries := make([]core.Summary, 0)
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("summarize records: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var sum core.Summary
			if err := rows.Scan(&sum.Category, &sum.TotalAmount); err != nil {
				return fmt.Errorf("scan summary: %w", err)
			}
			summaries = append(summaries, sum)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return summaries, nil
}
