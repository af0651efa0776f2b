package storage

import (
	"errors"
	"testing"

	"github.com/yinsights8/personal-expense-tracker-mcp/internal/core"
)

func strPtr(s string) *string    { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestBuildUpdateEmptyPatch(t *testing.T) {
	_, _, err := buildUpdate("expenses", 1, core.Patch{})
	if !errors.Is(err, core.ErrEmptyPatch) {
		t.Fatalf("expected ErrEmptyPatch, got %v", err)
	}
}

func TestBuildUpdateSingleField(t *testing.T) {
	query, args, err := buildUpdate("credits", 7, core.Patch{Amount: floatPtr(12.5)})
	if err != nil {
		t.Fatalf("buildUpdate: %v", err)
	}
	want := "UPDATE credits SET amount = ? WHERE id = ?"
	if query != want {
		t.Errorf("query = %q, want %q", query, want)
	}
	if len(args) != 2 || args[0] != 12.5 || args[1] != int64(7) {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestBuildUpdateDeterministicOrder(t *testing.T) {
	// All fields set: clauses must follow schema declaration order regardless
	// of how the patch was assembled.
	patch := core.Patch{
		Note:        strPtr("n"),
		Category:    strPtr("Food"),
		Date:        strPtr("2024-01-02"),
		Subcategory: strPtr("Groceries"),
		Amount:      floatPtr(3),
	}
	query, args, err := buildUpdate("expenses", 1, patch)
	if err != nil {
		t.Fatalf("buildUpdate: %v", err)
	}
	want := "UPDATE expenses SET date = ?, amount = ?, category = ?, subcategory = ?, note = ? WHERE id = ?"
	if query != want {
		t.Errorf("query = %q, want %q", query, want)
	}
	if len(args) != 6 {
		t.Fatalf("expected 6 args, got %d", len(args))
	}
	if args[0] != "2024-01-02" || args[1] != 3.0 || args[2] != "Food" || args[3] != "Groceries" || args[4] != "n" || args[5] != int64(1) {
		t.Errorf("args out of order: %v", args)
	}
}

func TestBuildUpdateExplicitEmptyValue(t *testing.T) {
	// An explicit empty string is an update, not an omission.
	query, args, err := buildUpdate("expenses", 3, core.Patch{Note: strPtr("")})
	if err != nil {
		t.Fatalf("buildUpdate: %v", err)
	}
	if query != "UPDATE expenses SET note = ? WHERE id = ?" {
		t.Errorf("unexpected query %q", query)
	}
	if args[0] != "" {
		t.Errorf("expected empty string arg, got %v", args[0])
	}
}
