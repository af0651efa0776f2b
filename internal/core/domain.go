package core

import (
	"errors"
	"strings"
)

const (
	// Expense and Credit are the two ledgers. They share one schema but are
	// stored and queried independently.
	Expense Kind = "expense"
	Credit  Kind = "credit"
)

type (
	// Kind selects which ledger an operation targets.
	Kind string

	// Record is one financial movement in a ledger. ID is assigned by the
	// store at insert time and is immutable afterwards.
	Record struct {
		ID          int64   `json:"id"`
		Date        string  `json:"date"`
		Amount      float64 `json:"amount"`
		Category    string  `json:"category"`
		Subcategory string  `json:"subcategory"`
		Note        string  `json:"note"`
	}

	// Patch is a sparse set of fields to change on an existing record.
	// Nil pointers mean "leave untouched"; a pointer to the zero value is an
	// explicit update to that zero value.
	Patch struct {
		Date        *string  `json:"date"`
		Amount      *float64 `json:"amount"`
		Category    *string  `json:"category"`
		Subcategory *string  `json:"subcategory"`
		Note        *string  `json:"note"`
	}

	// Summary is one per-category aggregation row.
	Summary struct {
		Category    string  `json:"category"`
		TotalAmount float64 `json:"total_amount"`
	}
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrEmptyPatch      = errors.New("no fields provided to update")
	ErrMissingDate     = errors.New("missing date")
	ErrBadDate         = errors.New("date must be in YYYY-MM-DD form")
	ErrMissingCategory = errors.New("missing category")
	ErrUnknownKind     = errors.New("unknown ledger kind")
)

// Validate checks k names one of the two ledgers.
func (k Kind) Validate() error {
	switch k {
	case Expense, Credit:
		return nil
	}
	return ErrUnknownKind
}

// ValidateDate checks the YYYY-MM-DD shape. Calendar correctness is not
// enforced; range queries only need lexical order to match chronological
// order, which the fixed-width form guarantees.
func ValidateDate(date string) error {
	if strings.TrimSpace(date) == "" {
		return ErrMissingDate
	}
	if len(date) != 10 || date[4] != '-' || date[7] != '-' {
		return ErrBadDate
	}
	for i, r := range date {
		if i == 4 || i == 7 {
			continue
		}
		if r < '0' || r > '9' {
			return ErrBadDate
		}
	}
	return nil
}

// Validate checks the creation-time constraints: a well-formed date and a
// non-empty category. Amount carries no sign constraint; whether a negative
// expense makes sense is the caller's policy, not the engine's.
func (r Record) Validate() error {
	if err := ValidateDate(r.Date); err != nil {
		return err
	}
	if strings.TrimSpace(r.Category) == "" {
		return ErrMissingCategory
	}
	return nil
}

// IsEmpty reports whether the patch carries no fields at all.
func (p Patch) IsEmpty() bool {
	return p.Date == nil && p.Amount == nil && p.Category == nil &&
		p.Subcategory == nil && p.Note == nil
}

// Validate rejects an empty patch and a malformed replacement date.
func (p Patch) Validate() error {
	if p.IsEmpty() {
		return ErrEmptyPatch
	}
	if p.Date != nil {
		if err := ValidateDate(*p.Date); err != nil {
			return err
		}
	}
	return nil
}
