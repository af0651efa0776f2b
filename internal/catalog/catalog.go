// Package catalog manages the category taxonomy document.
//
// The catalog is advisory: it suggests category names to callers but the
// ledger engine never validates records against it. The file is owned by the
// user, created once with defaults and never overwritten afterwards.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Document is the on-disk shape of the catalog.
type Document struct {
	Categories []Category `json:"categories"`
}

// Category is one named category with its suggested subcategories.
type Category struct {
	Name          string   `json:"name"`
	Subcategories []string `json:"subcategories"`
}

// DefaultDocument returns the taxonomy written when no catalog exists yet.
func DefaultDocument() Document {
	return Document{Categories: []Category{
		{Name: "Food", Subcategories: []string{"Groceries", "Restaurants", "Coffee", "Delivery"}},
		{Name: "Transport", Subcategories: []string{"Fuel", "Public Transport", "Taxi", "Parking"}},
		{Name: "Rent", Subcategories: []string{"Apartment", "Utilities Deposit"}},
		{Name: "Bills", Subcategories: []string{"Electricity", "Water", "Internet", "Phone"}},
		{Name: "Shopping", Subcategories: []string{"Clothes", "Electronics", "Gifts"}},
		{Name: "Health", Subcategories: []string{"Pharmacy", "Doctor", "Fitness"}},
		{Name: "Other", Subcategories: []string{"Misc"}},
	}}
}

// EnsureDefault creates the catalog file with the default taxonomy if it does
// not exist. An existing file is left untouched, whatever its contents, so
// user edits survive restarts. Safe to call on every startup.
func EnsureDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat catalog: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create catalog directory: %w", err)
	}

	data, err := json.MarshalIndent(DefaultDocument(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal default catalog: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write default catalog: %w", err)
	}
	return nil
}

// Read returns the raw catalog bytes, read fresh on every call so edits to
// the file show up without a restart.
func Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return data, nil
}
