// Package memory is an in-memory RecordAppender used in tests and when no
// spreadsheet is configured.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/yinsights8/personal-expense-tracker-mcp/internal/core"
)

type Store struct {
	mu    sync.Mutex
	items []entry
}

type entry struct {
	kind core.Kind
	rec  core.Record
}

func New() *Store {
	return &Store{}
}

// AppendRecord stores the record and returns a synthetic row reference.
func (s *Store) AppendRecord(_ context.Context, kind core.Kind, rec core.Record) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, entry{kind: kind, rec: rec})
	return fmt.Sprintf("mem:%d", len(s.items)), nil
}

// Records returns a copy of the appended records for the given kind.
func (s *Store) Records(kind core.Kind) []core.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Record
	for _, e := range s.items {
		if e.kind == kind {
			out = append(out, e.rec)
		}
	}
	return out
}
