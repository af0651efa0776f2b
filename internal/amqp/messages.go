package amqp

import (
	"encoding/json"
	"time"

	"github.com/yinsights8/personal-expense-tracker-mcp/internal/core"
)

// Actions carried by a RecordEvent.
const (
	ActionInserted = "inserted"
	ActionUpdated  = "updated"
	ActionDeleted  = "deleted"
)

// RecordEvent announces a committed ledger mutation. It carries only the
// ledger and id; consumers fetch the current row from the store themselves,
// so a stale event never replays stale field values.
type RecordEvent struct {
	Ledger    core.Kind `json:"ledger"`
	Action    string    `json:"action"`
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewRecordEvent creates an event for one committed mutation.
func NewRecordEvent(ledger core.Kind, action string, id int64) *RecordEvent {
	return &RecordEvent{
		Ledger:    ledger,
		Action:    action,
		ID:        id,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes.
func (e *RecordEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// RecordEventFromJSON parses an event from JSON bytes.
func RecordEventFromJSON(data []byte) (*RecordEvent, error) {
	var e RecordEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
