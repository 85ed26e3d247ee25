package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"tight/internal/date"
)

// OccurrenceMessage announces one materialized due date of a repeating
// entry. It carries only identifiers; the worker fetches the full entry
// from the database.
type OccurrenceMessage struct {
	TraceID   string          `json:"trace_id"`
	EntryID   int64           `json:"entry_id"`
	Due       date.SimpleDate `json:"due"`
	Timestamp time.Time       `json:"timestamp"`
}

func NewOccurrenceMessage(entryID int64, due date.SimpleDate) *OccurrenceMessage {
	return &OccurrenceMessage{
		TraceID:   uuid.NewString(),
		EntryID:   entryID,
		Due:       due,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *OccurrenceMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// FromJSON creates a message from JSON bytes
func OccurrenceMessageFromJSON(data []byte) (*OccurrenceMessage, error) {
	var msg OccurrenceMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
