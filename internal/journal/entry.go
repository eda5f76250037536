// Package journal implements the encrypted local log store: a single
// password-protected file holding an ordered sequence of recorded agent
// actions. The package never logs; failures surface as typed errors only.
package journal

import (
	"time"

	"github.com/google/uuid"
)

// TimestampLayout is the canonical timestamp form produced by NewEntry:
// UTC, second precision, trailing Z.
const TimestampLayout = time.RFC3339

// Entry is one journaled action. Entries are identified primarily by their
// position in the unfiltered sequence; the ID is a stable secondary
// identifier generated at creation time. Files written by older versions
// carry no IDs, which is why the field is optional.
type Entry struct {
	ID        string         `json:"id,omitempty"`
	Timestamp string         `json:"timestamp"`
	EventType string         `json:"event_type"`
	Meta      map[string]any `json:"meta"`
	Preview   string         `json:"preview"`
}

// NewEntry builds an Entry stamped with the current UTC time at second
// precision. It has no side effects and persists nothing.
func NewEntry(eventType string, meta map[string]any, preview string) Entry {
	if meta == nil {
		meta = map[string]any{}
	}
	return Entry{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC().Truncate(time.Second).Format(TimestampLayout),
		EventType: eventType,
		Meta:      meta,
		Preview:   preview,
	}
}

// Indexed pairs an entry with its position in the unfiltered sequence.
// Consumers that filter the journal and later delete an item must use this
// index, not the item's position in the filtered view.
type Indexed struct {
	Index int `json:"index"`
	Entry
}

// IndexEntries tags every entry with its unfiltered index.
func IndexEntries(entries []Entry) []Indexed {
	out := make([]Indexed, len(entries))
	for i, e := range entries {
		out[i] = Indexed{Index: i, Entry: e}
	}
	return out
}
