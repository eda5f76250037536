package journal

import (
	"strings"
	"time"
)

// TypeAll is the sentinel type filter that disables type filtering, matching
// the value the front-ends send for "show everything".
const TypeAll = "All"

const dateLayout = "2006-01-02"

// Query narrows a listing by event type and an inclusive calendar-date range.
// Dates are "YYYY-MM-DD" strings compared against the date portion of the
// entry timestamp in UTC. Malformed date strings deactivate that bound.
type Query struct {
	Type  string
	Start string
	End   string
}

// Filter returns the entries matching q, each tagged with its index in the
// unfiltered sequence so callers can delete through a filtered view.
//
// An entry whose timestamp fails to parse passes when no date bound is
// active and is excluded when any bound is active: unfiltered views favor
// "show me everything" over strict correctness.
func Filter(entries []Entry, q Query) []Indexed {
	typeFilter := strings.TrimSpace(q.Type)
	start, hasStart := parseDateBound(q.Start)
	end, hasEnd := parseDateBound(q.End)

	out := make([]Indexed, 0, len(entries))
	for i, e := range entries {
		if typeFilter != "" && typeFilter != TypeAll && e.EventType != typeFilter {
			continue
		}

		ts, ok := ParseTimestamp(e.Timestamp)
		if !ok {
			if hasStart || hasEnd {
				continue
			}
			out = append(out, Indexed{Index: i, Entry: e})
			continue
		}

		day := ts.UTC().Truncate(24 * time.Hour)
		if hasStart && day.Before(start) {
			continue
		}
		if hasEnd && day.After(end) {
			continue
		}
		out = append(out, Indexed{Index: i, Entry: e})
	}
	return out
}

// ParseTimestamp parses an entry timestamp. A trailing Z is stripped before
// parsing; any malformed string reports ok=false rather than an error.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "Z")
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{
		"2006-01-02T15:04:05",
		"2006-01-02T15:04:05.999999999",
		"2006-01-02",
	} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseDateBound(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
