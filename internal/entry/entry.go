package entry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

const serverTimestampLayout = "2006-01-02 15:04:05"

// ID identifies an entry on the server. The service hands out either numeric or
// string identifiers; both decode to the same textual form.
type ID string

// UnmarshalJSON accepts a JSON string or number.
func (id *ID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*id = ""
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return fmt.Errorf("decode id: %w", err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("decode id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Entry is a single tracked task. A nil StoppedAt means the entry is still running.
type Entry struct {
	ID          ID
	Name        string
	Description string
	StartedAt   time.Time
	StoppedAt   *time.Time
	Duration    time.Duration
}

// wireEntry mirrors the service payload. Durations travel as milliseconds.
type wireEntry struct {
	ID          ID              `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	StartedAt   json.RawMessage `json:"startedAt"`
	StoppedAt   json.RawMessage `json:"stoppedAt"`
	Duration    *float64        `json:"duration"`
}

// UnmarshalJSON decodes the service representation of an entry.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw wireEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	started, _, err := parseTimestamp(raw.StartedAt)
	if err != nil {
		return fmt.Errorf("entry %s startedAt: %w", raw.ID, err)
	}
	stopped, hasStop, err := parseTimestamp(raw.StoppedAt)
	if err != nil {
		return fmt.Errorf("entry %s stoppedAt: %w", raw.ID, err)
	}

	*e = Entry{
		ID:          raw.ID,
		Name:        raw.Name,
		Description: raw.Description,
		StartedAt:   started,
	}
	if hasStop {
		e.StoppedAt = &stopped
		switch {
		case raw.Duration != nil:
			e.Duration = time.Duration(*raw.Duration * float64(time.Millisecond))
		case !started.IsZero():
			e.Duration = stopped.Sub(started)
		}
	}
	return nil
}

// MarshalJSON encodes the entry the way the service does.
func (e Entry) MarshalJSON() ([]byte, error) {
	out := struct {
		ID          ID         `json:"id"`
		Name        string     `json:"name"`
		Description string     `json:"description"`
		StartedAt   time.Time  `json:"startedAt"`
		StoppedAt   *time.Time `json:"stoppedAt"`
		Duration    int64      `json:"duration"`
	}{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		StartedAt:   e.StartedAt,
		StoppedAt:   e.StoppedAt,
		Duration:    e.Duration.Milliseconds(),
	}
	return json.Marshal(out)
}

// Running reports whether the entry has not been stopped yet.
func (e Entry) Running() bool {
	return e.StoppedAt == nil
}

// Elapsed returns the tracked time. Running entries count up to now.
func (e Entry) Elapsed(now time.Time) time.Duration {
	if !e.Running() {
		return e.Duration
	}
	if e.StartedAt.IsZero() || now.Before(e.StartedAt) {
		return 0
	}
	return now.Sub(e.StartedAt)
}

// Stopped returns a copy of e stopped at the given instant.
func (e Entry) Stopped(at time.Time) Entry {
	stopped := at
	e.StoppedAt = &stopped
	e.Duration = at.Sub(e.StartedAt)
	if e.Duration < 0 {
		e.Duration = 0
	}
	return e
}

// TotalDuration sums Duration over stopped entries only.
func TotalDuration(entries []Entry) time.Duration {
	var total time.Duration
	for _, e := range entries {
		if e.StoppedAt != nil {
			total += e.Duration
		}
	}
	return total
}

// Clone returns a deep copy of entries so callers never share StoppedAt pointers.
func Clone(entries []Entry) []Entry {
	if len(entries) == 0 {
		return nil
	}
	dup := make([]Entry, len(entries))
	for i, e := range entries {
		dup[i] = e.clone()
	}
	return dup
}

func (e Entry) clone() Entry {
	if e.StoppedAt != nil {
		t := *e.StoppedAt
		e.StoppedAt = &t
	}
	return e
}

// Clone returns a copy of e that shares no pointers with it.
func (e Entry) Clone() Entry {
	return e.clone()
}

func parseTimestamp(raw json.RawMessage) (time.Time, bool, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return time.Time{}, false, nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return time.Time{}, false, err
		}
		if s == "" {
			return time.Time{}, false, nil
		}
		t, ok := parseTime(s)
		if !ok {
			return time.Time{}, false, fmt.Errorf("unrecognized timestamp %q", s)
		}
		return t, true, nil
	}
	var ms float64
	if err := json.Unmarshal(trimmed, &ms); err != nil {
		return time.Time{}, false, err
	}
	return time.UnixMilli(int64(ms)).UTC(), true, nil
}

func parseTime(value string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	if t, err := time.ParseInLocation(serverTimestampLayout, value, time.Local); err == nil {
		return t, true
	}
	return time.Time{}, false
}
