package canvas

import (
	"errors"
	"fmt"
	"time"
)

// DefaultName is given to records created with a blank name.
const DefaultName = "Untitled canvas"

// TimeLayout is the persisted timestamp format: ISO-8601 in UTC with
// millisecond precision, e.g. 2024-03-01T09:30:00.000Z.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// ErrInvalidRecord reports a record that breaks the persisted layout.
var ErrInvalidRecord = errors.New("invalid canvas record")

// Record is the persisted metadata of one canvas.
type Record struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// FormatTime renders t in TimeLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime parses a persisted timestamp. Any RFC 3339 value is accepted.
func ParseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// Validate checks that the record carries an id, a name and parseable
// timestamps.
func (r Record) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidRecord)
	}
	if r.Name == "" {
		return fmt.Errorf("%w: %s: missing name", ErrInvalidRecord, r.ID)
	}
	if _, err := ParseTime(r.CreatedAt); err != nil {
		return fmt.Errorf("%w: %s: createdAt: %v", ErrInvalidRecord, r.ID, err)
	}
	if _, err := ParseTime(r.UpdatedAt); err != nil {
		return fmt.Errorf("%w: %s: updatedAt: %v", ErrInvalidRecord, r.ID, err)
	}
	return nil
}

// ValidateList checks every record and rejects duplicate ids.
func ValidateList(records []Record) error {
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return err
		}
		if _, dup := seen[r.ID]; dup {
			return fmt.Errorf("%w: duplicate id %s", ErrInvalidRecord, r.ID)
		}
		seen[r.ID] = struct{}{}
	}
	return nil
}

// Clone returns a copy of records that shares no backing array.
// A nil input yields an empty, non-nil slice.
func Clone(records []Record) []Record {
	out := make([]Record, len(records))
	copy(out, records)
	return out
}
