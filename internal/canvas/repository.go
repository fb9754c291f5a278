package canvas

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// StorageAdapter persists the canvas list as a whole.
//
// Load never fails: unreadable or corrupt state yields an empty list.
// Save replaces the stored list and never reports an error; failures are
// logged by the adapter. Both are idempotent.
type StorageAdapter interface {
	Load() []Record
	Save(records []Record)
}

// Repository creates records and delegates persistence to a StorageAdapter.
type Repository struct {
	adapter StorageAdapter
	now     func() time.Time
	newID   func() string
}

// RepositoryOption configures a Repository.
type RepositoryOption func(*Repository)

// WithClock sets the time source for record timestamps.
func WithClock(now func() time.Time) RepositoryOption {
	return func(r *Repository) {
		if now != nil {
			r.now = now
		}
	}
}

// WithIDGenerator sets the record id source.
func WithIDGenerator(newID func() string) RepositoryOption {
	return func(r *Repository) {
		if newID != nil {
			r.newID = newID
		}
	}
}

// NewRepository creates a Repository over adapter with random v4 ids.
func NewRepository(adapter StorageAdapter, opts ...RepositoryOption) *Repository {
	r := &Repository{
		adapter: adapter,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// List returns the persisted records in stored order.
func (r *Repository) List() []Record {
	return r.adapter.Load()
}

// CreateRecord builds a new record named after the trimmed name, or
// DefaultName when blank. The record is not persisted.
func (r *Repository) CreateRecord(name string) Record {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultName
	}
	ts := FormatTime(r.now())
	return Record{
		ID:        r.newID(),
		Name:      name,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
}

// Save hands the full list to the adapter. It is the only persistence
// trigger.
func (r *Repository) Save(records []Record) {
	r.adapter.Save(records)
}

// Now returns the repository clock reading, formatted for a record.
func (r *Repository) Now() string {
	return FormatTime(r.now())
}
