package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/alnah/go-paperpdf/internal/canvas"
)

// Compile-time interface checks.
var (
	_ canvas.StorageAdapter = (*KeyedAdapter)(nil)
	_ canvas.StorageAdapter = (*MemoryAdapter)(nil)
)

// AdapterOption configures adapters built by this package.
type AdapterOption func(*adapterOptions)

type adapterOptions struct {
	log logrus.FieldLogger
}

func newAdapterOptions(opts []AdapterOption) adapterOptions {
	o := adapterOptions{log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger for warnings about unavailable or corrupt
// storage.
func WithLogger(l logrus.FieldLogger) AdapterOption {
	return func(o *adapterOptions) {
		if l != nil {
			o.log = l
		}
	}
}

// KeyedAdapter persists the canvas list as a JSON array under one key.
type KeyedAdapter struct {
	store KeyValueStore
	key   string
	log   logrus.FieldLogger
}

// NewKeyedAdapter creates an adapter over store. A nil store yields an
// adapter that loads nothing and ignores saves.
func NewKeyedAdapter(store KeyValueStore, key string, opts ...AdapterOption) *KeyedAdapter {
	o := newAdapterOptions(opts)
	return &KeyedAdapter{
		store: store,
		key:   key,
		log:   o.log.WithField("key", key),
	}
}

// Available reports whether the backing store can be used.
func (a *KeyedAdapter) Available() bool {
	return a.store != nil && a.store.Available()
}

// Load returns the stored list, or an empty list when the store is
// unavailable, the key is absent, or the data is corrupt. Corrupt data is
// removed so the next save starts clean.
func (a *KeyedAdapter) Load() []canvas.Record {
	if !a.Available() {
		return []canvas.Record{}
	}

	raw, ok, err := a.store.GetItem(a.key)
	switch {
	case errors.Is(err, ErrCorrupt):
		return a.discard(err)
	case err != nil:
		a.log.WithError(err).Warn("Failed to read canvas list")
		return []canvas.Record{}
	case !ok:
		return []canvas.Record{}
	}

	records, err := decodeList(raw)
	if err != nil {
		return a.discard(err)
	}
	return records
}

// discard removes the corrupt key and returns an empty list.
func (a *KeyedAdapter) discard(cause error) []canvas.Record {
	a.log.WithError(cause).Warn("Discarding corrupt canvas list")
	if err := a.store.RemoveItem(a.key); err != nil {
		a.log.WithError(err).Warn("Failed to remove corrupt canvas list")
	}
	return []canvas.Record{}
}

// Save replaces the stored list. Errors are logged, never returned.
func (a *KeyedAdapter) Save(records []canvas.Record) {
	if !a.Available() {
		return
	}

	data, err := json.Marshal(canvas.Clone(records))
	if err != nil {
		a.log.WithError(err).Error("Failed to encode canvas list")
		return
	}
	if err := a.store.SetItem(a.key, string(data)); err != nil {
		a.log.WithError(err).WithField("count", len(records)).Error("Failed to persist canvas list")
		return
	}
	a.log.WithField("count", len(records)).Debug("Canvas list saved")
}

// decodeList parses a stored JSON array and checks its records.
func decodeList(raw string) ([]canvas.Record, error) {
	if !strings.HasPrefix(strings.TrimSpace(raw), "[") {
		return nil, fmt.Errorf("%w: not a JSON array", ErrCorrupt)
	}
	var records []canvas.Record
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if err := canvas.ValidateList(records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return canvas.Clone(records), nil
}

// MemoryAdapter keeps the list in process memory only.
type MemoryAdapter struct {
	mu      sync.Mutex
	records []canvas.Record
}

// NewMemoryAdapter creates an empty MemoryAdapter.
func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{records: []canvas.Record{}}
}

// Load returns a copy of the last saved list.
func (m *MemoryAdapter) Load() []canvas.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return canvas.Clone(m.records)
}

// Save replaces the list with a copy of records.
func (m *MemoryAdapter) Save(records []canvas.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = canvas.Clone(records)
}
