package storage

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/alnah/go-paperpdf/internal/canvas"
	"github.com/alnah/go-paperpdf/internal/config"
)

// Sentinel errors for storage operations.
var (
	ErrUnavailable    = errors.New("storage unavailable")
	ErrCorrupt        = errors.New("stored canvas list is corrupt")
	ErrUnknownBackend = errors.New("unknown storage backend")
)

// KeyValueStore is a string key-value store in the shape of browser
// local storage.
type KeyValueStore interface {
	// GetItem returns the value for key. ok is false when key is absent.
	GetItem(key string) (value string, ok bool, err error)
	SetItem(key, value string) error
	RemoveItem(key string) error
	// Available reports whether the store can currently be used.
	Available() bool
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open builds the adapter selected by cfg. A backend that cannot be opened
// degrades to an unavailable adapter (session-only library) and is logged
// as a warning rather than returned. The closer releases the backend.
func Open(cfg config.StorageConfig, opts ...AdapterOption) (canvas.StorageAdapter, io.Closer, error) {
	o := newAdapterOptions(opts)
	key := cfg.Key
	if key == "" {
		key = config.DefaultStorageKey
	}

	fields := logrus.Fields{
		"backend": cfg.Backend,
		"key":     key,
	}

	switch cfg.Backend {
	case config.BackendMemory:
		o.log.WithFields(fields).Info("Use storage")
		return NewMemoryAdapter(), nopCloser{}, nil

	case config.BackendFile, "":
		path := cfg.ResolvedPath()
		fields["path"] = path
		store, err := NewFileStore(path)
		if err != nil {
			o.log.WithFields(fields).WithError(fmt.Errorf("%w: %v", ErrUnavailable, err)).
				Warn("Canvas storage unavailable, changes will not persist")
			return NewKeyedAdapter(nil, key, opts...), nopCloser{}, nil
		}
		o.log.WithFields(fields).Info("Use storage")
		return NewKeyedAdapter(store, key, opts...), nopCloser{}, nil

	case config.BackendSQLite:
		path := cfg.ResolvedPath()
		fields["path"] = path
		store, err := NewSQLiteStore(path)
		if err != nil {
			o.log.WithFields(fields).WithError(fmt.Errorf("%w: %v", ErrUnavailable, err)).
				Warn("Canvas storage unavailable, changes will not persist")
			return NewKeyedAdapter(nil, key, opts...), nopCloser{}, nil
		}
		o.log.WithFields(fields).Info("Use storage")
		return NewKeyedAdapter(store, key, opts...), store, nil

	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
