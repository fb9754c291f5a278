package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/alnah/go-paperpdf/internal/fileutil"
)

const (
	storeDirPermissions  = 0o750
	storeFilePermissions = 0o600
)

var _ KeyValueStore = (*FileStore)(nil)

// FileStore keeps string values in a single JSON object file. Writes
// replace the file atomically. Safe for concurrent use within a process.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store at path, creating its directory.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("file store path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), storeDirPermissions); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}
	return &FileStore{path: path}, nil
}

// Path returns the backing file.
func (s *FileStore) Path() string {
	return s.path
}

// Available reports whether the store directory exists.
func (s *FileStore) Available() bool {
	info, err := os.Stat(filepath.Dir(s.path))
	return err == nil && info.IsDir()
}

// GetItem returns the value stored under key.
func (s *FileStore) GetItem(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.read()
	if err != nil {
		return "", false, err
	}
	v, ok := items[key]
	return v, ok, nil
}

// SetItem stores value under key. An unreadable file is replaced.
func (s *FileStore) SetItem(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.read()
	if err != nil {
		items = map[string]string{}
	}
	items[key] = value
	return s.write(items)
}

// RemoveItem deletes key. Removing an absent key is not an error. An
// unreadable file is reset to an empty object.
func (s *FileStore) RemoveItem(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.read()
	if err != nil {
		items = map[string]string{}
	}
	delete(items, key)
	return s.write(items)
}

// read loads the object file. A missing file is an empty store.
func (s *FileStore) read() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading store: %w", err)
	}
	items := map[string]string{}
	if len(data) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, s.path, err)
	}
	return items, nil
}

func (s *FileStore) write(items map[string]string) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding store: %w", err)
	}
	if err := fileutil.WriteFileAtomic(s.path, data, storeFilePermissions); err != nil {
		return fmt.Errorf("writing store: %w", err)
	}
	return nil
}
