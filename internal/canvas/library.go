package canvas

import (
	"strings"
	"sync"
)

// Patch lists the record fields an update may change. Nil fields are
// left untouched. ID and CreatedAt cannot be patched.
type Patch struct {
	Name *string
}

// Library owns the in-memory canvas list and keeps it in sync with the
// repository. Safe for concurrent use.
type Library struct {
	repo *Repository

	mu       sync.Mutex
	canvases []Record
}

// NewLibrary loads the persisted list once.
func NewLibrary(repo *Repository) *Library {
	return &Library{
		repo:     repo,
		canvases: Clone(repo.List()),
	}
}

// Canvases returns a copy of the list in insertion order.
func (l *Library) Canvases() []Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Clone(l.canvases)
}

// Get returns the record with id.
func (l *Library) Get(id string) (Record, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, c := range l.canvases {
		if c.ID == id {
			return c, true
		}
	}
	return Record{}, false
}

// Create appends a new record and persists the list.
func (l *Library) Create(name string) Record {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec := l.repo.CreateRecord(name)
	next := append(Clone(l.canvases), rec)
	l.commit(next)
	return rec
}

// Update merges patch into the record with id and refreshes its
// UpdatedAt. A blank name patch falls back to DefaultName. The list is
// saved even when id is unknown, in which case the returned bool is
// false and nothing changes.
func (l *Library) Update(id string, patch Patch) (Record, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var (
		updated Record
		found   bool
	)
	next := make([]Record, len(l.canvases))
	for i, c := range l.canvases {
		if c.ID == id {
			if patch.Name != nil {
				c.Name = normalizeName(*patch.Name)
			}
			c.UpdatedAt = laterTimestamp(c.UpdatedAt, l.repo.Now())
			updated, found = c, true
		}
		next[i] = c
	}
	l.commit(next)
	return updated, found
}

// Rename sets a record's name. Blank names fall back to DefaultName.
func (l *Library) Rename(id, name string) (Record, bool) {
	return l.Update(id, Patch{Name: &name})
}

// Delete removes the record with id and persists the list.
// Returns false, without saving, when id is unknown.
func (l *Library) Delete(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := make([]Record, 0, len(l.canvases))
	for _, c := range l.canvases {
		if c.ID != id {
			next = append(next, c)
		}
	}
	if len(next) == len(l.canvases) {
		return false
	}
	l.commit(next)
	return true
}

// commit replaces the list and persists it. Callers hold l.mu.
func (l *Library) commit(next []Record) {
	l.canvases = next
	l.repo.Save(Clone(next))
}

// normalizeName trims name and substitutes DefaultName when blank.
func normalizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultName
	}
	return name
}

// laterTimestamp returns candidate unless it parses earlier than prev,
// so UpdatedAt never moves backwards when the clock does.
func laterTimestamp(prev, candidate string) string {
	p, err := ParseTime(prev)
	if err != nil {
		return candidate
	}
	c, err := ParseTime(candidate)
	if err != nil {
		return prev
	}
	if c.Before(p) {
		return prev
	}
	return candidate
}
