// Package store persists named per-project string lists, used for the
// excluded-folder, excluded-file, and excluded-extension lists.
package store

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/dgraph-io/badger/v4"
)

// listPrefix namespaces list keys in the database.
const listPrefix = "l:"

// Store is the persisted-state capability the exclusion manager depends on.
// Lists are scoped per project. A list that has never been written reads as
// nil, which callers treat as empty; a list written empty reads as a
// non-nil empty slice.
type Store interface {
	// GetList returns the named list for the project, or nil if it has
	// never been written.
	GetList(project, name string) ([]string, error)

	// SetList replaces the named list for the project, creating it on
	// first use.
	SetList(project, name string, values []string) error

	// Close releases any underlying resources.
	Close() error
}

// Badger is a Store backed by Badger DB.
type Badger struct {
	db *badger.DB
}

// OpenBadger opens or creates a Badger-backed store at the given path.
func OpenBadger(path string) (*Badger, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Disable badger's own logging.

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Badger{db: db}, nil
}

// GetList returns the named list, or nil when the key is absent.
func (b *Badger) GetList(project, name string) ([]string, error) {
	var values []string

	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(listKey(project, name))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &values)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if values == nil {
		values = []string{}
	}
	return values, nil
}

// SetList replaces the named list.
func (b *Badger) SetList(project, name string, values []string) error {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return err
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(listKey(project, name), data)
	})
}

// Close closes the underlying database.
func (b *Badger) Close() error {
	return b.db.Close()
}

func listKey(project, name string) []byte {
	return []byte(listPrefix + project + ":" + name)
}

// Memory is an in-process Store for tests and non-persistent runs.
type Memory struct {
	mu    sync.RWMutex
	lists map[string][]string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{lists: make(map[string][]string)}
}

// GetList returns the named list, or nil when never written.
func (m *Memory) GetList(project, name string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	values, ok := m.lists[project+":"+name]
	if !ok {
		return nil, nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out, nil
}

// SetList replaces the named list.
func (m *Memory) SetList(project, name string, values []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]string, len(values))
	copy(stored, values)
	m.lists[project+":"+name] = stored
	return nil
}

// Close is a no-op for the in-memory store.
func (m *Memory) Close() error {
	return nil
}
