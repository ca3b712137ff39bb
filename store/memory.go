package store

import (
	"slices"
	"sync"

	"github.com/stevemurr/simple-user-table/record"
)

// MemoryStore keeps records in a slice. Data is lost when the session ends.
// Safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	records []record.Record
	lastID  int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) List() ([]record.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.records), nil
}

func (m *MemoryStore) Insert(r record.Record) (record.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastID++
	r.ID = m.lastID
	m.records = append(m.records, r)
	return r, nil
}

func (m *MemoryStore) UpdateByID(id int, replacement record.Record) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := slices.IndexFunc(m.records, func(r record.Record) bool { return r.ID == id })
	if i < 0 {
		return false, nil
	}
	replacement.ID = id
	m.records[i] = replacement
	return true, nil
}

func (m *MemoryStore) DeleteByID(id int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.records)
	m.records = slices.DeleteFunc(m.records, func(r record.Record) bool { return r.ID == id })
	return len(m.records) != n, nil
}

func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = nil
	return nil
}
