package store

import (
	"context"
	"encoding/json"
	"sync"

	domain "github.com/gokmen-54/nalburos-web-deploy/internal/domain/store"
)

// MemoryStore is an in-memory RecordStore used by tests and as a throwaway
// development backend. Collections read as empty until first written.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[domain.Collection][]json.RawMessage
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[domain.Collection][]json.RawMessage)}
}

// Read returns a copy of the collection's records.
func (m *MemoryStore) Read(_ context.Context, c domain.Collection) ([]json.RawMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneRecords(m.collections[c]), nil
}

// Write replaces the collection's records.
func (m *MemoryStore) Write(_ context.Context, c domain.Collection, records []json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.collections[c] = cloneRecords(records)
	return nil
}

// WriteAll replaces several collections under one lock acquisition.
func (m *MemoryStore) WriteAll(_ context.Context, batch map[domain.Collection][]json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for c, records := range batch {
		m.collections[c] = cloneRecords(records)
	}
	return nil
}

func cloneRecords(records []json.RawMessage) []json.RawMessage {
	out := make([]json.RawMessage, len(records))
	for i, r := range records {
		out[i] = append(json.RawMessage(nil), r...)
	}
	return out
}
