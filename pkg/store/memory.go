package store

import (
	"context"
	"sync"
)

// MemoryStore keeps snapshots in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	byID   map[string]*Snapshot
	byHash map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:   make(map[string]*Snapshot),
		byHash: make(map[string]string),
	}
}

func (m *MemoryStore) Save(_ context.Context, s *Snapshot) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.byHash[s.GraphHash]; ok {
		return m.byID[id], nil
	}
	m.byID[s.ID] = s
	m.byHash[s.GraphHash] = s.ID
	return s, nil
}

func (m *MemoryStore) Load(_ context.Context, id string) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	delete(m.byID, id)
	delete(m.byHash, s.GraphHash)
	return nil
}

func (m *MemoryStore) Close(context.Context) error { return nil }

var _ GraphStore = (*MemoryStore)(nil)
