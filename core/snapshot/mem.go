package snapshot

import (
	"context"
	"sync"
)

// MemStore is an in-memory Store, suitable for tests and single-process
// hosts.
type MemStore struct {
	mu   sync.RWMutex
	data map[string]Snapshot
}

func NewMemStore() *MemStore {
	return &MemStore{data: map[string]Snapshot{}}
}

func (m *MemStore) Save(_ context.Context, key string, snap Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = snap
	return nil
}

func (m *MemStore) Load(_ context.Context, key string) (Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap, ok := m.data[key]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	return snap, nil
}

func (m *MemStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

var _ Store = (*MemStore)(nil)
