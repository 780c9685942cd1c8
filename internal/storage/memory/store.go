package memory

import (
	"context"
	"sync"

	interfaces "github.com/sheikh-saqib/multi-store-cash-ledger/internal/interfaces"
)

// MemoryKVStore is an in-memory implementation of interfaces.KVStore.
// Values are copied on the way in and out so callers can't alias stored bytes.
type MemoryKVStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

// NewMemoryKVStore creates an empty store
func NewMemoryKVStore() *MemoryKVStore {
	return &MemoryKVStore{
		blobs: make(map[string][]byte),
	}
}

func (m *MemoryKVStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.blobs[key]
	if !ok {
		return nil, false, nil
	}
	copied := make([]byte, len(v))
	copy(copied, v)
	return copied, true, nil
}

func (m *MemoryKVStore) Put(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := make([]byte, len(value))
	copy(copied, value)
	m.blobs[key] = copied
	return nil
}

// Compile-time check: ensure MemoryKVStore implements KVStore interface
var _ interfaces.KVStore = (*MemoryKVStore)(nil)
