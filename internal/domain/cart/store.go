package cart

import (
	"context"
	"sync"
)

// Store persists one item slice per user. Implementations replace the whole
// value on every write.
type Store interface {
	Get(ctx context.Context, userID string) ([]CartItem, error)
	Save(ctx context.Context, userID string, items []CartItem) error
	Clear(ctx context.Context, userID string) error
	Ping(ctx context.Context) error
}

// MemoryStore keeps carts in process memory. Used in tests and dev mode.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string][]CartItem
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string][]CartItem)}
}

func (m *MemoryStore) Get(_ context.Context, userID string) ([]CartItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	items := m.carts[userID]
	out := make([]CartItem, len(items))
	copy(out, items)
	return out, nil
}

func (m *MemoryStore) Save(_ context.Context, userID string, items []CartItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]CartItem, len(items))
	copy(stored, items)
	m.carts[userID] = stored
	return nil
}

func (m *MemoryStore) Clear(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, userID)
	return nil
}

func (m *MemoryStore) Ping(_ context.Context) error { return nil }
