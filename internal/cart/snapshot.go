package cart

import (
	"context"
	"sync"
)

// CartSnapshotStore persists one cart per session. LoadCart returns nil, nil
// when the session has never saved a cart.
type CartSnapshotStore interface {
	LoadCart(ctx context.Context, sessionID string) (*Cart, error)
	SaveCart(ctx context.Context, sessionID string, snapshot Cart) error
}

// BuyNowSnapshotStore persists the single buy-now slot per session.
type BuyNowSnapshotStore interface {
	LoadBuyNow(ctx context.Context, sessionID string) (*BuyNowItem, error)
	SaveBuyNow(ctx context.Context, sessionID string, item BuyNowItem) error
	DeleteBuyNow(ctx context.Context, sessionID string) error
}

// SnapshotRepository is the persistence surface required by the cart service.
type SnapshotRepository interface {
	CartSnapshotStore
	BuyNowSnapshotStore
}

// MemorySnapshotRepository keeps snapshots in process memory. It backs tests
// and local runs without redis.
type MemorySnapshotRepository struct {
	mu     sync.RWMutex
	carts  map[string]Cart
	buyNow map[string]BuyNowItem
}

// NewMemorySnapshotRepository returns an empty in-memory repository.
func NewMemorySnapshotRepository() *MemorySnapshotRepository {
	return &MemorySnapshotRepository{
		carts:  map[string]Cart{},
		buyNow: map[string]BuyNowItem{},
	}
}

// LoadCart returns the stored cart snapshot, or nil when none exists.
func (m *MemorySnapshotRepository) LoadCart(ctx context.Context, sessionID string) (*Cart, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snapshot, ok := m.carts[sessionID]
	if !ok {
		return nil, nil
	}
	snapshot.Items = snapshot.cloneItems()
	return &snapshot, nil
}

// SaveCart overwrites the cart snapshot.
func (m *MemorySnapshotRepository) SaveCart(ctx context.Context, sessionID string, snapshot Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	snapshot.Items = snapshot.cloneItems()
	m.carts[sessionID] = snapshot
	return nil
}

// LoadBuyNow returns the stored buy-now slot, or nil when empty.
func (m *MemorySnapshotRepository) LoadBuyNow(ctx context.Context, sessionID string) (*BuyNowItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	item, ok := m.buyNow[sessionID]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

// SaveBuyNow overwrites the buy-now slot.
func (m *MemorySnapshotRepository) SaveBuyNow(ctx context.Context, sessionID string, item BuyNowItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buyNow[sessionID] = item
	return nil
}

// DeleteBuyNow removes the buy-now slot.
func (m *MemorySnapshotRepository) DeleteBuyNow(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.buyNow, sessionID)
	return nil
}
