package cart

import (
	"context"
	"sync"
)

// Store owns the cart of a single session. It loads the persisted snapshot
// once, then every mutation computes the next cart, saves it, and only then
// replaces the in-memory value.
type Store struct {
	mu        sync.Mutex
	sessionID string
	snapshots CartSnapshotStore
	agg       *Aggregator
	cart      Cart
	loaded    bool
}

// NewStore binds a session to its snapshot store.
func NewStore(sessionID string, snapshots CartSnapshotStore, agg *Aggregator) *Store {
	return &Store{
		sessionID: sessionID,
		snapshots: snapshots,
		agg:       agg,
		cart:      Empty(),
	}
}

// Load returns the session's cart, reading the snapshot on first use.
func (s *Store) Load(ctx context.Context) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return Empty(), err
	}
	return s.cart, nil
}

// AddToCart merges a book into the cart and persists the result.
func (s *Store) AddToCart(ctx context.Context, book Book, qty int) (Cart, error) {
	return s.mutate(ctx, func(c Cart) Cart {
		return s.agg.AddToCart(c, book, qty)
	})
}

// RemoveFromCart drops the line for bookID and persists the result.
func (s *Store) RemoveFromCart(ctx context.Context, bookID string) (Cart, error) {
	return s.mutate(ctx, func(c Cart) Cart {
		return s.agg.RemoveFromCart(c, bookID)
	})
}

// UpdateQuantity sets a line's quantity and persists the result.
func (s *Store) UpdateQuantity(ctx context.Context, bookID string, qty int) (Cart, error) {
	return s.mutate(ctx, func(c Cart) Cart {
		return s.agg.UpdateQuantity(c, bookID, qty)
	})
}

// ClearCart empties the cart and persists the empty snapshot.
func (s *Store) ClearCart(ctx context.Context) (Cart, error) {
	return s.mutate(ctx, func(Cart) Cart {
		return s.agg.ClearCart()
	})
}

func (s *Store) mutate(ctx context.Context, fn func(Cart) Cart) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return s.cart, err
	}
	next := fn(s.cart)
	if err := s.snapshots.SaveCart(ctx, s.sessionID, next); err != nil {
		return s.cart, err
	}
	s.cart = next
	return next, nil
}

func (s *Store) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	stored, err := s.snapshots.LoadCart(ctx, s.sessionID)
	if err != nil {
		return err
	}
	if stored != nil {
		s.cart = s.agg.Rehydrate(*stored)
	}
	s.loaded = true
	return nil
}
