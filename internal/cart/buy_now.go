package cart

import (
	"context"
	"sync"

	"github.com/angelmondragon/bookstore-backend/pkg/money"
)

// BuyNowItem is the single book captured for the immediate checkout path.
type BuyNowItem struct {
	Book     Book `json:"book"`
	Quantity int  `json:"quantity"`
}

// CheckoutView builds the one-line cart checkout shows for a buy-now item.
// The buy-now path charges no tax or shipping.
func (b BuyNowItem) CheckoutView() Cart {
	qty := b.Quantity
	if qty < 1 {
		qty = 1
	}
	price := b.Book.UnitPrice()
	subtotal := money.LineTotal(price, qty)
	return Cart{
		Items: []LineItem{{
			ID:       b.Book.ID,
			Book:     b.Book,
			Quantity: qty,
			Price:    price,
			Total:    subtotal,
		}},
		Subtotal:  subtotal,
		Total:     subtotal,
		ItemCount: qty,
	}
}

// BuyNowStore holds one session's buy-now slot. Each Set overwrites it.
type BuyNowStore struct {
	mu        sync.Mutex
	sessionID string
	snapshots BuyNowSnapshotStore
	item      *BuyNowItem
	loaded    bool
}

// NewBuyNowStore binds a session to its buy-now snapshot store.
func NewBuyNowStore(sessionID string, snapshots BuyNowSnapshotStore) *BuyNowStore {
	return &BuyNowStore{sessionID: sessionID, snapshots: snapshots}
}

// Item returns a copy of the slot, or nil when empty.
func (s *BuyNowStore) Item(ctx context.Context) (*BuyNowItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	if s.item == nil {
		return nil, nil
	}
	item := *s.item
	return &item, nil
}

// HasBuyNowItem reports whether the slot holds an item.
func (s *BuyNowStore) HasBuyNowItem(ctx context.Context) (bool, error) {
	item, err := s.Item(ctx)
	return item != nil, err
}

// SetBuyNowItem overwrites the slot. A quantity below 1 counts as 1 and
// anything above MaxLineQuantity is capped.
func (s *BuyNowStore) SetBuyNowItem(ctx context.Context, book Book, qty int) (BuyNowItem, error) {
	if qty < 1 {
		qty = 1
	}
	item := BuyNowItem{Book: book, Quantity: clampQuantity(qty)}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.snapshots.SaveBuyNow(ctx, s.sessionID, item); err != nil {
		return BuyNowItem{}, err
	}
	s.item = &item
	s.loaded = true
	return item, nil
}

// ClearBuyNowItem deletes the persisted slot, then empties it.
func (s *BuyNowStore) ClearBuyNowItem(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.snapshots.DeleteBuyNow(ctx, s.sessionID); err != nil {
		return err
	}
	s.item = nil
	s.loaded = true
	return nil
}

func (s *BuyNowStore) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	item, err := s.snapshots.LoadBuyNow(ctx, s.sessionID)
	if err != nil {
		return err
	}
	s.item = item
	s.loaded = true
	return nil
}
