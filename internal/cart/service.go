package cart

import (
	"context"
	"strings"
	"sync"

	"github.com/angelmondragon/bookstore-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bookstore-backend/pkg/errors"
	"github.com/angelmondragon/bookstore-backend/pkg/logger"
	"github.com/angelmondragon/bookstore-backend/pkg/metrics"
)

// Service exposes cart and buy-now operations scoped to a cart session.
type Service interface {
	Get(ctx context.Context, sessionID string) (Cart, error)
	Add(ctx context.Context, sessionID string, book Book, qty int) (Cart, error)
	Remove(ctx context.Context, sessionID, bookID string) (Cart, error)
	UpdateQuantity(ctx context.Context, sessionID, bookID string, qty int) (Cart, error)
	Clear(ctx context.Context, sessionID string) (Cart, error)
	Contains(ctx context.Context, sessionID, bookID string) (bool, error)
	Quantity(ctx context.Context, sessionID, bookID string) (int, error)

	SetBuyNow(ctx context.Context, sessionID string, book Book, qty int) (BuyNowItem, error)
	GetBuyNow(ctx context.Context, sessionID string) (*BuyNowItem, error)
	ClearBuyNow(ctx context.Context, sessionID string) error
}

// ServiceParams carries the service dependencies.
type ServiceParams struct {
	Snapshots SnapshotRepository
	Policy    Policy
	Metrics   *metrics.CartMetrics
	Logger    *logger.Logger
}

type service struct {
	snapshots SnapshotRepository
	agg       *Aggregator
	metrics   *metrics.CartMetrics
	logg      *logger.Logger
	locks     *sessionLocks
}

// NewService builds a cart service.
func NewService(params ServiceParams) (Service, error) {
	if params.Snapshots == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart snapshot repository required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	return &service{
		snapshots: params.Snapshots,
		agg:       NewAggregator(params.Policy),
		metrics:   params.Metrics,
		logg:      params.Logger,
		locks:     newSessionLocks(),
	}, nil
}

func (s *service) Get(ctx context.Context, sessionID string) (Cart, error) {
	sessionID, err := normalizeSession(sessionID)
	if err != nil {
		return Empty(), err
	}
	cart, err := NewStore(sessionID, s.snapshots, s.agg).Load(ctx)
	if err != nil {
		return Empty(), pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return cart, nil
}

func (s *service) Add(ctx context.Context, sessionID string, book Book, qty int) (Cart, error) {
	if strings.TrimSpace(book.ID) == "" {
		return Empty(), pkgerrors.New(pkgerrors.CodeValidation, "book id is required")
	}
	return s.mutate(ctx, sessionID, enums.CartOperationAdd, func(store *Store) (Cart, error) {
		return store.AddToCart(ctx, book, qty)
	})
}

func (s *service) Remove(ctx context.Context, sessionID, bookID string) (Cart, error) {
	return s.mutate(ctx, sessionID, enums.CartOperationRemove, func(store *Store) (Cart, error) {
		return store.RemoveFromCart(ctx, bookID)
	})
}

func (s *service) UpdateQuantity(ctx context.Context, sessionID, bookID string, qty int) (Cart, error) {
	return s.mutate(ctx, sessionID, enums.CartOperationUpdateQuantity, func(store *Store) (Cart, error) {
		return store.UpdateQuantity(ctx, bookID, qty)
	})
}

func (s *service) Clear(ctx context.Context, sessionID string) (Cart, error) {
	return s.mutate(ctx, sessionID, enums.CartOperationClear, func(store *Store) (Cart, error) {
		return store.ClearCart(ctx)
	})
}

func (s *service) Contains(ctx context.Context, sessionID, bookID string) (bool, error) {
	cart, err := s.Get(ctx, sessionID)
	if err != nil {
		return false, err
	}
	return cart.IsInCart(bookID), nil
}

func (s *service) Quantity(ctx context.Context, sessionID, bookID string) (int, error) {
	cart, err := s.Get(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return cart.GetItemQuantity(bookID), nil
}

func (s *service) SetBuyNow(ctx context.Context, sessionID string, book Book, qty int) (BuyNowItem, error) {
	sessionID, err := normalizeSession(sessionID)
	if err != nil {
		return BuyNowItem{}, err
	}
	if strings.TrimSpace(book.ID) == "" {
		return BuyNowItem{}, pkgerrors.New(pkgerrors.CodeValidation, "book id is required")
	}
	unlock := s.locks.lock(sessionID)
	defer unlock()

	item, err := NewBuyNowStore(sessionID, s.snapshots).SetBuyNowItem(ctx, book, qty)
	if err != nil {
		return BuyNowItem{}, s.persistFailure(ctx, sessionID, enums.CartOperationSetBuyNow, err)
	}
	s.metrics.IncMutation(enums.CartOperationSetBuyNow)
	return item, nil
}

func (s *service) GetBuyNow(ctx context.Context, sessionID string) (*BuyNowItem, error) {
	sessionID, err := normalizeSession(sessionID)
	if err != nil {
		return nil, err
	}
	item, err := NewBuyNowStore(sessionID, s.snapshots).Item(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load buy now item")
	}
	return item, nil
}

func (s *service) ClearBuyNow(ctx context.Context, sessionID string) error {
	sessionID, err := normalizeSession(sessionID)
	if err != nil {
		return err
	}
	unlock := s.locks.lock(sessionID)
	defer unlock()

	if err := NewBuyNowStore(sessionID, s.snapshots).ClearBuyNowItem(ctx); err != nil {
		return s.persistFailure(ctx, sessionID, enums.CartOperationClearBuyNow, err)
	}
	s.metrics.IncMutation(enums.CartOperationClearBuyNow)
	return nil
}

func (s *service) mutate(ctx context.Context, sessionID string, op enums.CartOperation, fn func(*Store) (Cart, error)) (Cart, error) {
	sessionID, err := normalizeSession(sessionID)
	if err != nil {
		return Empty(), err
	}
	unlock := s.locks.lock(sessionID)
	defer unlock()

	cart, err := fn(NewStore(sessionID, s.snapshots, s.agg))
	if err != nil {
		return cart, s.persistFailure(ctx, sessionID, op, err)
	}
	s.metrics.IncMutation(op)
	s.metrics.ObserveItemCount(cart.ItemCount)

	ctx = s.logg.WithCartSession(ctx, sessionID)
	ctx = s.logg.WithFields(ctx, map[string]any{"operation": op, "item_count": cart.ItemCount})
	s.logg.Debug(ctx, "cart updated")
	return cart, nil
}

func (s *service) persistFailure(ctx context.Context, sessionID string, op enums.CartOperation, err error) error {
	s.metrics.IncFailure(op)
	ctx = s.logg.WithCartSession(ctx, sessionID)
	ctx = s.logg.WithField(ctx, "operation", op)
	s.logg.Error(ctx, "failed to persist cart state", err)
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart state")
}

func normalizeSession(sessionID string) (string, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "cart session is required")
	}
	return sessionID, nil
}

// sessionLocks serializes mutations per session within this process.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: map[string]*sessionLock{}}
}

func (l *sessionLocks) lock(sessionID string) func() {
	l.mu.Lock()
	entry, ok := l.locks[sessionID]
	if !ok {
		entry = &sessionLock{}
		l.locks[sessionID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, sessionID)
		}
		l.mu.Unlock()
	}
}
