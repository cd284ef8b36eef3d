package cart

import (
	"context"
	"time"

	"github.com/angelmondragon/bookstore-backend/pkg/config"
)

type snapshotClient interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(sessionID string) string
	BuyNowKey(sessionID string) string
}

// RedisSnapshotRepository stores cart snapshots for the long term and the
// buy-now slot with a short, session-scoped TTL.
type RedisSnapshotRepository struct {
	client    snapshotClient
	cartTTL   time.Duration
	buyNowTTL time.Duration
}

// NewRedisSnapshotRepository binds the repository to a redis client.
func NewRedisSnapshotRepository(client snapshotClient, cfg config.CartConfig) *RedisSnapshotRepository {
	return &RedisSnapshotRepository{
		client:    client,
		cartTTL:   cfg.SnapshotTTL,
		buyNowTTL: cfg.BuyNowTTL,
	}
}

// LoadCart returns the stored cart snapshot, or nil when none exists.
func (r *RedisSnapshotRepository) LoadCart(ctx context.Context, sessionID string) (*Cart, error) {
	var snapshot Cart
	found, err := r.client.GetJSON(ctx, r.client.CartKey(sessionID), &snapshot)
	if err != nil || !found {
		return nil, err
	}
	return &snapshot, nil
}

// SaveCart overwrites the cart snapshot.
func (r *RedisSnapshotRepository) SaveCart(ctx context.Context, sessionID string, snapshot Cart) error {
	return r.client.SetJSON(ctx, r.client.CartKey(sessionID), snapshot, r.cartTTL)
}

// LoadBuyNow returns the stored buy-now slot, or nil when empty.
func (r *RedisSnapshotRepository) LoadBuyNow(ctx context.Context, sessionID string) (*BuyNowItem, error) {
	var item BuyNowItem
	found, err := r.client.GetJSON(ctx, r.client.BuyNowKey(sessionID), &item)
	if err != nil || !found {
		return nil, err
	}
	return &item, nil
}

// SaveBuyNow overwrites the buy-now slot.
func (r *RedisSnapshotRepository) SaveBuyNow(ctx context.Context, sessionID string, item BuyNowItem) error {
	return r.client.SetJSON(ctx, r.client.BuyNowKey(sessionID), item, r.buyNowTTL)
}

// DeleteBuyNow removes the buy-now slot.
func (r *RedisSnapshotRepository) DeleteBuyNow(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, r.client.BuyNowKey(sessionID))
}
