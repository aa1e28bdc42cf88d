package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type lockStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	CheckoutLockKey(cartID string) string
}

// Locker serializes checkout attempts per cart. The lock guards the window
// between order creation and the widget handoff so a double-click cannot
// register two gateway orders for one cart. The TTL is a backstop for
// crashed holders, not a lease to renew.
type Locker struct {
	store lockStore
	ttl   time.Duration
}

// NewLocker builds a cart checkout locker over redis.
func NewLocker(store lockStore, ttl time.Duration) (*Locker, error) {
	if store == nil {
		return nil, fmt.Errorf("lock store is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("lock ttl must be positive")
	}
	return &Locker{store: store, ttl: ttl}, nil
}

// Acquire takes the per-cart lock. It reports false when another checkout
// attempt already holds it.
func (l *Locker) Acquire(ctx context.Context, cartID uuid.UUID) (bool, error) {
	key := l.store.CheckoutLockKey(cartID.String())
	return l.store.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), l.ttl)
}

// Release frees the per-cart lock.
func (l *Locker) Release(ctx context.Context, cartID uuid.UUID) error {
	return l.store.Del(ctx, l.store.CheckoutLockKey(cartID.String()))
}
