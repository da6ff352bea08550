package gateway

import (
	"context"
	"time"

	"github.com/sony/gobreaker/v2"
)

// BreakerWishlistStore guards a WishlistStore with a circuit breaker. The
// synchronizer swallows remote errors, so without a breaker a dead store
// would be retried on every toggle; tripping open turns that into an
// immediate local-only failure until the store recovers.
type BreakerWishlistStore struct {
	inner WishlistStore
	cb    *gobreaker.CircuitBreaker[any]
}

func NewBreakerWishlistStore(inner WishlistStore) *BreakerWishlistStore {
	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:    "wishlist-store",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return &BreakerWishlistStore{inner: inner, cb: cb}
}

func (b *BreakerWishlistStore) ListWishlist(ctx context.Context, ownerID string) ([]string, error) {
	v, err := b.cb.Execute(func() (any, error) {
		return b.inner.ListWishlist(ctx, ownerID)
	})
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}

func (b *BreakerWishlistStore) AddWishlist(ctx context.Context, ownerID, productID string) error {
	_, err := b.cb.Execute(func() (any, error) {
		return nil, b.inner.AddWishlist(ctx, ownerID, productID)
	})
	return err
}

func (b *BreakerWishlistStore) RemoveWishlist(ctx context.Context, ownerID, productID string) error {
	_, err := b.cb.Execute(func() (any, error) {
		return nil, b.inner.RemoveWishlist(ctx, ownerID, productID)
	})
	return err
}
