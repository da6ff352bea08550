package selection

import (
	"context"
	"sort"

	"github.com/Chinmay1190/stepup-storefront/internal/gateway"
	"github.com/Chinmay1190/stepup-storefront/internal/identity"
	"github.com/Chinmay1190/stepup-storefront/internal/localstore"
	"github.com/Chinmay1190/stepup-storefront/internal/metrics"
	"github.com/Chinmay1190/stepup-storefront/internal/realtime"
)

// Wishlist is the synchronizer instantiated for wishlist membership: keys
// and values are both the product id, at most one entry per product.
type Wishlist struct {
	set *Set[string, string]
}

type WishlistConfig struct {
	Store    gateway.WishlistStore // nil = local-only
	Local    localstore.Store
	CacheKey string // e.g. "<session>:wishlist"
	Feed     realtime.Feed
	Identity identity.Provider
	Metrics  *metrics.StorefrontMetrics
}

func NewWishlist(cfg WishlistConfig) *Wishlist {
	var remote RemoteSet[string, string]
	if cfg.Store != nil {
		remote = wishlistRemote{store: cfg.Store}
	}
	return &Wishlist{
		set: NewSet(Options[string, string]{
			Name:     "wishlist",
			KeyOf:    func(id string) string { return id },
			Remote:   remote,
			Local:    cfg.Local,
			CacheKey: cfg.CacheKey,
			Feed:     cfg.Feed,
			Table:    realtime.TableWishlistEntries,
			Identity: cfg.Identity,
			Metrics:  cfg.Metrics,
		}),
	}
}

func (w *Wishlist) Toggle(ctx context.Context, productID string) {
	w.set.Toggle(ctx, productID)
}

func (w *Wishlist) IsWishlisted(productID string) bool {
	return w.set.Contains(productID)
}

func (w *Wishlist) ProductIDs() []string {
	ids := w.set.Items()
	sort.Strings(ids)
	return ids
}

func (w *Wishlist) Len() int {
	return w.set.Len()
}

func (w *Wishlist) Close() {
	w.set.Close()
}

// wishlistRemote adapts the gateway's wishlist table to the engine.
type wishlistRemote struct {
	store gateway.WishlistStore
}

func (r wishlistRemote) Fetch(ctx context.Context, ownerID string) ([]string, error) {
	return r.store.ListWishlist(ctx, ownerID)
}

func (r wishlistRemote) Insert(ctx context.Context, ownerID string, productID string) error {
	return r.store.AddWishlist(ctx, ownerID, productID)
}

func (r wishlistRemote) Delete(ctx context.Context, ownerID string, productID string) error {
	return r.store.RemoveWishlist(ctx, ownerID, productID)
}
