package selection

import (
	"context"
	"sort"

	"github.com/Chinmay1190/stepup-storefront/internal/domain"
	"github.com/Chinmay1190/stepup-storefront/internal/identity"
	"github.com/Chinmay1190/stepup-storefront/internal/localstore"
	"github.com/Chinmay1190/stepup-storefront/internal/metrics"
)

// Cart layers quantity semantics on the selection engine. Lines are keyed
// by (product, size, color); adding the same key merges by summing quantity,
// and a line driven below quantity 1 is removed, never retained. The gateway
// has no cart table, so the cart runs the engine local-only and mirrors to
// the durable store in both persistence modes.
type Cart struct {
	set *Set[domain.LineKey, domain.CartLine]
}

type CartConfig struct {
	Local    localstore.Store
	CacheKey string // e.g. "<session>:cart"
	Identity identity.Provider
	Metrics  *metrics.StorefrontMetrics
}

func NewCart(cfg CartConfig) *Cart {
	return &Cart{
		set: NewSet(Options[domain.LineKey, domain.CartLine]{
			Name:     "cart",
			KeyOf:    domain.CartLine.Key,
			Local:    cfg.Local,
			CacheKey: cfg.CacheKey,
			Identity: cfg.Identity,
			Metrics:  cfg.Metrics,
		}),
	}
}

// AddLine inserts a line, merging into an existing line with the same
// composite key by summing quantities.
func (c *Cart) AddLine(ctx context.Context, line domain.CartLine) {
	if line.Quantity < 1 {
		line.Quantity = 1
	}
	key := line.Key()
	c.set.Update(ctx, func(items map[domain.LineKey]domain.CartLine) {
		if existing, ok := items[key]; ok {
			existing.Quantity += line.Quantity
			items[key] = existing
			return
		}
		items[key] = line
	})
}

// SetQuantity sets a line's quantity. Anything below 1 is a removal.
func (c *Cart) SetQuantity(ctx context.Context, key domain.LineKey, quantity int) {
	c.set.Update(ctx, func(items map[domain.LineKey]domain.CartLine) {
		line, ok := items[key]
		if !ok {
			return
		}
		if quantity < 1 {
			delete(items, key)
			return
		}
		line.Quantity = quantity
		items[key] = line
	})
}

func (c *Cart) Remove(ctx context.Context, key domain.LineKey) {
	c.set.Update(ctx, func(items map[domain.LineKey]domain.CartLine) {
		delete(items, key)
	})
}

func (c *Cart) Clear(ctx context.Context) {
	c.set.Update(ctx, func(items map[domain.LineKey]domain.CartLine) {
		for key := range items {
			delete(items, key)
		}
	})
}

func (c *Cart) Contains(key domain.LineKey) bool {
	return c.set.Contains(key)
}

// Lines returns a stable-ordered snapshot.
func (c *Cart) Lines() []domain.CartLine {
	lines := c.set.Items()
	sort.Slice(lines, func(i, j int) bool {
		a, b := lines[i], lines[j]
		if a.ProductID != b.ProductID {
			return a.ProductID < b.ProductID
		}
		if a.Size != b.Size {
			return a.Size < b.Size
		}
		return a.Color < b.Color
	})
	return lines
}

func (c *Cart) Subtotal() float64 {
	return domain.Subtotal(c.set.Items())
}

func (c *Cart) Len() int {
	return c.set.Len()
}

func (c *Cart) Close() {
	c.set.Close()
}
