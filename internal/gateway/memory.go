package gateway

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Chinmay1190/stepup-storefront/internal/domain"
	"github.com/Chinmay1190/stepup-storefront/internal/realtime"
)

// MemoryGateway implements WishlistStore and OrderStore in memory, for tests
// and single-binary runs without Postgres.
type MemoryGateway struct {
	mu       sync.RWMutex
	wishlist map[string]map[string]struct{} // ownerID -> productID set
	orders   map[string]*domain.Order       // orderID -> header
	lines    map[string][]domain.OrderLine  // orderID -> lines
	tracking map[string][]domain.TrackingEvent
	feed     realtime.Feed

	// FailWrites makes every mutating call return an error, for exercising
	// revert and partial-failure paths.
	FailWrites error
	// FailLineWrites fails only the line batch, leaving the header committed.
	FailLineWrites error
}

func NewMemoryGateway(feed realtime.Feed) *MemoryGateway {
	return &MemoryGateway{
		wishlist: make(map[string]map[string]struct{}),
		orders:   make(map[string]*domain.Order),
		lines:    make(map[string][]domain.OrderLine),
		tracking: make(map[string][]domain.TrackingEvent),
		feed:     feed,
	}
}

func (g *MemoryGateway) ListWishlist(_ context.Context, ownerID string) ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	set := g.wishlist[ownerID]
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (g *MemoryGateway) AddWishlist(ctx context.Context, ownerID, productID string) error {
	g.mu.Lock()
	if g.FailWrites != nil {
		g.mu.Unlock()
		return g.FailWrites
	}
	set, ok := g.wishlist[ownerID]
	if !ok {
		set = make(map[string]struct{})
		g.wishlist[ownerID] = set
	}
	if _, exists := set[productID]; exists {
		g.mu.Unlock()
		return ErrDuplicateEntry
	}
	set[productID] = struct{}{}
	g.mu.Unlock()

	g.publish(ctx, realtime.TableWishlistEntries, ownerID, realtime.OpInsert)
	return nil
}

func (g *MemoryGateway) RemoveWishlist(ctx context.Context, ownerID, productID string) error {
	g.mu.Lock()
	if g.FailWrites != nil {
		g.mu.Unlock()
		return g.FailWrites
	}
	delete(g.wishlist[ownerID], productID)
	g.mu.Unlock()

	g.publish(ctx, realtime.TableWishlistEntries, ownerID, realtime.OpDelete)
	return nil
}

func (g *MemoryGateway) CreateOrder(ctx context.Context, order *domain.Order) (string, error) {
	g.mu.Lock()
	if g.FailWrites != nil {
		g.mu.Unlock()
		return "", g.FailWrites
	}
	stored := *order
	stored.ID = uuid.New().String()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	g.orders[stored.ID] = &stored
	g.mu.Unlock()

	g.publish(ctx, realtime.TableOrders, order.OwnerID, realtime.OpInsert)
	return stored.ID, nil
}

func (g *MemoryGateway) CreateOrderLines(_ context.Context, orderID string, lines []domain.OrderLine) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.FailWrites != nil {
		return g.FailWrites
	}
	if g.FailLineWrites != nil {
		return g.FailLineWrites
	}
	if _, ok := g.orders[orderID]; !ok {
		return ErrOrderNotFound
	}
	for _, line := range lines {
		line.OrderID = orderID
		g.lines[orderID] = append(g.lines[orderID], line)
	}
	return nil
}

func (g *MemoryGateway) DeleteOrder(_ context.Context, orderID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.orders, orderID)
	delete(g.lines, orderID)
	delete(g.tracking, orderID)
	return nil
}

func (g *MemoryGateway) ListOrdersByOwner(_ context.Context, ownerID string) ([]*domain.Order, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var orders []*domain.Order
	for _, o := range g.orders {
		if o.OwnerID == ownerID {
			cp := *o
			orders = append(orders, &cp)
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func (g *MemoryGateway) ListOrderLines(_ context.Context, orderID string) ([]domain.OrderLine, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]domain.OrderLine(nil), g.lines[orderID]...), nil
}

func (g *MemoryGateway) ListTracking(_ context.Context, orderID string) ([]domain.TrackingEvent, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	events := append([]domain.TrackingEvent(nil), g.tracking[orderID]...)
	sort.Slice(events, func(i, j int) bool {
		return events[i].CreatedAt.Before(events[j].CreatedAt)
	})
	return events, nil
}

// AppendTracking simulates the external fulfilment side writing a tracking
// event and advancing the header status.
func (g *MemoryGateway) AppendTracking(ctx context.Context, ev domain.TrackingEvent) error {
	g.mu.Lock()
	order, ok := g.orders[ev.OrderID]
	if !ok {
		g.mu.Unlock()
		return ErrOrderNotFound
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now()
	}
	g.tracking[ev.OrderID] = append(g.tracking[ev.OrderID], ev)
	next := domain.OrderStatus(ev.Status)
	if order.Status.CanTransitionTo(next) {
		order.Status = next
	}
	ownerID := order.OwnerID
	g.mu.Unlock()

	g.publish(ctx, realtime.TableOrderTracking, ownerID, realtime.OpInsert)
	return nil
}

func (g *MemoryGateway) publish(ctx context.Context, table, ownerID string, op realtime.Op) {
	if g.feed == nil {
		return
	}
	_ = g.feed.Publish(ctx, realtime.Event{Table: table, OwnerID: ownerID, Op: op})
}
