package realtime

import "context"

// Table names events can be published under.
const (
	TableWishlistEntries = "wishlist_entries"
	TableOrders          = "orders"
	TableOrderTracking   = "order_tracking"
)

type Op string

const (
	OpInsert Op = "INSERT"
	OpUpdate Op = "UPDATE"
	OpDelete Op = "DELETE"
)

// Event signals that a row owned by OwnerID changed in Table. It carries no
// payload diff; the required reaction is a full re-fetch.
type Event struct {
	Table   string `json:"table"`
	OwnerID string `json:"owner_id"`
	Op      Op     `json:"op"`
}

// Feed delivers change events to owner-filtered subscribers.
type Feed interface {
	// Publish announces a change. Errors are for the publisher to log;
	// delivery is best effort.
	Publish(ctx context.Context, ev Event) error

	// Subscribe returns a channel of events for one table and owner, and a
	// cancel func that must be called to release the subscription. The
	// channel is closed on cancel.
	Subscribe(table, ownerID string) (<-chan Event, func())
}
