package gateway

import (
	"context"
	"errors"

	"github.com/Chinmay1190/stepup-storefront/internal/domain"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrDuplicateEntry = errors.New("duplicate entry")
)

// WishlistStore is the remote side of the wishlist selection set, one row
// per (owner, product), unique on the pair.
type WishlistStore interface {
	ListWishlist(ctx context.Context, ownerID string) ([]string, error)
	AddWishlist(ctx context.Context, ownerID, productID string) error
	RemoveWishlist(ctx context.Context, ownerID, productID string) error
}

// OrderStore persists order headers, their denormalized lines and tracking
// events. Ownership of an order transfers to the store once written; the
// client keeps only a read-through view.
type OrderStore interface {
	// CreateOrder writes the header row and returns the storage-assigned id.
	CreateOrder(ctx context.Context, order *domain.Order) (string, error)

	// CreateOrderLines writes the line batch for an existing header.
	CreateOrderLines(ctx context.Context, orderID string, lines []domain.OrderLine) error

	// DeleteOrder removes a header, compensating a failed line batch.
	DeleteOrder(ctx context.Context, orderID string) error

	// ListOrdersByOwner returns headers newest first, without lines.
	ListOrdersByOwner(ctx context.Context, ownerID string) ([]*domain.Order, error)

	ListOrderLines(ctx context.Context, orderID string) ([]domain.OrderLine, error)

	// ListTracking returns tracking events oldest first.
	ListTracking(ctx context.Context, orderID string) ([]domain.TrackingEvent, error)
}
