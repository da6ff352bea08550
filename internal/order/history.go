package order

import (
	"context"
	"fmt"
	"strings"

	"github.com/Chinmay1190/stepup-storefront/internal/domain"
	"github.com/Chinmay1190/stepup-storefront/internal/gateway"
)

// History is the read-through view of persisted orders. The client never
// mutates them; status and tracking are appended externally.
type History struct {
	store gateway.OrderStore
}

func NewHistory(store gateway.OrderStore) *History {
	return &History{store: store}
}

// List returns the owner's orders newest first, each populated with its
// lines and tracking events.
func (h *History) List(ctx context.Context, ownerID string) ([]*domain.Order, error) {
	orders, err := h.store.ListOrdersByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("fetch orders: %w", err)
	}
	for _, o := range orders {
		lines, err := h.store.ListOrderLines(ctx, o.ID)
		if err != nil {
			return nil, fmt.Errorf("fetch lines for order %s: %w", o.ID, err)
		}
		tracking, err := h.store.ListTracking(ctx, o.ID)
		if err != nil {
			return nil, fmt.Errorf("fetch tracking for order %s: %w", o.ID, err)
		}
		o.Lines = lines
		o.Tracking = tracking
	}
	return orders, nil
}

// Invoice is the billing arithmetic shown on the downloadable invoice.
// Shipping is derived from the stored total rather than recomputed, so the
// invoice matches what was charged even if thresholds changed since.
type Invoice struct {
	Number   string  `json:"number"`
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Total    float64 `json:"total"`
}

func BuildInvoice(o *domain.Order) Invoice {
	var subtotal float64
	for _, line := range o.Lines {
		subtotal += line.Price * float64(line.Quantity)
	}
	short := o.ID
	if len(short) > 8 {
		short = short[:8]
	}
	return Invoice{
		Number:   "INV-" + strings.ToUpper(short),
		Subtotal: subtotal,
		Shipping: o.Total - subtotal,
		Total:    o.Total,
	}
}

// PaymentMethodLabel maps a method to its display name.
func PaymentMethodLabel(m domain.PaymentMethod) string {
	switch m {
	case domain.PaymentCard:
		return "Credit/Debit Card"
	case domain.PaymentUPI:
		return "UPI"
	case domain.PaymentNetbanking:
		return "Net Banking"
	case domain.PaymentCOD:
		return "Cash on Delivery"
	default:
		return string(m)
	}
}
