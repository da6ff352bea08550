// Package order turns a completed checkout draft plus the current cart into
// a durable order record, and serves the order history read path.
package order

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Chinmay1190/stepup-storefront/internal/domain"
	"github.com/Chinmay1190/stepup-storefront/internal/gateway"
	"github.com/Chinmay1190/stepup-storefront/internal/identity"
	"github.com/Chinmay1190/stepup-storefront/internal/metrics"
)

// PersistenceError is any gateway failure while writing the order. The cart
// is preserved and the submission may be retried.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("order persistence failed during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// PartialWriteError means the line batch failed after the header committed.
// A compensating delete of the orphaned header is attempted; Compensated
// records whether it succeeded.
type PartialWriteError struct {
	OrderID     string
	Err         error
	Compensated bool
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("order %s header committed but line batch failed (compensated=%t): %v",
		e.OrderID, e.Compensated, e.Err)
}

func (e *PartialWriteError) Unwrap() error {
	return e.Err
}

// Confirmation is the view-model handed to the success view. For anonymous
// sessions it is the only artifact of the order.
type Confirmation struct {
	OrderID           string                 `json:"order_id"`
	StorageID         string                 `json:"storage_id,omitempty"`
	Lines             []domain.CartLine      `json:"items"`
	Pricing           domain.Pricing         `json:"pricing"`
	PaymentMethod     domain.PaymentMethod   `json:"payment_method"`
	ShippingAddress   domain.ShippingAddress `json:"shipping_address"`
	EstimatedDelivery string                 `json:"estimated_delivery"`
	Persisted         bool                   `json:"persisted"`
	PlacedAt          time.Time              `json:"placed_at"`
}

// Pipeline persists orders for authenticated owners and assembles the
// confirmation either way.
type Pipeline struct {
	store   gateway.OrderStore
	metrics *metrics.StorefrontMetrics
	now     func() time.Time
}

func NewPipeline(store gateway.OrderStore, m *metrics.StorefrontMetrics) *Pipeline {
	return &Pipeline{store: store, metrics: m, now: time.Now}
}

// Submit writes the order header first, then the line batch referencing the
// storage-assigned id. Without an owner, persistence is skipped entirely and
// the submission always succeeds. The caller clears the cart on success; on
// any error the cart must stay intact.
func (p *Pipeline) Submit(
	ctx context.Context,
	draft *domain.CheckoutDraft,
	lines []domain.CartLine,
	owner *identity.Identity) (*Confirmation, error) {

	now := p.now()
	pricing := domain.Quote(lines)
	conf := &Confirmation{
		OrderID:           GenerateID(now),
		Lines:             append([]domain.CartLine(nil), lines...),
		Pricing:           pricing,
		PaymentMethod:     draft.PaymentMethod,
		ShippingAddress:   draft.Address(),
		EstimatedDelivery: EstimatedDelivery(now),
		PlacedAt:          now,
	}

	if owner == nil {
		if p.metrics != nil {
			p.metrics.OrdersPlaced.Inc()
		}
		return conf, nil
	}

	header := &domain.Order{
		OwnerID:         owner.ID,
		Status:          domain.OrderStatusPending,
		Total:           pricing.Total,
		ShippingAddress: conf.ShippingAddress,
		CreatedAt:       now,
	}
	storageID, err := p.store.CreateOrder(ctx, header)
	if err != nil {
		if p.metrics != nil {
			p.metrics.OrdersFailed.Inc()
		}
		return nil, &PersistenceError{Op: "create order header", Err: err}
	}

	orderLines := make([]domain.OrderLine, 0, len(lines))
	for _, line := range lines {
		orderLines = append(orderLines, domain.OrderLine{
			OrderID:   storageID,
			ProductID: line.ProductID,
			Name:      line.Name,
			Image:     line.Image,
			Size:      line.Size,
			Color:     line.Color,
			Quantity:  line.Quantity,
			Price:     line.Price,
		})
	}
	if err := p.store.CreateOrderLines(ctx, storageID, orderLines); err != nil {
		if p.metrics != nil {
			p.metrics.OrdersFailed.Inc()
		}
		compensated := true
		if delErr := p.store.DeleteOrder(ctx, storageID); delErr != nil {
			compensated = false
			log.Printf("order: compensating delete of header %s failed: %v", storageID, delErr)
		}
		return nil, &PartialWriteError{OrderID: storageID, Err: err, Compensated: compensated}
	}

	conf.StorageID = storageID
	conf.Persisted = true
	if p.metrics != nil {
		p.metrics.OrdersPlaced.Inc()
	}
	return conf, nil
}
