package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
)

// statusProgression is the only legal order of states. There are no
// regression transitions.
var statusProgression = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
}

// Index returns the position of the status in the fulfilment progression,
// or -1 for an unknown status.
func (s OrderStatus) Index() int {
	for i, st := range statusProgression {
		if st == s {
			return i
		}
	}
	return -1
}

// CanTransitionTo reports whether next is a forward move in the progression.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	from, to := s.Index(), next.Index()
	return from >= 0 && to > from
}

func (s OrderStatus) String() string {
	return string(s)
}

type ShippingAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

// Order is the order header. Created exactly once by the submission
// pipeline; only status and tracking change afterwards, and only remotely.
type Order struct {
	ID              string          `json:"id"`
	OwnerID         string          `json:"owner_id,omitempty"`
	Status          OrderStatus     `json:"status"`
	Total           float64         `json:"total"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	CreatedAt       time.Time       `json:"created_at"`

	// Populated by the order history read path, not by the header row itself.
	Lines    []OrderLine     `json:"items,omitempty"`
	Tracking []TrackingEvent `json:"tracking,omitempty"`
}

// OrderLine is a denormalized snapshot of a cart line at submission time.
// Price is captured, not re-derived, so historical orders are immune to
// catalog price changes.
type OrderLine struct {
	OrderID   string  `json:"order_id"`
	ProductID string  `json:"product_id"`
	Name      string  `json:"product_name"`
	Image     string  `json:"product_image"`
	Size      int     `json:"size"`
	Color     string  `json:"color"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// TrackingEvent rows are append-only, ordered by CreatedAt.
type TrackingEvent struct {
	OrderID     string    `json:"order_id"`
	Status      string    `json:"status"`
	Description string    `json:"description"`
	Location    string    `json:"location,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
