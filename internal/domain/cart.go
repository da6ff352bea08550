package domain

// LineKey identifies a cart line. Two additions of the same product in the
// same size and color merge into one line instead of creating a duplicate.
type LineKey struct {
	ProductID string `json:"product_id"`
	Size      int    `json:"size"`
	Color     string `json:"color"`
}

type CartLine struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Size      int     `json:"size"`
	Color     string  `json:"color"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

func (l CartLine) Key() LineKey {
	return LineKey{ProductID: l.ProductID, Size: l.Size, Color: l.Color}
}

func (l CartLine) Total() float64 {
	return l.Price * float64(l.Quantity)
}

// Subtotal sums line totals. Recomputed on every call, never cached.
func Subtotal(lines []CartLine) float64 {
	var sum float64
	for _, l := range lines {
		sum += l.Total()
	}
	return sum
}
