package domain

import "math"

// Amounts are INR.
const (
	FreeShippingThreshold = 5000.0
	ShippingCost          = 499.0
	gstRate               = 0.18
)

// ShippingFor returns the shipping charge for a subtotal. A subtotal of
// exactly the threshold still pays shipping; only strictly above is free.
func ShippingFor(subtotal float64) float64 {
	if subtotal > FreeShippingThreshold {
		return 0
	}
	return ShippingCost
}

// Pricing is a pure function of the cart. The authoritative total is
// subtotal + shipping; GST is presentation arithmetic shown on the success
// and invoice views, split evenly into CGST and SGST for the dual-rate
// display. It is not added to Total.
type Pricing struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	GST      float64 `json:"gst"`
	CGST     float64 `json:"cgst"`
	SGST     float64 `json:"sgst"`
	Total    float64 `json:"total"`
}

func Quote(lines []CartLine) Pricing {
	subtotal := Subtotal(lines)
	shipping := ShippingFor(subtotal)
	gst := math.Round(subtotal * gstRate)
	return Pricing{
		Subtotal: subtotal,
		Shipping: shipping,
		GST:      gst,
		CGST:     gst / 2,
		SGST:     gst / 2,
		Total:    subtotal + shipping,
	}
}
