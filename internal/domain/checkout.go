package domain

type PaymentMethod string

const (
	PaymentCard       PaymentMethod = "card"
	PaymentUPI        PaymentMethod = "upi"
	PaymentNetbanking PaymentMethod = "netbanking"
	PaymentCOD        PaymentMethod = "cod"
)

// CheckoutDraft accumulates the multi-step checkout form. It lives only for
// the duration of one checkout flow: created empty on entry, mutated field by
// field, discarded on navigation away or on successful order placement. It is
// never persisted mid-flow.
type CheckoutDraft struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`

	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`

	PaymentMethod PaymentMethod `json:"payment_method"`

	// Method-specific payment fields. Which ones matter depends on
	// PaymentMethod; cod requires none.
	CardNumber string `json:"card_number"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
	CardName   string `json:"card_name"`
	UPIID      string `json:"upi_id"`
	Bank       string `json:"bank"`
}

func NewCheckoutDraft(email string) *CheckoutDraft {
	return &CheckoutDraft{
		Email:         email,
		Country:       "India",
		PaymentMethod: PaymentCard,
	}
}

func (d *CheckoutDraft) Address() ShippingAddress {
	return ShippingAddress{
		Street:  d.Street,
		City:    d.City,
		State:   d.State,
		Zip:     d.Zip,
		Country: d.Country,
	}
}
