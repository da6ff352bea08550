package checkout

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Chinmay1190/stepup-storefront/internal/domain"
)

// ValidationError blocks step advancement; it is shown inline and never
// reaches the order submission pipeline.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[\d\s-]{10,}$`)
	zipPattern   = regexp.MustCompile(`^\d{6}$`)
)

func validateContact(d *domain.CheckoutDraft) error {
	if d.FirstName == "" || d.LastName == "" || d.Email == "" || d.Phone == "" {
		return &ValidationError{Field: "contact", Message: "Please fill in all required fields"}
	}
	if !emailPattern.MatchString(d.Email) {
		return &ValidationError{Field: "email", Message: "Please enter a valid email address"}
	}
	if !phonePattern.MatchString(d.Phone) {
		return &ValidationError{Field: "phone", Message: "Please enter a valid phone number"}
	}
	return nil
}

func validateShipping(d *domain.CheckoutDraft) error {
	if d.Street == "" || d.City == "" || d.State == "" || d.Zip == "" {
		return &ValidationError{Field: "address", Message: "Please fill in all address fields"}
	}
	if !zipPattern.MatchString(d.Zip) {
		return &ValidationError{Field: "zip", Message: "Please enter a valid 6-digit PIN code"}
	}
	return nil
}

func validatePayment(d *domain.CheckoutDraft) error {
	switch d.PaymentMethod {
	case domain.PaymentCard:
		if d.CardNumber == "" || d.Expiry == "" || d.CVV == "" || d.CardName == "" {
			return &ValidationError{Field: "card", Message: "Please fill in all card details"}
		}
		if len(strings.ReplaceAll(d.CardNumber, " ", "")) != 16 {
			return &ValidationError{Field: "card_number", Message: "Please enter a valid 16-digit card number"}
		}
	case domain.PaymentUPI:
		if d.UPIID == "" || !strings.Contains(d.UPIID, "@") {
			return &ValidationError{Field: "upi_id", Message: "Please enter a valid UPI ID"}
		}
	case domain.PaymentNetbanking:
		if d.Bank == "" {
			return &ValidationError{Field: "bank", Message: "Please select a bank"}
		}
	case domain.PaymentCOD:
		// Nothing extra to collect.
	default:
		return &ValidationError{Field: "payment_method", Message: "Please select a payment method"}
	}
	return nil
}
