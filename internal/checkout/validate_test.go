package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chinmay1190/stepup-storefront/internal/domain"
)

func validContactDraft() *domain.CheckoutDraft {
	d := domain.NewCheckoutDraft("a@b.com")
	d.FirstName = "Asha"
	d.LastName = "Rao"
	d.Phone = "+91 98765 43210"
	return d
}

func validShippingDraft() *domain.CheckoutDraft {
	d := validContactDraft()
	d.Street = "12 MG Road"
	d.City = "Mumbai"
	d.State = "MH"
	d.Zip = "400001"
	return d
}

func TestValidateContact(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*domain.CheckoutDraft)
		wantField string
	}{
		{name: "valid", mutate: func(d *domain.CheckoutDraft) {}},
		{name: "missing first name", mutate: func(d *domain.CheckoutDraft) { d.FirstName = "" }, wantField: "contact"},
		{name: "missing phone", mutate: func(d *domain.CheckoutDraft) { d.Phone = "" }, wantField: "contact"},
		{name: "email without domain dot", mutate: func(d *domain.CheckoutDraft) { d.Email = "bad@" }, wantField: "email"},
		{name: "email with space", mutate: func(d *domain.CheckoutDraft) { d.Email = "a b@c.com" }, wantField: "email"},
		{name: "phone too short", mutate: func(d *domain.CheckoutDraft) { d.Phone = "123" }, wantField: "phone"},
		{name: "phone with letters", mutate: func(d *domain.CheckoutDraft) { d.Phone = "98765abcde" }, wantField: "phone"},
		{name: "phone with spaces and dashes", mutate: func(d *domain.CheckoutDraft) { d.Phone = "98765-432 10" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validContactDraft()
			tt.mutate(d)
			err := validateContact(d)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func TestValidateShipping(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*domain.CheckoutDraft)
		wantField string
	}{
		{name: "valid", mutate: func(d *domain.CheckoutDraft) {}},
		{name: "missing street", mutate: func(d *domain.CheckoutDraft) { d.Street = "" }, wantField: "address"},
		{name: "zip too short", mutate: func(d *domain.CheckoutDraft) { d.Zip = "4000" }, wantField: "zip"},
		{name: "zip too long", mutate: func(d *domain.CheckoutDraft) { d.Zip = "4000011" }, wantField: "zip"},
		{name: "zip with letters", mutate: func(d *domain.CheckoutDraft) { d.Zip = "40000A" }, wantField: "zip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validShippingDraft()
			tt.mutate(d)
			err := validateShipping(d)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func TestValidatePayment(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*domain.CheckoutDraft)
		wantField string
	}{
		{
			name: "card valid with spaces",
			mutate: func(d *domain.CheckoutDraft) {
				d.PaymentMethod = domain.PaymentCard
				d.CardNumber = "4111 1111 1111 1111"
				d.Expiry = "12/27"
				d.CVV = "123"
				d.CardName = "Asha Rao"
			},
		},
		{
			name: "card fifteen digits",
			mutate: func(d *domain.CheckoutDraft) {
				d.PaymentMethod = domain.PaymentCard
				d.CardNumber = "4111 1111 1111 111"
				d.Expiry = "12/27"
				d.CVV = "123"
				d.CardName = "Asha Rao"
			},
			wantField: "card_number",
		},
		{
			name: "card missing cvv",
			mutate: func(d *domain.CheckoutDraft) {
				d.PaymentMethod = domain.PaymentCard
				d.CardNumber = "4111111111111111"
				d.Expiry = "12/27"
				d.CardName = "Asha Rao"
			},
			wantField: "card",
		},
		{
			name: "upi valid",
			mutate: func(d *domain.CheckoutDraft) {
				d.PaymentMethod = domain.PaymentUPI
				d.UPIID = "asha@okbank"
			},
		},
		{
			name: "upi missing at sign",
			mutate: func(d *domain.CheckoutDraft) {
				d.PaymentMethod = domain.PaymentUPI
				d.UPIID = "asha.okbank"
			},
			wantField: "upi_id",
		},
		{
			name: "netbanking valid",
			mutate: func(d *domain.CheckoutDraft) {
				d.PaymentMethod = domain.PaymentNetbanking
				d.Bank = "hdfc"
			},
		},
		{
			name: "netbanking missing bank",
			mutate: func(d *domain.CheckoutDraft) {
				d.PaymentMethod = domain.PaymentNetbanking
			},
			wantField: "bank",
		},
		{
			name: "cod needs nothing",
			mutate: func(d *domain.CheckoutDraft) {
				d.PaymentMethod = domain.PaymentCOD
			},
		},
		{
			name: "unknown method",
			mutate: func(d *domain.CheckoutDraft) {
				d.PaymentMethod = "crypto"
			},
			wantField: "payment_method",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validShippingDraft()
			tt.mutate(d)
			err := validatePayment(d)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}
