// Package checkout runs the linear three-step checkout machine:
// Contact(1) -> Shipping(2) -> Payment(3), with per-step validation gates on
// the way forward and free backward navigation.
package checkout

import (
	"context"
	"errors"

	"github.com/Chinmay1190/stepup-storefront/internal/domain"
	"github.com/Chinmay1190/stepup-storefront/internal/identity"
	"github.com/Chinmay1190/stepup-storefront/internal/order"
)

type Step int

const (
	StepContact Step = iota + 1
	StepShipping
	StepPayment
)

var (
	ErrEmptyCart     = errors.New("cart is empty, nothing to checkout")
	ErrNotAtPayment  = errors.New("submit is only callable at the payment step")
	ErrAlreadyPlaced = errors.New("order already placed for this checkout")
)

// Cart is the orchestrator's view of the session cart.
type Cart interface {
	Lines() []domain.CartLine
	Subtotal() float64
	Clear(ctx context.Context)
}

// Submitter turns a completed draft plus cart lines into a persisted order.
type Submitter interface {
	Submit(ctx context.Context, draft *domain.CheckoutDraft, lines []domain.CartLine, owner *identity.Identity) (*order.Confirmation, error)
}

// Orchestrator owns one checkout flow. It is single-owner state: one
// instance per session, discarded on navigation away or success.
type Orchestrator struct {
	cart     Cart
	pipeline Submitter
	ident    identity.Provider

	step  Step
	draft *domain.CheckoutDraft
	done  *order.Confirmation
}

// New enters checkout. An empty cart short-circuits before the machine
// starts.
func New(cart Cart, pipeline Submitter, ident identity.Provider) (*Orchestrator, error) {
	if len(cart.Lines()) == 0 {
		return nil, ErrEmptyCart
	}
	email := ""
	if ident != nil {
		if current := ident.Current(); current != nil {
			email = current.Email
		}
	}
	return &Orchestrator{
		cart:     cart,
		pipeline: pipeline,
		ident:    ident,
		step:     StepContact,
		draft:    domain.NewCheckoutDraft(email),
	}, nil
}

func (o *Orchestrator) Step() Step {
	return o.step
}

// Draft exposes the accumulating form for field-by-field mutation. The
// draft is never persisted mid-flow.
func (o *Orchestrator) Draft() *domain.CheckoutDraft {
	return o.draft
}

// Placed returns the confirmation once the flow reached its success state.
func (o *Orchestrator) Placed() *order.Confirmation {
	return o.done
}

// Advance validates the active step and moves forward on success. On
// failure the step is unchanged and the validation error is surfaced.
func (o *Orchestrator) Advance() error {
	var err error
	switch o.step {
	case StepContact:
		err = validateContact(o.draft)
	case StepShipping:
		err = validateShipping(o.draft)
	default:
		return nil // already at payment, advancing is a no-op
	}
	if err != nil {
		return err
	}
	o.step++
	return nil
}

// Retreat moves back one step unconditionally, bounded at the first step.
// No re-validation happens on the way back.
func (o *Orchestrator) Retreat() {
	if o.step > StepContact {
		o.step--
	}
}

// Quote recomputes pricing from the live cart on every call.
func (o *Orchestrator) Quote() domain.Pricing {
	return domain.Quote(o.cart.Lines())
}

// Submit runs the payment validator and hands the draft plus current cart
// to the submission pipeline. Success clears the cart and parks the machine
// in its terminal state; failure keeps the draft and cart intact so the
// user can retry.
func (o *Orchestrator) Submit(ctx context.Context) (*order.Confirmation, error) {
	if o.done != nil {
		return nil, ErrAlreadyPlaced
	}
	if o.step != StepPayment {
		return nil, ErrNotAtPayment
	}
	if err := validatePayment(o.draft); err != nil {
		return nil, err
	}

	var owner *identity.Identity
	if o.ident != nil {
		owner = o.ident.Current()
	}
	conf, err := o.pipeline.Submit(ctx, o.draft, o.cart.Lines(), owner)
	if err != nil {
		return nil, err
	}

	o.cart.Clear(ctx)
	o.done = conf
	return conf, nil
}
