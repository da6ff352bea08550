package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Chinmay1190/stepup-storefront/internal/checkout"
	"github.com/Chinmay1190/stepup-storefront/internal/order"
)

type CheckoutHandler struct {
	pipeline checkout.Submitter
}

func NewCheckoutHandler(pipeline checkout.Submitter) *CheckoutHandler {
	return &CheckoutHandler{pipeline: pipeline}
}

type CheckoutStateDTO struct {
	Step  int  `json:"step"`
	Steps int  `json:"steps"`
	Done  bool `json:"done"`
}

func checkoutState(o *checkout.Orchestrator) CheckoutStateDTO {
	return CheckoutStateDTO{
		Step:  int(o.Step()),
		Steps: int(checkout.StepPayment),
		Done:  o.Placed() != nil,
	}
}

// Enter starts a checkout flow with a fresh draft, replacing any abandoned
// one. An empty cart never enters the machine.
func (h *CheckoutHandler) Enter(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if sess == nil {
		respondError(w, http.StatusInternalServerError, "no_session", "session not resolved")
		return
	}

	o, err := checkout.New(sess.Cart, h.pipeline, sess.Identity)
	if errors.Is(err, checkout.ErrEmptyCart) {
		respondError(w, http.StatusConflict, "empty_cart", "Your cart is empty")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	sess.SetCheckout(o)
	respondJSON(w, http.StatusCreated, checkoutState(o))
}

// Cancel discards the draft. No cancellation reaches in-flight writes.
func (h *CheckoutHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if sess == nil {
		respondError(w, http.StatusInternalServerError, "no_session", "session not resolved")
		return
	}
	sess.SetCheckout(nil)
	w.WriteHeader(http.StatusNoContent)
}

// UpdateDraft merges submitted fields into the draft. Absent fields keep
// their current values.
func (h *CheckoutHandler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	o, ok := h.active(w, r)
	if !ok {
		return
	}
	if err := json.NewDecoder(r.Body).Decode(o.Draft()); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	respondJSON(w, http.StatusOK, checkoutState(o))
}

func (h *CheckoutHandler) Advance(w http.ResponseWriter, r *http.Request) {
	o, ok := h.active(w, r)
	if !ok {
		return
	}
	if err := o.Advance(); err != nil {
		respondValidationError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, checkoutState(o))
}

func (h *CheckoutHandler) Back(w http.ResponseWriter, r *http.Request) {
	o, ok := h.active(w, r)
	if !ok {
		return
	}
	o.Retreat()
	respondJSON(w, http.StatusOK, checkoutState(o))
}

func (h *CheckoutHandler) Quote(w http.ResponseWriter, r *http.Request) {
	o, ok := h.active(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, o.Quote())
}

type ConfirmationDTO struct {
	*order.Confirmation
	PaymentMethodLabel string `json:"payment_method_label"`
}

// Submit places the order. Failure keeps the draft and cart for retry;
// success discards the flow.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if sess == nil {
		respondError(w, http.StatusInternalServerError, "no_session", "session not resolved")
		return
	}
	o := sess.Checkout()
	if o == nil {
		respondError(w, http.StatusConflict, "no_checkout", "no active checkout")
		return
	}

	conf, err := o.Submit(r.Context())
	if err != nil {
		var vErr *checkout.ValidationError
		var pErr *order.PersistenceError
		var pwErr *order.PartialWriteError
		switch {
		case errors.As(err, &vErr):
			respondValidationError(w, err)
		case errors.Is(err, checkout.ErrNotAtPayment), errors.Is(err, checkout.ErrAlreadyPlaced):
			respondError(w, http.StatusConflict, "invalid_state", err.Error())
		case errors.As(err, &pwErr), errors.As(err, &pErr):
			respondError(w, http.StatusBadGateway, "order_submission_failed",
				"Failed to place order. Please try again.")
		default:
			respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
		}
		return
	}

	sess.SetCheckout(nil)
	respondJSON(w, http.StatusCreated, ConfirmationDTO{
		Confirmation:       conf,
		PaymentMethodLabel: order.PaymentMethodLabel(conf.PaymentMethod),
	})
}

func (h *CheckoutHandler) active(w http.ResponseWriter, r *http.Request) (*checkout.Orchestrator, bool) {
	sess := sessionFromContext(r.Context())
	if sess == nil {
		respondError(w, http.StatusInternalServerError, "no_session", "session not resolved")
		return nil, false
	}
	o := sess.Checkout()
	if o == nil {
		respondError(w, http.StatusConflict, "no_checkout", "no active checkout")
		return nil, false
	}
	return o, true
}

func respondValidationError(w http.ResponseWriter, err error) {
	var vErr *checkout.ValidationError
	if errors.As(err, &vErr) {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   vErr.Message,
			Code:    "validation_failed",
			Details: vErr.Field,
		})
		return
	}
	respondError(w, http.StatusBadRequest, "validation_failed", err.Error())
}
