package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Chinmay1190/stepup-storefront/internal/domain"
	"github.com/Chinmay1190/stepup-storefront/internal/order"
)

// OrdersHandler serves the history read path for the caller's session
// identity only.
type OrdersHandler struct {
	history *order.History
}

func NewOrdersHandler(history *order.History) *OrdersHandler {
	return &OrdersHandler{history: history}
}

func (h *OrdersHandler) List(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if sess == nil {
		respondError(w, http.StatusInternalServerError, "no_session", "session not resolved")
		return
	}
	current := sess.CurrentIdentity()
	if current == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "sign in to see your order history")
		return
	}

	orders, err := h.history.List(r.Context(), current.ID)
	if err != nil {
		respondError(w, http.StatusBadGateway, "orders_unavailable", "could not load orders")
		return
	}
	if orders == nil {
		orders = []*domain.Order{} // a JSON array, never null
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"orders": orders,
		"count":  len(orders),
	})
}

func (h *OrdersHandler) Invoice(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if sess == nil {
		respondError(w, http.StatusInternalServerError, "no_session", "session not resolved")
		return
	}
	current := sess.CurrentIdentity()
	if current == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "sign in to download invoices")
		return
	}
	orderID := chi.URLParam(r, "order_id")

	orders, err := h.history.List(r.Context(), current.ID)
	if err != nil {
		respondError(w, http.StatusBadGateway, "orders_unavailable", "could not load orders")
		return
	}
	for _, o := range orders {
		if o.ID == orderID {
			respondJSON(w, http.StatusOK, order.BuildInvoice(o))
			return
		}
	}
	respondError(w, http.StatusNotFound, "not_found", "order not found")
}
