package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type WishlistHandler struct{}

func NewWishlistHandler() *WishlistHandler {
	return &WishlistHandler{}
}

func (h *WishlistHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if sess == nil {
		respondError(w, http.StatusInternalServerError, "no_session", "session not resolved")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"items": sess.Wishlist.ProductIDs(),
	})
}

func (h *WishlistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if sess == nil {
		respondError(w, http.StatusInternalServerError, "no_session", "session not resolved")
		return
	}
	productID := chi.URLParam(r, "product_id")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	sess.Wishlist.Toggle(r.Context(), productID)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"product_id": productID,
		"wishlisted": sess.Wishlist.IsWishlisted(productID),
	})
}
