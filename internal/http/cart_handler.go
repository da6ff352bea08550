package http

import (
	"encoding/json"
	"net/http"

	"github.com/Chinmay1190/stepup-storefront/internal/domain"
)

type CartHandler struct{}

func NewCartHandler() *CartHandler {
	return &CartHandler{}
}

type AddLineRequestDTO struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Size      int     `json:"size"`
	Color     string  `json:"color"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type UpdateQuantityRequestDTO struct {
	ProductID string `json:"product_id"`
	Size      int    `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity"`
}

type RemoveLineRequestDTO struct {
	ProductID string `json:"product_id"`
	Size      int    `json:"size"`
	Color     string `json:"color"`
}

type CartResponseDTO struct {
	Items   []domain.CartLine `json:"items"`
	Pricing domain.Pricing    `json:"pricing"`
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if sess == nil {
		respondError(w, http.StatusInternalServerError, "no_session", "session not resolved")
		return
	}
	lines := sess.Cart.Lines()
	respondJSON(w, http.StatusOK, CartResponseDTO{
		Items:   lines,
		Pricing: domain.Quote(lines),
	})
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if sess == nil {
		respondError(w, http.StatusInternalServerError, "no_session", "session not resolved")
		return
	}

	var req AddLineRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}
	if req.Quantity < 1 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}
	if req.Price < 0 {
		respondError(w, http.StatusBadRequest, "invalid_price", "price must not be negative")
		return
	}

	sess.Cart.AddLine(r.Context(), domain.CartLine{
		ProductID: req.ProductID,
		Name:      req.Name,
		Image:     req.Image,
		Size:      req.Size,
		Color:     req.Color,
		Quantity:  req.Quantity,
		Price:     req.Price,
	})

	lines := sess.Cart.Lines()
	respondJSON(w, http.StatusCreated, CartResponseDTO{
		Items:   lines,
		Pricing: domain.Quote(lines),
	})
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if sess == nil {
		respondError(w, http.StatusInternalServerError, "no_session", "session not resolved")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	// Quantity below 1 removes the line.
	sess.Cart.SetQuantity(r.Context(), domain.LineKey{
		ProductID: req.ProductID,
		Size:      req.Size,
		Color:     req.Color,
	}, req.Quantity)

	lines := sess.Cart.Lines()
	respondJSON(w, http.StatusOK, CartResponseDTO{
		Items:   lines,
		Pricing: domain.Quote(lines),
	})
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if sess == nil {
		respondError(w, http.StatusInternalServerError, "no_session", "session not resolved")
		return
	}

	var req RemoveLineRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	sess.Cart.Remove(r.Context(), domain.LineKey{
		ProductID: req.ProductID,
		Size:      req.Size,
		Color:     req.Color,
	})

	lines := sess.Cart.Lines()
	respondJSON(w, http.StatusOK, CartResponseDTO{
		Items:   lines,
		Pricing: domain.Quote(lines),
	})
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if sess == nil {
		respondError(w, http.StatusInternalServerError, "no_session", "session not resolved")
		return
	}
	sess.Cart.Clear(r.Context())
	respondJSON(w, http.StatusOK, CartResponseDTO{Items: []domain.CartLine{}, Pricing: domain.Quote(nil)})
}
