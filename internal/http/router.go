package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Chinmay1190/stepup-storefront/internal/checkout"
	"github.com/Chinmay1190/stepup-storefront/internal/metrics"
	"github.com/Chinmay1190/stepup-storefront/internal/order"
)

type RouterDeps struct {
	Sessions *SessionStore
	Pipeline checkout.Submitter
	History  *order.History
}

func NewRouter(deps RouterDeps) http.Handler {
	wishlist := NewWishlistHandler()
	cart := NewCartHandler()
	co := NewCheckoutHandler(deps.Pipeline)
	orders := NewOrdersHandler(deps.History)
	auth := NewAuthHandler()

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(SessionMiddleware(deps.Sessions))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", wishlist.Get)
			r.Post("/{product_id}/toggle", wishlist.Toggle)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cart.Get)
			r.Post("/items", cart.AddItem)
			r.Put("/items", cart.UpdateQuantity)
			r.Delete("/items", cart.RemoveItem)
			r.Delete("/", cart.Clear)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", co.Enter)
			r.Delete("/", co.Cancel)
			r.Put("/draft", co.UpdateDraft)
			r.Post("/advance", co.Advance)
			r.Post("/back", co.Back)
			r.Get("/quote", co.Quote)
			r.Post("/submit", co.Submit)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", orders.List)
			r.Get("/{order_id}/invoice", orders.Invoice)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signin", auth.SignIn)
			r.Post("/signup", auth.SignUp)
			r.Post("/signout", auth.SignOut)
			r.Get("/me", auth.Me)
		})
	})

	r.Handle("/metrics", metrics.Handler())

	return r
}
