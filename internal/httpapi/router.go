// Package httpapi is the thin caller-facing surface over the cart and
// checkout services. Identity, rendering and sessions live elsewhere.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nikolayk812/marketplace/internal/port"
)

func NewRouter(cart CartAPI, checkout CheckoutAPI, products port.ProductRepository) http.Handler {
	cartHandler := NewCartHandler(cart)
	checkoutHandler := NewCheckoutHandler(checkout)
	productHandler := NewProductHandler(products)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", cartHandler.GetCart)
		r.Post("/items", cartHandler.AddItem)
		r.Delete("/items/{productID}", cartHandler.RemoveItem)
	})

	r.Post("/checkout", checkoutHandler.Checkout)

	r.Route("/products", func(r chi.Router) {
		r.Get("/", productHandler.List)
		r.Post("/", productHandler.Create)
	})

	return r
}
