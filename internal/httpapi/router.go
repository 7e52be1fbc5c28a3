// Package httpapi is the HTTP edge of the storefront: routing, request
// validation and the JSON wire shapes. Domain rules live below it.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

type RouterDeps struct {
	Products *ProductHandler
	Cart     *CartHandler
	Checkout *CheckoutHandler
	Orders   *OrdersHandler
	Contact  *ContactHandler

	Log            logrus.FieldLogger
	RequestTimeout time.Duration
}

func NewRouter(deps RouterDeps) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(RequestLogger(deps.Log))
	r.Use(middleware.Timeout(deps.RequestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", deps.Products.ListProducts)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", deps.Cart.GetCart)
			r.Delete("/", deps.Cart.ClearCart)
			r.Post("/items", deps.Cart.AddItem)
			r.Put("/items/{product_id}", deps.Cart.UpdateQuantity)
			r.Delete("/items/{product_id}", deps.Cart.RemoveItem)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", deps.Checkout.SubmitCheckout)
			r.Get("/methods/{method}/fields", deps.Checkout.RequiredFields)
		})

		r.Get("/orders", deps.Orders.ListOrders)
		r.Post("/contact", deps.Contact.SubmitContact)
	})

	return r
}
