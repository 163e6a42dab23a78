// Package handler exposes the storefront REST surface over net/http.
//
// Routing uses http.ServeMux method patterns; responses are streamed with
// go-faster/jx. Domain errors are mapped to HTTP statuses here, and store
// failures surface as a generic 500 with the detail logged, never exposed.
package handler

import (
	"net/http"

	"github.com/vibeshop/storefront/internal/domain/cart"
	"github.com/vibeshop/storefront/internal/domain/order"
	"github.com/vibeshop/storefront/internal/domain/product"
)

// Handler holds the domain dependencies behind the REST surface.
type Handler struct {
	products product.Repository
	catalog  *product.Catalog
	cart     *cart.Service
	checkout *order.Service
}

// New constructs a Handler with the required domain dependencies.
func New(
	products product.Repository,
	catalog *product.Catalog,
	cartSvc *cart.Service,
	checkoutSvc *order.Service,
) *Handler {
	return &Handler{
		products: products,
		catalog:  catalog,
		cart:     cartSvc,
		checkout: checkoutSvc,
	}
}

// Register mounts every API route on the given mux under /api.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/products", h.listProducts)
	mux.HandleFunc("POST /api/reinit", h.reinitCatalog)
	mux.HandleFunc("GET /api/cart", h.getCart)
	mux.HandleFunc("POST /api/cart", h.addToCart)
	mux.HandleFunc("DELETE /api/cart/{id}", h.removeFromCart)
	mux.HandleFunc("POST /api/checkout", h.placeCheckout)
}
