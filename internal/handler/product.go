package handler

import (
	"net/http"

	"github.com/go-faster/jx"
)

// listProducts handles GET /api/products.
func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		serverError(w, r, "Failed to fetch products", err)
		return
	}

	writeJSON(w, r, http.StatusOK, func(e *jx.Encoder) {
		e.Arr(func(e *jx.Encoder) {
			for _, p := range products {
				encodeProduct(e, p)
			}
		})
	})
}

// reinitCatalog handles POST /api/reinit: wipe and reseed the catalog.
// Development only; live cart lines and orders keep their now-dangling
// product references.
func (h *Handler) reinitCatalog(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Reinit(r.Context()); err != nil {
		serverError(w, r, "Failed to reinitialize products", err)
		return
	}

	writeJSON(w, r, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("message", func(e *jx.Encoder) { e.Str("Products reinitialized successfully") })
		})
	})
}
