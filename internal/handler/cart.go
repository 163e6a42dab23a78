package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/vibeshop/storefront/internal/domain/cart"
)

// addToCartRequest is the POST /api/cart body.
type addToCartRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// getCart handles GET /api/cart.
func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	current, err := h.cart.GetCart(r.Context())
	if err != nil {
		serverError(w, r, "Failed to fetch cart", err)
		return
	}

	writeJSON(w, r, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("items", func(e *jx.Encoder) {
				e.Arr(func(e *jx.Encoder) {
					for _, item := range current.Items {
						encodeEnrichedLine(e, item)
					}
				})
			})
			e.Field("total", func(e *jx.Encoder) { e.Str(current.Total.StringFixed(2)) })
		})
	})
}

// addToCart handles POST /api/cart.
func (h *Handler) addToCart(w http.ResponseWriter, r *http.Request) {
	var req addToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Product ID and quantity are required")
		return
	}

	line, created, err := h.cart.AddItem(r.Context(), req.ProductID, req.Quantity)
	if err != nil {
		var pnfErr *cart.ProductNotFoundError
		switch {
		case errors.Is(err, cart.ErrMissingInput):
			writeError(w, r, http.StatusBadRequest, "Product ID and quantity are required")
		case errors.As(err, &pnfErr):
			writeError(w, r, http.StatusNotFound, "Product not found")
		default:
			serverError(w, r, "Failed to add item to cart", err)
		}
		return
	}

	msg := "Item quantity updated in cart"
	if created {
		msg = "Item added to cart"
	}

	writeJSON(w, r, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("message", func(e *jx.Encoder) { e.Str(msg) })
			e.Field("item", func(e *jx.Encoder) { encodeLine(e, *line) })
		})
	})
}

// removeFromCart handles DELETE /api/cart/{id}.
func (h *Handler) removeFromCart(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.cart.RemoveItem(r.Context(), id); err != nil {
		var lnfErr *cart.LineNotFoundError
		if errors.As(err, &lnfErr) {
			writeError(w, r, http.StatusNotFound, "Item not found in cart")
			return
		}
		serverError(w, r, "Failed to remove item from cart", err)
		return
	}

	writeJSON(w, r, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("message", func(e *jx.Encoder) { e.Str("Item removed from cart") })
		})
	})
}
