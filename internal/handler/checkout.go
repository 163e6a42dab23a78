package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/vibeshop/storefront/internal/domain/order"
)

// checkoutRequest is the POST /api/checkout body.
type checkoutRequest struct {
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
}

// placeCheckout handles POST /api/checkout.
func (h *Handler) placeCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Customer name and email are required")
		return
	}

	receipt, err := h.checkout.Checkout(r.Context(), req.CustomerName, req.CustomerEmail)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrMissingCustomer):
			writeError(w, r, http.StatusBadRequest, "Customer name and email are required")
		case errors.Is(err, order.ErrEmptyCart):
			writeError(w, r, http.StatusBadRequest, "Cart is empty")
		default:
			serverError(w, r, "Failed to process checkout", err)
		}
		return
	}

	writeJSON(w, r, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("message", func(e *jx.Encoder) { e.Str("Order placed successfully") })
			e.Field("receipt", func(e *jx.Encoder) { encodeReceipt(e, receipt) })
		})
	})
}

func encodeReceipt(e *jx.Encoder, rcpt *order.Receipt) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("orderId", func(e *jx.Encoder) { e.Str(rcpt.OrderID) })
		e.Field("customerName", func(e *jx.Encoder) { e.Str(rcpt.CustomerName) })
		e.Field("customerEmail", func(e *jx.Encoder) { e.Str(rcpt.CustomerEmail) })
		e.Field("items", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, item := range rcpt.Items {
					encodeEnrichedLine(e, item)
				}
			})
		})
		e.Field("total", func(e *jx.Encoder) { e.Str(rcpt.Total.StringFixed(2)) })
		e.Field("timestamp", func(e *jx.Encoder) { e.Str(rcpt.Timestamp.Format(time.RFC3339)) })
	})
}
