package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Order is a finalized purchase: customer details, a snapshot of the cart
// lines at checkout time, and the computed total. Orders are created exactly
// once per checkout and never mutated afterwards.
type Order struct {
	ID            string
	CustomerName  string
	CustomerEmail string
	Items         []Item
	Total         decimal.Decimal
	CreatedAt     time.Time
}

// Item is an ordered line snapshot, decoupled from the live cart line it was
// copied from.
type Item struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Repository defines persistence operations for orders.
type Repository interface {
	Create(ctx context.Context, order *Order) error
}
