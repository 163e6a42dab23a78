package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vibeshop/storefront/internal/domain/cart"
)

// Sentinel errors for checkout validation.
var (
	ErrMissingCustomer = fmt.Errorf("customer name and email are required")
	ErrEmptyCart       = fmt.Errorf("cart is empty")
)

// Receipt is the checkout response view: order identity plus the cart lines
// as they were resolved at checkout time.
type Receipt struct {
	OrderID       string
	CustomerName  string
	CustomerEmail string
	Items         []cart.EnrichedLine
	Total         decimal.Decimal
	Timestamp     time.Time
}

// Service turns the current cart into an order. Checkout is the only
// operation touching all three stores.
type Service struct {
	cart   *cart.Service
	lines  cart.Repository
	orders Repository
}

// NewService creates a checkout Service with the required dependencies.
func NewService(cartSvc *cart.Service, lines cart.Repository, orders Repository) *Service {
	return &Service{
		cart:   cartSvc,
		lines:  lines,
		orders: orders,
	}
}

// Checkout validates the customer fields, snapshots the current cart into a
// new order, empties the cart, and returns a receipt.
//
// A successful return implies the order is persisted and the cart is empty.
// The steps are not atomic: a concurrent add or remove between the cart read
// and the final clear can be lost. The cart is process-wide, so this demo
// accepts that window.
func (s *Service) Checkout(ctx context.Context, customerName, customerEmail string) (*Receipt, error) {
	if strings.TrimSpace(customerName) == "" || strings.TrimSpace(customerEmail) == "" {
		return nil, ErrMissingCustomer
	}

	current, err := s.cart.GetCart(ctx)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if len(current.Items) == 0 {
		return nil, ErrEmptyCart
	}

	items := make([]Item, len(current.Items))
	for i, line := range current.Items {
		items[i] = Item{
			ProductID: line.Product.ID,
			Quantity:  line.Quantity,
		}
	}

	o := &Order{
		ID:            uuid.New().String(),
		CustomerName:  customerName,
		CustomerEmail: customerEmail,
		Items:         items,
		Total:         current.Total.Round(2),
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	// Empty the cart unconditionally, regardless of what the pre-read saw.
	if err := s.lines.DeleteAll(ctx); err != nil {
		return nil, fmt.Errorf("clear cart: %w", err)
	}

	return &Receipt{
		OrderID:       o.ID,
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		Items:         current.Items,
		Total:         o.Total,
		Timestamp:     o.CreatedAt,
	}, nil
}
