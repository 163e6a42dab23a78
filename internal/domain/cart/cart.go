package cart

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/vibeshop/storefront/internal/domain/product"
)

// ErrLineNotFound is returned when a cart line lookup matches nothing.
var ErrLineNotFound = errors.New("cart line not found")

// Line is one row in the shared cart: a product reference plus a quantity.
// The cart holds at most one line per product; repeat adds merge into the
// existing line.
type Line struct {
	ID        string
	ProductID string
	Quantity  int
}

// EnrichedLine is a cart line resolved against the catalog, with the line
// subtotal (price x quantity) computed.
type EnrichedLine struct {
	ID       string
	Product  product.Product
	Quantity int
	Subtotal decimal.Decimal
}

// Cart is the fully resolved cart view returned to callers.
type Cart struct {
	Items []EnrichedLine
	Total decimal.Decimal
}

// Repository defines persistence operations for cart lines.
type Repository interface {
	List(ctx context.Context) ([]Line, error)
	// FindByProduct returns the line referencing the given product, or
	// ErrLineNotFound when the product is not in the cart.
	FindByProduct(ctx context.Context, productID string) (*Line, error)
	Insert(ctx context.Context, line *Line) error
	UpdateQuantity(ctx context.Context, id string, quantity int) error
	// Delete removes a line and reports whether a row existed.
	Delete(ctx context.Context, id string) (bool, error)
	DeleteAll(ctx context.Context) error
}
