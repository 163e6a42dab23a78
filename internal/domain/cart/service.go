package cart

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vibeshop/storefront/internal/domain/product"
)

// ErrMissingInput indicates an add-to-cart request without a product
// reference or a positive quantity.
var ErrMissingInput = fmt.Errorf("product ID and quantity are required")

// ProductNotFoundError indicates the referenced product does not exist.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

// LineNotFoundError indicates no cart line exists with the given ID.
type LineNotFoundError struct {
	LineID string
}

func (e *LineNotFoundError) Error() string {
	return fmt.Sprintf("cart line %s not found", e.LineID)
}

// Service encapsulates cart business logic over the product catalog and the
// cart line store.
type Service struct {
	products product.Repository
	lines    Repository
}

// NewService creates a cart Service with the required dependencies.
func NewService(products product.Repository, lines Repository) *Service {
	return &Service{
		products: products,
		lines:    lines,
	}
}

// AddItem puts quantity units of a product into the cart. When the product is
// already present, its existing line is incremented instead of a second line
// being created. It returns the resulting line and whether a new line was
// created (false means an existing line was incremented).
func (s *Service) AddItem(ctx context.Context, productID string, quantity int) (*Line, bool, error) {
	if productID == "" || quantity < 1 {
		return nil, false, ErrMissingInput
	}

	if _, err := s.products.GetByID(ctx, productID); err != nil {
		if errors.Is(err, product.ErrNotFound) {
			return nil, false, &ProductNotFoundError{ProductID: productID}
		}
		return nil, false, fmt.Errorf("get product: %w", err)
	}

	existing, err := s.lines.FindByProduct(ctx, productID)
	switch {
	case err == nil:
		existing.Quantity += quantity
		if err := s.lines.UpdateQuantity(ctx, existing.ID, existing.Quantity); err != nil {
			return nil, false, fmt.Errorf("update cart line: %w", err)
		}
		return existing, false, nil
	case errors.Is(err, ErrLineNotFound):
		line := &Line{
			ID:        uuid.New().String(),
			ProductID: productID,
			Quantity:  quantity,
		}
		if err := s.lines.Insert(ctx, line); err != nil {
			return nil, false, fmt.Errorf("insert cart line: %w", err)
		}
		return line, true, nil
	default:
		return nil, false, fmt.Errorf("find cart line: %w", err)
	}
}

// GetCart loads all cart lines, resolves each to its product, and computes
// per-line subtotals plus the grand total. An empty cart yields an empty item
// slice and a zero total.
func (s *Service) GetCart(ctx context.Context) (*Cart, error) {
	lines, err := s.lines.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list cart lines: %w", err)
	}

	out := &Cart{
		Items: make([]EnrichedLine, 0, len(lines)),
		Total: decimal.Zero,
	}
	if len(lines) == 0 {
		return out, nil
	}

	ids := make([]string, len(lines))
	for i, l := range lines {
		ids[i] = l.ProductID
	}
	fetched, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}

	byID := make(map[string]product.Product, len(fetched))
	for _, p := range fetched {
		byID[p.ID] = p
	}

	for _, l := range lines {
		p, ok := byID[l.ProductID]
		if !ok {
			// Product was deleted out from under the cart (catalog reinit).
			return nil, fmt.Errorf("resolve cart line %s: %w", l.ID, product.ErrNotFound)
		}
		subtotal := p.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
		out.Items = append(out.Items, EnrichedLine{
			ID:       l.ID,
			Product:  p,
			Quantity: l.Quantity,
			Subtotal: subtotal,
		})
		out.Total = out.Total.Add(subtotal)
	}

	return out, nil
}

// RemoveItem deletes a single cart line. Other lines are unaffected.
func (s *Service) RemoveItem(ctx context.Context, lineID string) error {
	deleted, err := s.lines.Delete(ctx, lineID)
	if err != nil {
		return fmt.Errorf("delete cart line: %w", err)
	}
	if !deleted {
		return &LineNotFoundError{LineID: lineID}
	}
	return nil
}
