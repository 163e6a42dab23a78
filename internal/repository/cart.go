package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vibeshop/storefront/internal/domain/cart"
)

const (
	listCartLinesSQL = `SELECT id, product_id, quantity FROM cart_items ORDER BY ord`

	findCartLineByProductSQL = `SELECT id, product_id, quantity FROM cart_items WHERE product_id = $1`

	insertCartLineSQL = `INSERT INTO cart_items (id, product_id, quantity) VALUES ($1, $2, $3)`

	updateCartLineQuantitySQL = `UPDATE cart_items SET quantity = $2 WHERE id = $1`

	deleteCartLineSQL = `DELETE FROM cart_items WHERE id = $1`

	deleteCartLinesSQL = `DELETE FROM cart_items`
)

var _ cart.Repository = (*CartRepository)(nil)

// CartRepository implements cart.Repository backed by PostgreSQL.
type CartRepository struct {
	pool *pgxpool.Pool
}

// NewCartRepository returns a CartRepository that uses the given pool.
func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

// List returns every line currently in the cart.
func (r *CartRepository) List(ctx context.Context) ([]cart.Line, error) {
	rows, err := r.pool.Query(ctx, listCartLinesSQL)
	if err != nil {
		return nil, fmt.Errorf("listing cart lines: %w", err)
	}
	return pgx.CollectRows(rows, scanCartLine)
}

// FindByProduct returns the line referencing the given product. The
// product_id column is unique, so at most one line can match.
func (r *CartRepository) FindByProduct(ctx context.Context, productID string) (*cart.Line, error) {
	rows, err := r.pool.Query(ctx, findCartLineByProductSQL, productID)
	if err != nil {
		return nil, fmt.Errorf("finding cart line for product %q: %w", productID, err)
	}

	line, err := pgx.CollectExactlyOneRow(rows, scanCartLine)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, cart.ErrLineNotFound
		}
		return nil, fmt.Errorf("finding cart line for product %q: %w", productID, err)
	}
	return &line, nil
}

// Insert stores a new cart line.
func (r *CartRepository) Insert(ctx context.Context, line *cart.Line) error {
	_, err := r.pool.Exec(ctx, insertCartLineSQL, line.ID, line.ProductID, line.Quantity)
	if err != nil {
		return fmt.Errorf("inserting cart line %q: %w", line.ID, err)
	}
	return nil
}

// UpdateQuantity sets the quantity of an existing line.
func (r *CartRepository) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	_, err := r.pool.Exec(ctx, updateCartLineQuantitySQL, id, quantity)
	if err != nil {
		return fmt.Errorf("updating cart line %q: %w", id, err)
	}
	return nil
}

// Delete removes a line and reports whether a row existed.
func (r *CartRepository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, deleteCartLineSQL, id)
	if err != nil {
		return false, fmt.Errorf("deleting cart line %q: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteAll empties the cart.
func (r *CartRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, deleteCartLinesSQL); err != nil {
		return fmt.Errorf("deleting cart lines: %w", err)
	}
	return nil
}

func scanCartLine(row pgx.CollectableRow) (cart.Line, error) {
	var l cart.Line
	err := row.Scan(&l.ID, &l.ProductID, &l.Quantity)
	return l, err
}
