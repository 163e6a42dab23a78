package cart

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibeshop/storefront/internal/domain/product"
)

// --- Mock implementations ---

type mockProductRepo struct {
	byID   map[string]*product.Product
	getErr error
}

func (m *mockProductRepo) List(_ context.Context) ([]product.Product, error) { return nil, nil }

func (m *mockProductRepo) GetByID(_ context.Context, id string) (*product.Product, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	p, ok := m.byID[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	return p, nil
}

func (m *mockProductRepo) GetByIDs(_ context.Context, ids []string) ([]product.Product, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	out := make([]product.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := m.byID[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockProductRepo) Count(_ context.Context) (int64, error)                  { return 0, nil }
func (m *mockProductRepo) InsertBatch(_ context.Context, _ []product.Product) error { return nil }
func (m *mockProductRepo) DeleteAll(_ context.Context) error                        { return nil }

// mockLineRepo is an in-memory cart.Repository preserving insertion order.
type mockLineRepo struct {
	lines     []Line
	insertErr error
	updateErr error
	deleteErr error
}

func (m *mockLineRepo) List(_ context.Context) ([]Line, error) {
	out := make([]Line, len(m.lines))
	copy(out, m.lines)
	return out, nil
}

func (m *mockLineRepo) FindByProduct(_ context.Context, productID string) (*Line, error) {
	for _, l := range m.lines {
		if l.ProductID == productID {
			found := l
			return &found, nil
		}
	}
	return nil, ErrLineNotFound
}

func (m *mockLineRepo) Insert(_ context.Context, line *Line) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.lines = append(m.lines, *line)
	return nil
}

func (m *mockLineRepo) UpdateQuantity(_ context.Context, id string, quantity int) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	for i := range m.lines {
		if m.lines[i].ID == id {
			m.lines[i].Quantity = quantity
			return nil
		}
	}
	return ErrLineNotFound
}

func (m *mockLineRepo) Delete(_ context.Context, id string) (bool, error) {
	if m.deleteErr != nil {
		return false, m.deleteErr
	}
	for i := range m.lines {
		if m.lines[i].ID == id {
			m.lines = append(m.lines[:i], m.lines[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *mockLineRepo) DeleteAll(_ context.Context) error {
	m.lines = nil
	return nil
}

// --- Helpers ---

func newTestProduct(id, name, price string) product.Product {
	return product.Product{
		ID:       id,
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Category: "test",
	}
}

func newProductRepo(products ...product.Product) *mockProductRepo {
	byID := make(map[string]*product.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	return &mockProductRepo{byID: byID}
}

// --- Tests ---

func TestAddItem_MissingInput(t *testing.T) {
	svc := NewService(newProductRepo(), &mockLineRepo{})

	_, _, err := svc.AddItem(context.Background(), "", 1)
	require.ErrorIs(t, err, ErrMissingInput)

	_, _, err = svc.AddItem(context.Background(), "p1", 0)
	require.ErrorIs(t, err, ErrMissingInput)
}

func TestAddItem_ProductNotFound(t *testing.T) {
	svc := NewService(newProductRepo(), &mockLineRepo{})

	_, _, err := svc.AddItem(context.Background(), "missing", 1)

	var pnfErr *ProductNotFoundError
	require.ErrorAs(t, err, &pnfErr)
	assert.Equal(t, "missing", pnfErr.ProductID)
}

func TestAddItem_NewLine(t *testing.T) {
	p1 := newTestProduct("p1", "Widget", "10.00")
	lines := &mockLineRepo{}
	svc := NewService(newProductRepo(p1), lines)

	line, created, err := svc.AddItem(context.Background(), "p1", 2)

	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, line.ID)
	assert.Equal(t, "p1", line.ProductID)
	assert.Equal(t, 2, line.Quantity)
	assert.Len(t, lines.lines, 1)
}

func TestAddItem_RepeatAddMergesLines(t *testing.T) {
	p1 := newTestProduct("p1", "Widget", "10.00")
	lines := &mockLineRepo{}
	svc := NewService(newProductRepo(p1), lines)

	_, created, err := svc.AddItem(context.Background(), "p1", 1)
	require.NoError(t, err)
	assert.True(t, created)

	line, created, err := svc.AddItem(context.Background(), "p1", 2)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 3, line.Quantity)

	// Never a second line for the same product.
	require.Len(t, lines.lines, 1)
	assert.Equal(t, 3, lines.lines[0].Quantity)
}

func TestAddItem_InsertError(t *testing.T) {
	p1 := newTestProduct("p1", "Widget", "10.00")
	lines := &mockLineRepo{insertErr: errors.New("db write failed")}
	svc := NewService(newProductRepo(p1), lines)

	_, _, err := svc.AddItem(context.Background(), "p1", 1)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert cart line")
}

func TestGetCart_Empty(t *testing.T) {
	svc := NewService(newProductRepo(), &mockLineRepo{})

	current, err := svc.GetCart(context.Background())

	require.NoError(t, err)
	assert.Empty(t, current.Items)
	assert.Equal(t, "0.00", current.Total.StringFixed(2))
}

func TestGetCart_TotalsAndSubtotals(t *testing.T) {
	pa := newTestProduct("pa", "Widget", "10.00")
	pb := newTestProduct("pb", "Gadget", "5.50")
	lines := &mockLineRepo{lines: []Line{
		{ID: "l1", ProductID: "pa", Quantity: 2},
		{ID: "l2", ProductID: "pb", Quantity: 1},
	}}
	svc := NewService(newProductRepo(pa, pb), lines)

	current, err := svc.GetCart(context.Background())

	require.NoError(t, err)
	require.Len(t, current.Items, 2)
	assert.Equal(t, "20.00", current.Items[0].Subtotal.StringFixed(2))
	assert.Equal(t, "5.50", current.Items[1].Subtotal.StringFixed(2))
	assert.Equal(t, "25.50", current.Total.StringFixed(2))
	assert.Equal(t, "Widget", current.Items[0].Product.Name)
}

func TestGetCart_DanglingProductReference(t *testing.T) {
	lines := &mockLineRepo{lines: []Line{{ID: "l1", ProductID: "gone", Quantity: 1}}}
	svc := NewService(newProductRepo(), lines)

	_, err := svc.GetCart(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, product.ErrNotFound)
}

func TestRemoveItem_NotFound(t *testing.T) {
	lines := &mockLineRepo{lines: []Line{{ID: "l1", ProductID: "pa", Quantity: 1}}}
	svc := NewService(newProductRepo(), lines)

	err := svc.RemoveItem(context.Background(), "nope")

	var lnfErr *LineNotFoundError
	require.ErrorAs(t, err, &lnfErr)
	assert.Equal(t, "nope", lnfErr.LineID)
	// Existing lines untouched.
	assert.Len(t, lines.lines, 1)
}

func TestRemoveItem_RemovesOnlyThatLine(t *testing.T) {
	lines := &mockLineRepo{lines: []Line{
		{ID: "l1", ProductID: "pa", Quantity: 1},
		{ID: "l2", ProductID: "pb", Quantity: 2},
	}}
	svc := NewService(newProductRepo(), lines)

	require.NoError(t, svc.RemoveItem(context.Background(), "l1"))

	require.Len(t, lines.lines, 1)
	assert.Equal(t, "l2", lines.lines[0].ID)
}
