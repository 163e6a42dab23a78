//go:build integration

package integration

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/vibeshop/storefront/db"
	"github.com/vibeshop/storefront/internal/domain/cart"
	"github.com/vibeshop/storefront/internal/domain/order"
	"github.com/vibeshop/storefront/internal/domain/product"
	"github.com/vibeshop/storefront/internal/handler"
	"github.com/vibeshop/storefront/internal/repository"
	"github.com/vibeshop/storefront/pkg/client"
)

var (
	pool   *pgxpool.Pool
	server *httptest.Server
	api    *client.Client
)

func TestMain(m *testing.M) {
	os.Exit(testMain(m))
}

func testMain(m *testing.M) int {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "shop",
			"POSTGRES_PASSWORD": "shop",
			"POSTGRES_DB":       "shop",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(time.Minute),
	}
	pg, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		log.Fatalf("start postgres: %v", err)
	}
	defer func() {
		if err := pg.Terminate(context.Background()); err != nil {
			log.Printf("terminate postgres: %v", err)
		}
	}()

	host, err := pg.Host(ctx)
	if err != nil {
		log.Fatalf("host: %v", err)
	}
	port, err := pg.MappedPort(ctx, "5432/tcp")
	if err != nil {
		log.Fatalf("mapped port: %v", err)
	}

	databaseURL := fmt.Sprintf("postgres://shop:shop@%s:%s/shop?sslmode=disable", host, port.Port())
	pool, err = repository.NewPool(ctx, databaseURL)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	if err := repository.RunMigrations(ctx, pool); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	// Wire the full stack in-process and serve it over a test listener.
	productRepo := repository.NewProductRepository(pool)
	lineRepo := repository.NewCartRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)

	catalog, err := product.NewCatalog(productRepo, db.SeedProducts)
	if err != nil {
		log.Fatalf("catalog: %v", err)
	}
	if _, err := catalog.SeedIfEmpty(ctx); err != nil {
		log.Fatalf("seed: %v", err)
	}

	cartSvc := cart.NewService(productRepo, lineRepo)
	checkoutSvc := order.NewService(cartSvc, lineRepo, orderRepo)

	mux := http.NewServeMux()
	handler.New(productRepo, catalog, cartSvc, checkoutSvc).Register(mux)

	server = httptest.NewServer(mux)
	defer server.Close()

	api = client.New(server.URL)

	return m.Run()
}

// resetState returns the database to its post-seed shape between tests.
func resetState(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	_, err := pool.Exec(ctx, `DELETE FROM cart_items`)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `DELETE FROM orders`)
	require.NoError(t, err)
}

func TestSeededCatalog(t *testing.T) {
	resetState(t)

	products, err := api.Products(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 8)

	// Insertion order is preserved across the wire.
	assert.Equal(t, "Wireless Headphones", products[0].Name)
	assert.Equal(t, "99.99", products[0].Price.StringFixed(2))
	assert.Equal(t, "Water Bottle", products[7].Name)
	for _, p := range products {
		assert.NotEmpty(t, p.ID)
		assert.NotEmpty(t, p.Category)
	}
}

func TestCartLifecycle(t *testing.T) {
	resetState(t)
	ctx := context.Background()

	products, err := api.Products(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, products)

	// Add, then add again: one line, merged quantity.
	line, err := api.AddToCart(ctx, products[0].ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, line.Quantity)

	line, err = api.AddToCart(ctx, products[0].ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, line.Quantity)

	_, err = api.AddToCart(ctx, products[1].ID, 1)
	require.NoError(t, err)

	current, err := api.Cart(ctx)
	require.NoError(t, err)
	require.Len(t, current.Items, 2)

	want := products[0].Price.Mul(decimal.NewFromInt(3)).Add(products[1].Price)
	assert.Equal(t, want.StringFixed(2), current.Total)

	// Remove one line; the other stays.
	require.NoError(t, api.RemoveFromCart(ctx, current.Items[0].ID))
	current, err = api.Cart(ctx)
	require.NoError(t, err)
	require.Len(t, current.Items, 1)
	assert.Equal(t, products[1].ID, current.Items[0].Product.ID)
}

func TestCartErrors(t *testing.T) {
	resetState(t)
	ctx := context.Background()

	_, err := api.AddToCart(ctx, "no-such-product", 1)
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Product not found", apiErr.Message)

	_, err = api.AddToCart(ctx, "", 1)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)

	err = api.RemoveFromCart(ctx, "no-such-line")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Item not found in cart", apiErr.Message)
}

func TestCheckoutFlow(t *testing.T) {
	resetState(t)
	ctx := context.Background()

	products, err := api.Products(ctx)
	require.NoError(t, err)

	_, err = api.AddToCart(ctx, products[0].ID, 2)
	require.NoError(t, err)

	before, err := api.Cart(ctx)
	require.NoError(t, err)

	receipt, err := api.Checkout(ctx, "Ada Lovelace", "ada@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, receipt.OrderID)
	assert.Equal(t, "Ada Lovelace", receipt.CustomerName)
	assert.Equal(t, before.Total, receipt.Total)
	require.Len(t, receipt.Items, 1)
	assert.WithinDuration(t, time.Now(), receipt.Timestamp, time.Minute)

	// Cart is empty afterwards; a second checkout fails.
	after, err := api.Cart(ctx)
	require.NoError(t, err)
	assert.Empty(t, after.Items)
	assert.Equal(t, "0.00", after.Total)

	_, err = api.Checkout(ctx, "Ada Lovelace", "ada@example.com")
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Cart is empty", apiErr.Message)

	// The order row landed with the right total.
	var total string
	err = pool.QueryRow(ctx,
		`SELECT total::text FROM orders WHERE id = $1`, receipt.OrderID).Scan(&total)
	require.NoError(t, err)
	assert.Equal(t, receipt.Total, total)
}

func TestCheckoutValidation(t *testing.T) {
	resetState(t)
	ctx := context.Background()

	products, err := api.Products(ctx)
	require.NoError(t, err)
	_, err = api.AddToCart(ctx, products[0].ID, 1)
	require.NoError(t, err)

	var apiErr *client.APIError
	_, err = api.Checkout(ctx, "", "ada@example.com")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Customer name and email are required", apiErr.Message)

	// Failed validation leaves the cart intact.
	current, err := api.Cart(ctx)
	require.NoError(t, err)
	assert.Len(t, current.Items, 1)
}

func TestReinit(t *testing.T) {
	resetState(t)
	ctx := context.Background()

	before, err := api.Products(ctx)
	require.NoError(t, err)

	require.NoError(t, api.Reinit(ctx))

	after, err := api.Products(ctx)
	require.NoError(t, err)
	require.Len(t, after, 8)

	// Reseeding mints fresh IDs.
	assert.NotEqual(t, before[0].ID, after[0].ID)
	assert.Equal(t, before[0].Name, after[0].Name)
}

func TestInitialLoad(t *testing.T) {
	resetState(t)

	products, current, err := api.InitialLoad(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 8)
	assert.Empty(t, current.Items)
}
