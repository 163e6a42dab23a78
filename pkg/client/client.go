// Package client provides a typed Go client for the storefront REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Product is a catalog item as returned by the API.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Category    string          `json:"category"`
}

// CartLine is a bare cart line: product reference plus quantity.
type CartLine struct {
	ID        string `json:"id"`
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// CartItem is a cart line resolved against the catalog.
type CartItem struct {
	ID        string          `json:"id"`
	Product   Product         `json:"product"`
	Quantity  int             `json:"quantity"`
	ItemTotal decimal.Decimal `json:"itemTotal"`
}

// Cart is the resolved cart view; Total is formatted to two decimal places.
type Cart struct {
	Items []CartItem `json:"items"`
	Total string     `json:"total"`
}

// Receipt is the checkout response view.
type Receipt struct {
	OrderID       string     `json:"orderId"`
	CustomerName  string     `json:"customerName"`
	CustomerEmail string     `json:"customerEmail"`
	Items         []CartItem `json:"items"`
	Total         string     `json:"total"`
	Timestamp     time.Time  `json:"timestamp"`
}

// APIError is a non-2xx response carrying the server's error message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
}

// Client talks to a storefront server.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a Client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Products fetches the full catalog.
func (c *Client) Products(ctx context.Context) ([]Product, error) {
	var out []Product
	if err := c.do(ctx, http.MethodGet, "/api/products", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Cart fetches the enriched cart with its total.
func (c *Client) Cart(ctx context.Context) (*Cart, error) {
	var out Cart
	if err := c.do(ctx, http.MethodGet, "/api/cart", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// InitialLoad fetches the catalog and cart concurrently, the way the UI does
// on first render.
func (c *Client) InitialLoad(ctx context.Context) ([]Product, *Cart, error) {
	var (
		products []Product
		current  *Cart
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		products, err = c.Products(gctx)
		return err
	})
	g.Go(func() (err error) {
		current, err = c.Cart(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return products, current, nil
}

// AddToCart adds quantity units of a product, merging into an existing line
// when the product is already in the cart. The resulting line is returned.
func (c *Client) AddToCart(ctx context.Context, productID string, quantity int) (*CartLine, error) {
	req := map[string]any{"productId": productID, "quantity": quantity}
	var out struct {
		Item CartLine `json:"item"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/cart", req, &out); err != nil {
		return nil, err
	}
	return &out.Item, nil
}

// RemoveFromCart deletes a single cart line.
func (c *Client) RemoveFromCart(ctx context.Context, lineID string) error {
	return c.do(ctx, http.MethodDelete, "/api/cart/"+url.PathEscape(lineID), nil, nil)
}

// Checkout finalizes the current cart into an order and returns the receipt.
func (c *Client) Checkout(ctx context.Context, customerName, customerEmail string) (*Receipt, error) {
	req := map[string]any{"customerName": customerName, "customerEmail": customerEmail}
	var out struct {
		Receipt Receipt `json:"receipt"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/checkout", req, &out); err != nil {
		return nil, err
	}
	return &out.Receipt, nil
}

// Reinit wipes and reseeds the catalog. Development only.
func (c *Client) Reinit(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/reinit", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, reqBody, respBody any) error {
	var body io.Reader
	if reqBody != nil {
		buf, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		if errResp.Error == "" {
			errResp.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
	}

	if respBody == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(respBody); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
