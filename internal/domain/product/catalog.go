package product

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// seedProduct mirrors the JSON shape of the embedded starter catalog.
type seedProduct struct {
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Category    string          `json:"category"`
}

// Catalog manages seeding and resetting of the product catalog. Products are
// only ever created by seeding; no exposed operation mutates or deletes them.
type Catalog struct {
	repo Repository
	seed []Product
}

// NewCatalog parses the starter catalog JSON and returns a Catalog that seeds
// through the given repository.
func NewCatalog(repo Repository, seedJSON []byte) (*Catalog, error) {
	var raw []seedProduct
	if err := json.Unmarshal(seedJSON, &raw); err != nil {
		return nil, errors.Wrap(err, "parse seed catalog")
	}

	seed := make([]Product, len(raw))
	for i, s := range raw {
		seed[i] = Product{
			Name:        s.Name,
			Price:       s.Price,
			Description: s.Description,
			Image:       s.Image,
			Category:    s.Category,
		}
	}

	return &Catalog{repo: repo, seed: seed}, nil
}

// SeedIfEmpty inserts the starter catalog when the store holds zero products.
// It reports whether seeding happened. Calling it on a non-empty catalog is a
// no-op, so it is safe to run on every startup.
func (c *Catalog) SeedIfEmpty(ctx context.Context) (bool, error) {
	count, err := c.repo.Count(ctx)
	if err != nil {
		return false, errors.Wrap(err, "count products")
	}
	if count > 0 {
		return false, nil
	}

	if err := c.repo.InsertBatch(ctx, c.seed); err != nil {
		return false, errors.Wrap(err, "insert seed products")
	}
	return true, nil
}

// Reinit deletes every product and reseeds the starter catalog. Intended for
// development resets only: it destroys product IDs that live cart lines and
// orders may still reference.
func (c *Catalog) Reinit(ctx context.Context) error {
	if err := c.repo.DeleteAll(ctx); err != nil {
		return errors.Wrap(err, "delete products")
	}
	if err := c.repo.InsertBatch(ctx, c.seed); err != nil {
		return errors.Wrap(err, "insert seed products")
	}
	return nil
}
