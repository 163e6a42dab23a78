// Command seed-db populates the product catalog. By default it seeds the
// embedded starter catalog only when the store is empty; --force wipes the
// catalog and reseeds. A custom catalog JSON file (optionally gzip
// compressed) can be supplied with --products-file.
package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"

	"github.com/vibeshop/storefront/db"
	"github.com/vibeshop/storefront/internal/domain/product"
	"github.com/vibeshop/storefront/internal/repository"
)

func main() {
	var (
		databaseURL  string
		productsFile string
		force        bool
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&productsFile, "products-file", "", "path to catalog JSON file (.json or .json.gz); empty uses the embedded starter catalog")
	flag.BoolVar(&force, "force", false, "wipe the catalog before seeding")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, productsFile, force); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, productsFile string, force bool) error {
	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	seedJSON := db.SeedProducts
	if productsFile != "" {
		seedJSON, err = readCatalogFile(productsFile)
		if err != nil {
			return errors.Wrap(err, "read products file")
		}
		slog.Info("using catalog file", slog.String("path", productsFile))
	}

	catalog, err := product.NewCatalog(repository.NewProductRepository(pool), seedJSON)
	if err != nil {
		return errors.Wrap(err, "parse catalog")
	}

	if force {
		slog.Info("wiping and reseeding catalog")
		return catalog.Reinit(ctx)
	}

	seeded, err := catalog.SeedIfEmpty(ctx)
	if err != nil {
		return err
	}
	if !seeded {
		slog.Info("catalog already populated, nothing to do")
	}
	return nil
}

// readCatalogFile loads a catalog JSON file, transparently decompressing
// files with a .gz suffix.
func readCatalogFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrap(err, "open gzip stream")
		}
		defer gz.Close()
		r = gz
	}

	return io.ReadAll(r)
}
