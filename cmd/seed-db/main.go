// Command seed-db loads the fixed tracksuit catalog and the admin API key
// into the database. It is idempotent: rerunning upserts the same rows.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"

	"github.com/solkim/tracksuit-store/internal/domain/auth"
	"github.com/solkim/tracksuit-store/internal/domain/catalog"
	"github.com/solkim/tracksuit-store/internal/storage/postgres"
)

func main() {
	var (
		databaseURL string
		adminKey    string
		pepper      string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&adminKey, "admin-key", "", "admin API key to seed (or STORE_SEED_ADMIN_KEY env)")
	flag.StringVar(&pepper, "admin-key-pepper", "", "HMAC pepper for key hashing (or STORE_ADMIN_KEY_PEPPER env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if adminKey == "" {
		adminKey = os.Getenv("STORE_SEED_ADMIN_KEY")
	}
	if adminKey == "" {
		slog.Error("admin key is required: set --admin-key or STORE_SEED_ADMIN_KEY")
		os.Exit(1)
	}
	if pepper == "" {
		pepper = os.Getenv("STORE_ADMIN_KEY_PEPPER")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, adminKey, pepper); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, adminKey, pepper string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedCatalog(ctx, postgres.NewProductRepository(pool)); err != nil {
		return errors.Wrap(err, "seed catalog")
	}

	if err := seedAdminKey(ctx, postgres.NewAPIKeyRepository(pool), adminKey, pepper); err != nil {
		return errors.Wrap(err, "seed admin key")
	}

	return nil
}

func seedCatalog(ctx context.Context, repo *postgres.ProductRepository) error {
	products := catalog.Generate()

	slog.Info("upserting products", slog.Int("count", len(products)))

	for i := range products {
		if err := repo.Upsert(ctx, &products[i]); err != nil {
			return errors.Wrapf(err, "upsert product %s", products[i].ID)
		}
	}

	return nil
}

func seedAdminKey(ctx context.Context, repo *postgres.APIKeyRepository, adminKey, pepper string) error {
	slog.Info("seeding admin API key")

	hash := auth.HashKey(adminKey, pepper)
	if err := repo.Upsert(ctx, "admin", hash, "Admin dashboard key", []string{auth.ScopeAdmin}); err != nil {
		return errors.Wrap(err, "upsert admin key")
	}

	slog.Info("upserted admin API key", slog.String("id", "admin"))

	return nil
}
