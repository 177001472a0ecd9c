// Command seed-db loads demo catalog data and, optionally, a demo cart so the
// API can be exercised right after startup.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/promptcart/promptcart/internal/repository"
)

type seedFile struct {
	Products []struct {
		ID             string          `json:"id"`
		Name           string          `json:"name"`
		Price          decimal.Decimal `json:"price"`
		PromptFragment string          `json:"promptFragment"`
	} `json:"products"`
	SiteTypes []struct {
		ID        string          `json:"id"`
		Name      string          `json:"name"`
		BasePrice decimal.Decimal `json:"basePrice"`
	} `json:"siteTypes"`
}

func main() {
	var (
		databaseURL string
		seedPath    string
		demoCart    bool
		demoUser    string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&seedPath, "seed-file", "db/seed/catalog.json", "path to catalog seed JSON file")
	flag.BoolVar(&demoCart, "demo-cart", false, "also create a demo site and cart containing every seeded product")
	flag.StringVar(&demoUser, "demo-user", "demo-user", "user ID owning the demo cart")
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

	if err := run(ctx, databaseURL, seedPath, demoCart, demoUser); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, seedPath string, demoCart bool, demoUser string) error {
	raw, err := os.ReadFile(seedPath)
	if err != nil {
		return errors.Wrap(err, "read seed file")
	}
	var seed seedFile
	if err := json.Unmarshal(raw, &seed); err != nil {
		return errors.Wrap(err, "parse seed file")
	}

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "create db pool")
	}
	defer pool.Close()

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	for _, p := range seed.Products {
		_, err := pool.Exec(ctx, `INSERT INTO products (id, name, price, prompt_fragment)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE
			SET name = EXCLUDED.name, price = EXCLUDED.price, prompt_fragment = EXCLUDED.prompt_fragment`,
			p.ID, p.Name, p.Price, p.PromptFragment,
		)
		if err != nil {
			return errors.Wrapf(err, "seed product %s", p.ID)
		}
	}
	slog.Info("seeded products", slog.Int("count", len(seed.Products)))

	for _, st := range seed.SiteTypes {
		_, err := pool.Exec(ctx, `INSERT INTO site_types (id, name, base_price)
			VALUES ($1, $2, $3)
			ON CONFLICT (id) DO UPDATE
			SET name = EXCLUDED.name, base_price = EXCLUDED.base_price`,
			st.ID, st.Name, st.BasePrice,
		)
		if err != nil {
			return errors.Wrapf(err, "seed site type %s", st.ID)
		}
	}
	slog.Info("seeded site types", slog.Int("count", len(seed.SiteTypes)))

	if !demoCart {
		return nil
	}
	return seedDemoCart(ctx, pool, seed, demoUser)
}

// seedDemoCart creates one basic site (when a site type exists) and one cart
// holding every seeded product, owned by demoUser.
func seedDemoCart(ctx context.Context, pool *pgxpool.Pool, seed seedFile, demoUser string) error {
	var siteID *string
	if len(seed.SiteTypes) > 0 {
		id := uuid.New().String()
		_, err := pool.Exec(ctx, `INSERT INTO basic_sites (id, name, description, site_type_id)
			VALUES ($1, $2, $3, $4)`,
			id, "Demo Site", "A demo website seeded for local development.", seed.SiteTypes[0].ID,
		)
		if err != nil {
			return errors.Wrap(err, "seed demo site")
		}
		siteID = &id
	}

	cartID := uuid.New().String()
	_, err := pool.Exec(ctx, `INSERT INTO carts (id, user_id, basic_site_id) VALUES ($1, $2, $3)`,
		cartID, demoUser, siteID,
	)
	if err != nil {
		return errors.Wrap(err, "seed demo cart")
	}

	for _, p := range seed.Products {
		_, err := pool.Exec(ctx, `INSERT INTO cart_items (id, cart_id, product_id, quantity, unit_price)
			VALUES ($1, $2, $3, 1, $4)`,
			uuid.New().String(), cartID, p.ID, p.Price,
		)
		if err != nil {
			return errors.Wrapf(err, "seed demo cart item %s", p.ID)
		}
	}

	slog.Info("seeded demo cart",
		slog.String("cart_id", cartID),
		slog.String("user_id", demoUser),
		slog.Int("items", len(seed.Products)),
	)
	return nil
}
