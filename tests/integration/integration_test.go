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

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/promptcart/promptcart/internal/domain/order"
	"github.com/promptcart/promptcart/internal/handler"
	"github.com/promptcart/promptcart/internal/repository"
)

var (
	pool    *pgxpool.Pool
	baseURL string
)

func TestMain(m *testing.M) {
	os.Exit(testMain(m))
}

func testMain(m *testing.M) int {
	ctx := context.Background()

	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("promptcart"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		log.Printf("start postgres container: %v", err)
		return 1
	}
	defer func() {
		if err := testcontainers.TerminateContainer(ctr); err != nil {
			log.Printf("terminate postgres container: %v", err)
		}
	}()

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		log.Printf("connection string: %v", err)
		return 1
	}

	pool, err = repository.NewPool(ctx, dsn)
	if err != nil {
		log.Printf("create pool: %v", err)
		return 1
	}
	defer pool.Close()

	if err := repository.RunMigrations(ctx, pool); err != nil {
		log.Printf("run migrations: %v", err)
		return 1
	}

	catalogRepo := repository.NewCatalogRepository(pool)
	cartRepo := repository.NewCartRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	orderService := order.NewService(cartRepo, catalogRepo, orderRepo)

	mux := http.NewServeMux()
	handler.NewHandler(catalogRepo, orderService, orderRepo).Register(mux)

	server := httptest.NewServer(mux)
	defer server.Close()
	baseURL = server.URL

	return m.Run()
}

// resetDB truncates all mutable tables between tests.
func resetDB(t *testing.T) {
	t.Helper()
	_, err := pool.Exec(context.Background(),
		`TRUNCATE order_items, orders, cart_items, carts, basic_sites, site_types, products`)
	if err != nil {
		t.Fatalf("reset db: %v", err)
	}
}

func seedProduct(t *testing.T, id, name, price, fragment string) {
	t.Helper()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO products (id, name, price, prompt_fragment) VALUES ($1, $2, $3, $4)`,
		id, name, price, fragment)
	if err != nil {
		t.Fatalf("seed product %s: %v", id, err)
	}
}

func seedSiteType(t *testing.T, id, name, basePrice string) {
	t.Helper()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO site_types (id, name, base_price) VALUES ($1, $2, $3)`,
		id, name, basePrice)
	if err != nil {
		t.Fatalf("seed site type %s: %v", id, err)
	}
}

func seedSite(t *testing.T, name, description, siteTypeID string) string {
	t.Helper()
	id := uuid.New().String()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO basic_sites (id, name, description, site_type_id) VALUES ($1, $2, $3, $4)`,
		id, name, description, siteTypeID)
	if err != nil {
		t.Fatalf("seed site: %v", err)
	}
	return id
}

func seedCart(t *testing.T, userID string, siteID *string) string {
	t.Helper()
	id := uuid.New().String()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO carts (id, user_id, basic_site_id) VALUES ($1, $2, $3)`,
		id, userID, siteID)
	if err != nil {
		t.Fatalf("seed cart: %v", err)
	}
	return id
}

func seedCartItem(t *testing.T, cartID, productID string, qty int, unitPrice string) {
	t.Helper()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO cart_items (id, cart_id, product_id, quantity, unit_price) VALUES ($1, $2, $3, $4, $5)`,
		uuid.New().String(), cartID, productID, qty, unitPrice)
	if err != nil {
		t.Fatalf("seed cart item %s: %v", productID, err)
	}
}

func countRows(t *testing.T, table string) int {
	t.Helper()
	var n int
	// table names are test constants, not user input
	err := pool.QueryRow(context.Background(), fmt.Sprintf(`SELECT count(*) FROM %s`, table)).Scan(&n)
	if err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}
