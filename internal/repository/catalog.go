package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/promptcart/promptcart/internal/domain/catalog"
)

const (
	listProductsSQL = `SELECT id, name, price, prompt_fragment
		FROM products ORDER BY id`

	getProductSQL = `SELECT id, name, price, prompt_fragment
		FROM products WHERE id = $1`

	getSiteTypeSQL = `SELECT id, name, base_price
		FROM site_types WHERE id = $1`
)

var _ catalog.Reader = (*CatalogRepository)(nil)

// CatalogRepository implements catalog.Reader backed by PostgreSQL.
type CatalogRepository struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository returns a CatalogRepository that uses the given pool.
func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

// List returns all products from the catalog ordered by ID.
func (r *CatalogRepository) List(ctx context.Context) ([]catalog.Product, error) {
	rows, err := r.pool.Query(ctx, listProductsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// GetProduct returns a single product by its identifier.
// Returns catalog.ErrProductNotFound when no such product exists.
func (r *CatalogRepository) GetProduct(ctx context.Context, id string) (*catalog.Product, error) {
	rows, err := r.pool.Query(ctx, getProductSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting product %q: %w", id, err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrProductNotFound
		}
		return nil, fmt.Errorf("getting product %q: %w", id, err)
	}
	return &p, nil
}

// GetSiteType returns a single site type by its identifier.
// Returns catalog.ErrSiteTypeNotFound when no such site type exists.
func (r *CatalogRepository) GetSiteType(ctx context.Context, id string) (*catalog.SiteType, error) {
	rows, err := r.pool.Query(ctx, getSiteTypeSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting site type %q: %w", id, err)
	}

	st, err := pgx.CollectExactlyOneRow(rows, func(row pgx.CollectableRow) (catalog.SiteType, error) {
		var s catalog.SiteType
		err := row.Scan(&s.ID, &s.Name, &s.BasePrice)
		return s, err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrSiteTypeNotFound
		}
		return nil, fmt.Errorf("getting site type %q: %w", id, err)
	}
	return &st, nil
}

func scanProduct(row pgx.CollectableRow) (catalog.Product, error) {
	var p catalog.Product
	err := row.Scan(&p.ID, &p.Name, &p.Price, &p.PromptFragment)
	return p, err
}
