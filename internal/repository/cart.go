package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/promptcart/promptcart/internal/domain/cart"
	"github.com/promptcart/promptcart/internal/domain/site"
)

const (
	getCartSQL = `SELECT c.id, c.user_id, c.basic_site_id,
			s.id, s.name, s.description, s.site_type_id
		FROM carts c
		LEFT JOIN basic_sites s ON s.id = c.basic_site_id
		WHERE c.id = $1`

	getCartItemsSQL = `SELECT id, cart_id, product_id, platform_id, prompt_fragment, quantity, unit_price
		FROM cart_items WHERE cart_id = $1 ORDER BY position`

	clearCartSQL = `DELETE FROM cart_items WHERE cart_id = $1`
)

var _ cart.Store = (*CartRepository)(nil)

// CartRepository implements cart.Store backed by PostgreSQL.
type CartRepository struct {
	pool *pgxpool.Pool
}

// NewCartRepository returns a CartRepository that uses the given pool.
func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

// GetCartWithItems loads the cart row, its joined site configuration, and the
// full ordered item list in one consistent read.
// Returns cart.ErrNotFound when the cart does not exist.
func (r *CartRepository) GetCartWithItems(ctx context.Context, cartID string) (*cart.Snapshot, error) {
	var (
		snap     cart.Snapshot
		siteID   *string
		siteName *string
		siteDesc *string
		typeID   *string
	)
	err := r.pool.QueryRow(ctx, getCartSQL, cartID).Scan(
		&snap.Cart.ID, &snap.Cart.UserID, &snap.Cart.BasicSiteID,
		&siteID, &siteName, &siteDesc, &typeID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, cart.ErrNotFound
		}
		return nil, fmt.Errorf("getting cart %q: %w", cartID, err)
	}

	if siteID != nil {
		snap.Site = &site.Configuration{
			ID:          *siteID,
			Name:        *siteName,
			Description: *siteDesc,
			SiteTypeID:  *typeID,
		}
	}

	rows, err := r.pool.Query(ctx, getCartItemsSQL, cartID)
	if err != nil {
		return nil, fmt.Errorf("getting items for cart %q: %w", cartID, err)
	}
	snap.Items, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (cart.Item, error) {
		var it cart.Item
		err := row.Scan(&it.ID, &it.CartID, &it.ProductID, &it.PlatformID,
			&it.PromptFragment, &it.Quantity, &it.UnitPrice)
		return it, err
	})
	if err != nil {
		return nil, fmt.Errorf("collecting items for cart %q: %w", cartID, err)
	}

	return &snap, nil
}

// ClearCart removes all items from the cart. The cart row remains so the user
// keeps their (now empty) cart.
func (r *CartRepository) ClearCart(ctx context.Context, cartID string) error {
	if _, err := r.pool.Exec(ctx, clearCartSQL, cartID); err != nil {
		return fmt.Errorf("clearing cart %q: %w", cartID, err)
	}
	return nil
}
