package order

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/promptcart/promptcart/internal/domain/cart"
	"github.com/promptcart/promptcart/internal/domain/catalog"
)

// lookupConcurrency caps parallel catalog lookups per reconciliation run.
const lookupConcurrency = 8

// ReconciledItem is a cart line re-priced against the live catalog. UnitPrice
// is the product's current price; the cart-recorded price is discarded.
type ReconciledItem struct {
	ProductID      string
	ProductName    string
	PlatformID     *string
	PromptFragment string
	UnitPrice      decimal.Decimal
	Quantity       int
}

// Reconciler recomputes authoritative prices for cart items at order time.
// Cart-cached prices are deliberately distrusted to prevent stale-price
// exploitation between add-to-cart and checkout.
type Reconciler struct {
	catalog catalog.Reader
}

// NewReconciler creates a Reconciler backed by the given catalog Reader.
func NewReconciler(c catalog.Reader) *Reconciler {
	return &Reconciler{catalog: c}
}

// Reconcile looks up every item's product in the catalog and returns the
// re-priced items together with the order total. Lookups run concurrently
// since they are independent reads; the total is summed in cart item order
// afterwards, so it is deterministic for a given snapshot.
//
// A dangling product reference fails the whole run with *ProductNotFoundError.
// When the snapshot carries a site configuration, the site type's base price
// is fetched once and added to the total; a dangling site type fails with
// *SiteTypeNotFoundError.
func (r *Reconciler) Reconcile(ctx context.Context, snap *cart.Snapshot) ([]ReconciledItem, decimal.Decimal, error) {
	items := make([]ReconciledItem, len(snap.Items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(lookupConcurrency)
	for i, it := range snap.Items {
		g.Go(func() error {
			p, err := r.catalog.GetProduct(gctx, it.ProductID)
			if err != nil {
				if errors.Is(err, catalog.ErrProductNotFound) {
					return &ProductNotFoundError{ProductID: it.ProductID}
				}
				return errors.Wrapf(err, "get product %s", it.ProductID)
			}

			// The item's own fragment wins over the product template.
			fragment := p.PromptFragment
			if it.PromptFragment != nil {
				fragment = *it.PromptFragment
			}

			items[i] = ReconciledItem{
				ProductID:      p.ID,
				ProductName:    p.Name,
				PlatformID:     it.PlatformID,
				PromptFragment: fragment,
				UnitPrice:      p.Price,
				Quantity:       it.Quantity,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, decimal.Zero, err
	}

	total := decimal.Zero
	for _, it := range items {
		qty := decimal.NewFromInt(int64(it.Quantity))
		total = total.Add(it.UnitPrice.Mul(qty))
	}

	if snap.Site != nil {
		st, err := r.catalog.GetSiteType(ctx, snap.Site.SiteTypeID)
		if err != nil {
			if errors.Is(err, catalog.ErrSiteTypeNotFound) {
				return nil, decimal.Zero, &SiteTypeNotFoundError{SiteTypeID: snap.Site.SiteTypeID}
			}
			return nil, decimal.Zero, errors.Wrapf(err, "get site type %s", snap.Site.SiteTypeID)
		}
		total = total.Add(st.BasePrice)
	}

	return items, total, nil
}
