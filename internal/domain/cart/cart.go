package cart

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/promptcart/promptcart/internal/domain/site"
)

// Sentinel errors for cart reads.
var (
	// ErrNotFound is returned when no cart exists for the given identifier.
	ErrNotFound = errors.New("cart not found")
	// ErrEmpty is returned when the cart exists but has no items.
	ErrEmpty = errors.New("cart is empty")
)

// Cart identifies a user's in-progress selection.
type Cart struct {
	ID          string
	UserID      string
	BasicSiteID *string
}

// Item is a single line in a cart. UnitPrice is the price recorded when the
// item was added; it is advisory only and never used for order totals.
// PromptFragment, when set, overrides the product's stored fragment.
type Item struct {
	ID             string
	CartID         string
	ProductID      string
	PlatformID     *string
	PromptFragment *string
	Quantity       int
	UnitPrice      decimal.Decimal
}

// Snapshot is an immutable point-in-time view of a cart. It is taken once per
// order-creation run and stays authoritative for that run even if the
// underlying cart changes concurrently.
type Snapshot struct {
	Cart  Cart
	Site  *site.Configuration
	Items []Item
}

// Store defines the cart subsystem operations the order engine consumes. The
// engine never mutates cart rows directly; ClearCart is the only write and it
// is issued only after an order has committed.
type Store interface {
	// GetCartWithItems loads the cart, its ordered items, and the joined site
	// configuration when one is referenced. Returns ErrNotFound for unknown IDs.
	GetCartWithItems(ctx context.Context, cartID string) (*Snapshot, error)
	// ClearCart removes all items from the cart. The cart row itself may remain.
	ClearCart(ctx context.Context, cartID string) error
}

// SnapshotReader loads and validates cart snapshots for order creation.
type SnapshotReader struct {
	store Store
}

// NewSnapshotReader creates a SnapshotReader backed by the given Store.
func NewSnapshotReader(store Store) *SnapshotReader {
	return &SnapshotReader{store: store}
}

// ReadCart returns the cart's snapshot, failing with ErrNotFound when the
// cart does not exist and ErrEmpty when it has zero items. No side effects.
func (r *SnapshotReader) ReadCart(ctx context.Context, cartID string) (*Snapshot, error) {
	snap, err := r.store.GetCartWithItems(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if len(snap.Items) == 0 {
		return nil, ErrEmpty
	}
	return snap, nil
}
