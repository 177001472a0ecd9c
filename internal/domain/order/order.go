package order

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Status enumerates order lifecycle states. New orders always start as
// StatusNew; later transitions are driven outside the creation engine.
type Status string

const (
	StatusNew        Status = "new"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Order is the durable result of a successful cart checkout: reconciled
// prices, the assembled generation prompt, and frozen line items.
type Order struct {
	ID        string
	UserID    string
	Status    Status
	Total     decimal.Decimal
	Prompt    string
	CreatedAt time.Time
	Items     []Item
}

// Item is a frozen line-item snapshot. UnitPrice is the product's catalog
// price at order time; it never changes after the order commits, even if the
// catalog price does.
type Item struct {
	ProductID      string
	PlatformID     *string
	PromptFragment string
	UnitPrice      decimal.Decimal
	Quantity       int
}

// ErrNotFound is returned when a requested order does not exist.
var ErrNotFound = errors.New("order not found")

// Repository defines persistence operations for orders.
type Repository interface {
	// Save persists the order and all of its items as a single atomic unit:
	// either every row is durably written or none are.
	Save(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
}

// ProductNotFoundError indicates a cart item references a product that no
// longer exists in the catalog.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

// SiteTypeNotFoundError indicates the cart's site configuration references a
// site type that no longer exists.
type SiteTypeNotFoundError struct {
	SiteTypeID string
}

func (e *SiteTypeNotFoundError) Error() string {
	return fmt.Sprintf("site type %s not found", e.SiteTypeID)
}

// PersistenceError wraps a storage fault during the atomic order write.
// The caller must treat it as "no order created"; retrying the whole
// operation is safe.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("order persistence failed: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// CartClearError reports a post-commit cart clear failure. The order named by
// OrderID WAS created and remains valid; only the clear needs to be retried.
// Callers must never re-run order creation in response to this error.
type CartClearError struct {
	OrderID string
	Err     error
}

func (e *CartClearError) Error() string {
	return fmt.Sprintf("order %s committed but cart not cleared: %v", e.OrderID, e.Err)
}

func (e *CartClearError) Unwrap() error { return e.Err }
