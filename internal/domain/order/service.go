package order

import (
	"context"
	"time"

	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/promptcart/promptcart/internal/domain/cart"
	"github.com/promptcart/promptcart/internal/domain/catalog"
)

// Result holds the outcome of a successful order creation. CartCleared is
// false only when the order committed but the follow-up cart clear failed; in
// that case CreateOrderFromCart also returns a *CartClearError.
type Result struct {
	Order       *Order
	CartCleared bool
}

// Service orchestrates order creation from a cart: snapshot read, price
// reconciliation, prompt assembly, atomic persistence, and the post-commit
// cart clear. Collaborators are fixed at construction.
type Service struct {
	carts      cart.Store
	reader     *cart.SnapshotReader
	reconciler *Reconciler
	orders     Repository
}

// NewService creates an order Service with the required collaborators.
func NewService(carts cart.Store, c catalog.Reader, orders Repository) *Service {
	return &Service{
		carts:      carts,
		reader:     cart.NewSnapshotReader(carts),
		reconciler: NewReconciler(c),
		orders:     orders,
	}
}

// CreateOrderFromCart converts the cart into a durable order.
//
// The run commits against the single snapshot taken first; concurrent cart
// changes are not observed (last snapshot wins). Any failure before the order
// commit leaves zero side effects, so retrying the whole call is safe. After
// the commit the order is final: a failed cart clear is reported as a
// *CartClearError alongside the non-nil Result, and callers must retry only
// the clear, never the order creation.
func (s *Service) CreateOrderFromCart(ctx context.Context, cartID string) (*Result, error) {
	lg := zctx.From(ctx).With(zap.String("cart_id", cartID))
	logState(lg, StateStarted)

	snap, err := s.reader.ReadCart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	logState(lg, StateCartRead, zap.Int("items", len(snap.Items)))

	items, total, err := s.reconciler.Reconcile(ctx, snap)
	if err != nil {
		return nil, err
	}
	logState(lg, StatePriceReconciled, zap.String("total", total.String()))

	prompt := AssemblePrompt(snap.Site, items)
	logState(lg, StatePromptAssembled, zap.Int("prompt_len", len(prompt)))

	o := &Order{
		ID:        uuid.New().String(),
		UserID:    snap.Cart.UserID,
		Status:    StatusNew,
		Total:     total,
		Prompt:    prompt,
		CreatedAt: time.Now().UTC(),
		Items:     toOrderItems(items),
	}
	if err := s.orders.Save(ctx, o); err != nil {
		return nil, &PersistenceError{Err: err}
	}
	lg = lg.With(zap.String("order_id", o.ID))
	logState(lg, StateOrderCommitted)

	// The order is final; caller cancellation must not abort the clear.
	if err := s.carts.ClearCart(context.WithoutCancel(ctx), cartID); err != nil {
		lg.Warn("cart clear failed after commit", zap.Error(err))
		return &Result{Order: o, CartCleared: false}, &CartClearError{OrderID: o.ID, Err: err}
	}
	logState(lg, StateCartCleared)

	return &Result{Order: o, CartCleared: true}, nil
}

func toOrderItems(items []ReconciledItem) []Item {
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = Item{
			ProductID:      it.ProductID,
			PlatformID:     it.PlatformID,
			PromptFragment: it.PromptFragment,
			UnitPrice:      it.UnitPrice,
			Quantity:       it.Quantity,
		}
	}
	return out
}

func logState(lg *zap.Logger, st State, fields ...zap.Field) {
	lg.Debug("order creation state", append([]zap.Field{zap.String("state", string(st))}, fields...)...)
}
