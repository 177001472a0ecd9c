//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptcart/promptcart/internal/domain/order"
	"github.com/promptcart/promptcart/internal/repository"
)

func TestOrderRepositorySave_RollsBackOnItemFailure(t *testing.T) {
	resetDB(t)
	repo := repository.NewOrderRepository(pool)

	o := &order.Order{
		ID:        uuid.New().String(),
		UserID:    "user-1",
		Status:    order.StatusNew,
		Total:     decimal.RequireFromString("125.00"),
		Prompt:    "## Hero Banner\n\nGenerate a hero banner.\n",
		CreatedAt: time.Now().UTC(),
		Items: []order.Item{
			{ProductID: "hero", PromptFragment: "Generate a hero banner.", UnitPrice: decimal.RequireFromString("50.00"), Quantity: 1},
			// Violates the quantity > 0 check, so the item batch fails after
			// the order row insert already succeeded.
			{ProductID: "gallery", PromptFragment: "Generate a gallery.", UnitPrice: decimal.RequireFromString("75.00"), Quantity: 0},
		},
	}

	err := repo.Save(context.Background(), o)

	require.Error(t, err)
	assert.Equal(t, 0, countRows(t, "orders"), "order row must roll back with its items")
	assert.Equal(t, 0, countRows(t, "order_items"))

	_, err = repo.GetByID(context.Background(), o.ID)
	assert.ErrorIs(t, err, order.ErrNotFound)
}
