package service

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"holoholo/cart"
	"holoholo/models"
)

type checkoutFixture struct {
	db     *memDB
	carts  *cart.Manager
	orders *Orders
}

func newCheckoutFixture() *checkoutFixture {
	db := newMemDB()
	carts := cart.NewManager(cart.NewMemoryStore(time.Hour), memProducts{db: db})
	return &checkoutFixture{
		db:     db,
		carts:  carts,
		orders: NewOrders(db, memOrders{db: db}, carts),
	}
}

func key(id int64) string {
	return strconv.FormatInt(id, 10)
}

func TestCheckoutDropsUnavailableLines(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()
	a := f.db.addProduct("Smartphone X", "699.99", 5)
	b := f.db.addProduct("Running Shoes", "119.99", 0)

	require.NoError(t, f.carts.AddItem(ctx, "1", key(a.ID), 3))
	require.NoError(t, f.carts.AddItem(ctx, "1", key(b.ID), 1))
	require.NoError(t, f.carts.AddItem(ctx, "1", "999", 2))

	res, err := f.orders.Checkout(ctx, 1, "1", "1 Main St")
	require.NoError(t, err)
	require.NotNil(t, res.Order)

	require.Len(t, res.Order.Items, 1)
	assert.Equal(t, a.ID, res.Order.Items[0].ProductID)
	assert.Equal(t, 3, res.Order.Items[0].Quantity)
	assert.True(t, res.Order.TotalAmount.Equal(decimal.RequireFromString("2099.97")))
	assert.Equal(t, models.OrderStatusPending, res.Order.Status)

	dropped := res.Dropped()
	require.Len(t, dropped, 2)
	assert.Equal(t, models.LineInsufficientStock, dropped[0].Outcome)
	assert.Equal(t, models.LineNotFound, dropped[1].Outcome)

	assert.Equal(t, 2, f.db.stock(a.ID))
	assert.Equal(t, 0, f.db.stock(b.ID))

	lines, err := f.carts.Lines(ctx, "1")
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newCheckoutFixture()
	_, err := f.orders.Checkout(context.Background(), 1, "1", "1 Main St")
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Zero(t, f.db.orderCount())
}

func TestCheckoutNoValidItems(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()
	p := f.db.addProduct("Book", "39.99", 1)

	require.NoError(t, f.carts.AddItem(ctx, "1", key(p.ID), 2))
	require.NoError(t, f.carts.AddItem(ctx, "1", "404", 1))

	_, err := f.orders.Checkout(ctx, 1, "1", "1 Main St")
	assert.ErrorIs(t, err, ErrNoValidItems)
	assert.Zero(t, f.db.orderCount())
	assert.Equal(t, 1, f.db.stock(p.ID))

	var noItems *NoValidItemsError
	require.True(t, errors.As(err, &noItems))
	assert.Equal(t, []models.LineResult{
		{ProductID: key(p.ID), Quantity: 2, Outcome: models.LineInsufficientStock},
		{ProductID: "404", Quantity: 1, Outcome: models.LineNotFound},
	}, noItems.Lines)

	lines, _ := f.carts.Lines(ctx, "1")
	assert.Len(t, lines, 2, "cart kept after a refused checkout")
}

func TestCheckoutRequiresAddress(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()
	p := f.db.addProduct("Book", "39.99", 1)
	require.NoError(t, f.carts.AddItem(ctx, "1", key(p.ID), 1))

	_, err := f.orders.Checkout(ctx, 1, "1", "   ")
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "shipping_address", ve.Field)
	assert.Zero(t, f.db.orderCount())
}

func TestCheckoutStockConflictRollsBack(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()
	a := f.db.addProduct("Laptop Pro", "1299.99", 2)
	b := f.db.addProduct("Headphones", "199.99", 4)

	require.NoError(t, f.carts.AddItem(ctx, "1", key(a.ID), 1))
	require.NoError(t, f.carts.AddItem(ctx, "1", key(b.ID), 2))

	// another buyer takes b's stock after it was checked
	f.db.beforeDecrement = func(db *memDB) {
		db.mu.Lock()
		p := db.products[b.ID]
		p.Stock = 1
		db.products[b.ID] = p
		db.mu.Unlock()
	}

	_, err := f.orders.Checkout(ctx, 1, "1", "1 Main St")
	assert.ErrorIs(t, err, ErrStockConflict)
	assert.Zero(t, f.db.orderCount())
	assert.Equal(t, 2, f.db.stock(a.ID), "decrement of the first line rolled back")

	lines, _ := f.carts.Lines(ctx, "1")
	assert.Len(t, lines, 2)
}

func TestOrderHistoryAndOwnership(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()
	p := f.db.addProduct("T-Shirt", "19.99", 10)

	require.NoError(t, f.carts.AddItem(ctx, "1", key(p.ID), 1))
	first, err := f.orders.Checkout(ctx, 1, "1", "1 Main St")
	require.NoError(t, err)
	require.NoError(t, f.carts.AddItem(ctx, "1", key(p.ID), 2))
	second, err := f.orders.Checkout(ctx, 1, "1", "1 Main St")
	require.NoError(t, err)

	history, err := f.orders.OrderHistory(ctx, 1)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, second.Order.ID, history[0].ID)

	got, err := f.orders.GetOrder(ctx, 1, first.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Order.ID, got.ID)

	_, err = f.orders.GetOrder(ctx, 2, first.Order.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	none, err := f.orders.OrderHistory(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, none)
}
