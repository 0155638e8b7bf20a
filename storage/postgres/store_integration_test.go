package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"holoholo/models"
	"holoholo/storage"
)

// StoreTestSuite runs against a real database named by TEST_DB_CONN.
type StoreTestSuite struct {
	suite.Suite
	ctx   context.Context
	store *Store
	cat   models.Category
	user  models.User
}

func TestStoreTestSuite(t *testing.T) {
	if os.Getenv("TEST_DB_CONN") == "" {
		t.Skip("TEST_DB_CONN not set")
	}
	suite.Run(t, new(StoreTestSuite))
}

func (s *StoreTestSuite) SetupSuite() {
	connStr := os.Getenv("TEST_DB_CONN")
	s.ctx = context.Background()
	s.Require().NoError(MigrateUp(connStr))
	db, err := Open(s.ctx, connStr)
	s.Require().NoError(err)
	s.store = NewStore(db)
}

func (s *StoreTestSuite) TearDownSuite() {
	if s.store != nil {
		s.store.db.Close()
	}
}

func (s *StoreTestSuite) SetupTest() {
	_, err := s.store.db.ExecContext(s.ctx,
		`TRUNCATE order_items, orders, reviews, products, categories, users RESTART IDENTITY CASCADE`)
	s.Require().NoError(err)

	s.cat = models.Category{Name: "Clothing"}
	s.Require().NoError(s.store.Categories.Create(s.ctx, &s.cat))
	s.user = models.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	s.Require().NoError(s.store.Users.Create(s.ctx, &s.user))
}

func (s *StoreTestSuite) addProduct(name, price string, stock int) models.Product {
	p := models.Product{Name: name, Price: decimal.RequireFromString(price), Stock: stock, CategoryID: s.cat.ID}
	s.Require().NoError(s.store.Products.Create(s.ctx, &p))
	return p
}

func (s *StoreTestSuite) TestDuplicateUser() {
	u := models.User{Username: "alice", Email: "other@example.com", PasswordHash: "x"}
	s.ErrorIs(s.store.Users.Create(s.ctx, &u), storage.ErrDuplicate)

	u = models.User{Username: "bob", Email: "alice@example.com", PasswordHash: "x"}
	s.ErrorIs(s.store.Users.Create(s.ctx, &u), storage.ErrDuplicate)

	n, err := s.store.Users.Count(s.ctx)
	s.NoError(err)
	s.EqualValues(1, n)
}

func (s *StoreTestSuite) TestListFilterAndSort() {
	s.addProduct("Men's T-Shirt", "24.99", 10)
	s.addProduct("Dress", "89.99", 10)
	s.addProduct("Hat", "5.00", 10)

	minP := decimal.RequireFromString("5")
	maxP := decimal.RequireFromString("24.99")
	got, err := s.store.Products.List(s.ctx, models.ProductFilter{
		CategoryID: &s.cat.ID, MinPrice: &minP, MaxPrice: &maxP, Sort: models.SortPriceHigh,
	})
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Equal("Men's T-Shirt", got[0].Name)
	s.Equal("Hat", got[1].Name)

	other := int64(999)
	got, err = s.store.Products.List(s.ctx, models.ProductFilter{CategoryID: &other})
	s.NoError(err)
	s.Empty(got)
}

func (s *StoreTestSuite) TestSearchIgnoresCase() {
	s.addProduct("Men's T-Shirt", "24.99", 10)
	s.addProduct("Sweatshirt", "44.00", 10)
	s.addProduct("Dress", "89.99", 10)

	got, err := s.store.Products.SearchByName(s.ctx, "Shirt")
	s.NoError(err)
	s.Len(got, 2)

	got, err = s.store.Products.SearchByName(s.ctx, "shirt")
	s.NoError(err)
	s.Len(got, 2)

	got, err = s.store.Products.SearchByName(s.ctx, "%")
	s.NoError(err)
	s.Empty(got)
}

func (s *StoreTestSuite) TestCheckoutTxRollsBack() {
	p := s.addProduct("Laptop", "100.00", 2)

	err := s.store.WithTx(s.ctx, func(tx storage.Tx) error {
		o := &models.Order{
			UserID: s.user.ID, TotalAmount: decimal.RequireFromString("300.00"), ShippingAddress: "x",
			Items: []models.OrderItem{{ProductID: p.ID, Quantity: 3, Price: p.Price}},
		}
		if err := tx.CreateOrder(s.ctx, o); err != nil {
			return err
		}
		return tx.DecrementStock(s.ctx, p.ID, 3)
	})
	s.ErrorIs(err, storage.ErrInsufficientStock)

	n, err := s.store.Orders.Count(s.ctx)
	s.NoError(err)
	s.Zero(n)
	got, err := s.store.Products.Get(s.ctx, p.ID)
	s.NoError(err)
	s.Equal(2, got.Stock)
}

func (s *StoreTestSuite) TestOrdersAndRevenue() {
	p := s.addProduct("Laptop", "100.00", 5)
	for _, qty := range []int{1, 2} {
		qty := qty
		s.Require().NoError(s.store.WithTx(s.ctx, func(tx storage.Tx) error {
			item := models.OrderItem{ProductID: p.ID, Quantity: qty, Price: p.Price}
			o := &models.Order{UserID: s.user.ID, TotalAmount: item.Subtotal(), ShippingAddress: "x",
				Items: []models.OrderItem{item}}
			if err := tx.CreateOrder(s.ctx, o); err != nil {
				return err
			}
			return tx.DecrementStock(s.ctx, p.ID, qty)
		}))
	}

	orders, err := s.store.Orders.ListByUser(s.ctx, s.user.ID)
	s.Require().NoError(err)
	s.Require().Len(orders, 2)
	s.Len(orders[0].Items, 1)
	s.Require().NoError(s.store.Orders.UpdateStatus(s.ctx, orders[0].ID, models.OrderStatusCancelled))

	rev, err := s.store.Orders.Revenue(s.ctx)
	s.NoError(err)
	s.True(rev.Equal(decimal.RequireFromString("300.00")), rev.String())

	got, err := s.store.Products.Get(s.ctx, p.ID)
	s.NoError(err)
	s.Equal(2, got.Stock)
}
