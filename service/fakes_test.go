package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"holoholo/models"
	"holoholo/storage"
)

// memDB is an in-memory stand-in for the Postgres store.
type memDB struct {
	mu         sync.Mutex
	seq        int64
	users      map[int64]models.User
	categories map[int64]models.Category
	products   map[int64]models.Product
	reviews    []models.Review
	orders     map[int64]models.Order

	// beforeDecrement lets a test change stock between lock and decrement.
	beforeDecrement func(db *memDB)
}

func newMemDB() *memDB {
	return &memDB{
		users:      map[int64]models.User{},
		categories: map[int64]models.Category{},
		products:   map[int64]models.Product{},
		orders:     map[int64]models.Order{},
	}
}

func (db *memDB) next() int64 {
	db.seq++
	return db.seq
}

func (db *memDB) addProduct(name, price string, stock int) models.Product {
	db.mu.Lock()
	defer db.mu.Unlock()
	p := models.Product{
		ID:        db.next(),
		Name:      name,
		Price:     decimal.RequireFromString(price),
		Stock:     stock,
		CreatedAt: time.Now(),
	}
	db.products[p.ID] = p
	return p
}

func (db *memDB) stock(id int64) int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.products[id].Stock
}

func (db *memDB) orderCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.orders)
}

type memUsers struct{ db *memDB }

func (r memUsers) Create(_ context.Context, u *models.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.users {
		if existing.Username == u.Username {
			return &storage.ConstraintError{Kind: storage.ErrDuplicate, Constraint: "users_username_key"}
		}
		if existing.Email == u.Email {
			return &storage.ConstraintError{Kind: storage.ErrDuplicate, Constraint: "users_email_key"}
		}
	}
	u.ID = r.db.next()
	u.CreatedAt = time.Now()
	r.db.users[u.ID] = *u
	return nil
}

func (r memUsers) find(match func(models.User) bool) (*models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (r memUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.ID == id })
}

func (r memUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Username == username })
}

func (r memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Email == email })
}

func (r memUsers) UpdatePassword(_ context.Context, id int64, hash string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	u.PasswordHash = hash
	r.db.users[id] = u
	return nil
}

func (r memUsers) List(context.Context) ([]models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []models.User{}
	for _, u := range r.db.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memUsers) Count(context.Context) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return int64(len(r.db.users)), nil
}

type memCategories struct{ db *memDB }

func (r memCategories) Create(_ context.Context, c *models.Category) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c.ID = r.db.next()
	r.db.categories[c.ID] = *c
	return nil
}

func (r memCategories) List(context.Context) ([]models.Category, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []models.Category{}
	for _, c := range r.db.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memCategories) Count(context.Context) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return int64(len(r.db.categories)), nil
}

type memProducts struct{ db *memDB }

func (r memProducts) checkCategory(id int64) error {
	if _, ok := r.db.categories[id]; !ok {
		return &storage.ConstraintError{Kind: storage.ErrForeignKey, Constraint: "products_category_id_fkey"}
	}
	return nil
}

func (r memProducts) Create(_ context.Context, p *models.Product) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.checkCategory(p.CategoryID); err != nil {
		return err
	}
	p.ID = r.db.next()
	p.CreatedAt = time.Now()
	r.db.products[p.ID] = *p
	return nil
}

func (r memProducts) Update(_ context.Context, p *models.Product) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	old, ok := r.db.products[p.ID]
	if !ok {
		return storage.ErrNotFound
	}
	if err := r.checkCategory(p.CategoryID); err != nil {
		return err
	}
	p.CreatedAt = old.CreatedAt
	r.db.products[p.ID] = *p
	return nil
}

func (r memProducts) Get(_ context.Context, id int64) (*models.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.products[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &p, nil
}

func (r memProducts) all(match func(models.Product) bool) []models.Product {
	out := []models.Product{}
	for _, p := range r.db.products {
		if match(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r memProducts) List(_ context.Context, f models.ProductFilter) ([]models.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := r.all(f.Matches)
	switch f.Sort {
	case models.SortPriceLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.LessThan(out[j].Price) })
	case models.SortPriceHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.GreaterThan(out[j].Price) })
	case models.SortNewest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	}
	return out, nil
}

func (r memProducts) Limit(_ context.Context, n int) ([]models.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := r.all(func(models.Product) bool { return true })
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (r memProducts) SearchByName(_ context.Context, text string) ([]models.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	text = strings.ToLower(text)
	return r.all(func(p models.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), text)
	}), nil
}

func (r memProducts) Count(context.Context) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return int64(len(r.db.products)), nil
}

type memReviews struct{ db *memDB }

func (r memReviews) Create(_ context.Context, rv *models.Review) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.products[rv.ProductID]; !ok {
		return &storage.ConstraintError{Kind: storage.ErrForeignKey, Constraint: "reviews_product_id_fkey"}
	}
	rv.ID = r.db.next()
	rv.CreatedAt = time.Now()
	r.db.reviews = append(r.db.reviews, *rv)
	return nil
}

func (r memReviews) ListByProduct(_ context.Context, productID int64) ([]models.Review, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []models.Review{}
	for i := len(r.db.reviews) - 1; i >= 0; i-- {
		if r.db.reviews[i].ProductID == productID {
			out = append(out, r.db.reviews[i])
		}
	}
	return out, nil
}

type memOrders struct{ db *memDB }

func (r memOrders) Get(_ context.Context, id int64) (*models.Order, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	o, ok := r.db.orders[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &o, nil
}

func (r memOrders) sorted(match func(models.Order) bool) []models.Order {
	out := []models.Order{}
	for _, o := range r.db.orders {
		if match(o) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (r memOrders) ListByUser(_ context.Context, userID int64) ([]models.Order, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.sorted(func(o models.Order) bool { return o.UserID == userID }), nil
}

func (r memOrders) List(context.Context) ([]models.Order, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.sorted(func(models.Order) bool { return true }), nil
}

func (r memOrders) Recent(_ context.Context, n int) ([]models.Order, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := r.sorted(func(models.Order) bool { return true })
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (r memOrders) UpdateStatus(_ context.Context, id int64, status models.OrderStatus) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	o, ok := r.db.orders[id]
	if !ok {
		return storage.ErrNotFound
	}
	o.Status = status
	r.db.orders[id] = o
	return nil
}

func (r memOrders) Count(context.Context) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return int64(len(r.db.orders)), nil
}

func (r memOrders) Revenue(context.Context) (decimal.Decimal, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	total := decimal.Zero
	for _, o := range r.db.orders {
		total = total.Add(o.TotalAmount)
	}
	return total, nil
}

// WithTx snapshots products and orders and restores them when fn fails.
func (db *memDB) WithTx(ctx context.Context, fn func(tx storage.Tx) error) error {
	db.mu.Lock()
	products := make(map[int64]models.Product, len(db.products))
	for k, v := range db.products {
		products[k] = v
	}
	orders := make(map[int64]models.Order, len(db.orders))
	for k, v := range db.orders {
		orders[k] = v
	}
	db.mu.Unlock()

	if err := fn(memTx{db: db}); err != nil {
		db.mu.Lock()
		db.products, db.orders = products, orders
		db.mu.Unlock()
		return err
	}
	return nil
}

type memTx struct{ db *memDB }

func (t memTx) LockProduct(ctx context.Context, id int64) (*models.Product, error) {
	return memProducts{db: t.db}.Get(ctx, id)
}

func (t memTx) DecrementStock(_ context.Context, productID int64, qty int) error {
	if hook := t.db.beforeDecrement; hook != nil {
		hook(t.db)
	}
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	p, ok := t.db.products[productID]
	if !ok || p.Stock < qty {
		return storage.ErrInsufficientStock
	}
	p.Stock -= qty
	t.db.products[productID] = p
	return nil
}

func (t memTx) CreateOrder(_ context.Context, o *models.Order) error {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	o.ID = t.db.next()
	o.CreatedAt = time.Now()
	for i := range o.Items {
		o.Items[i].ID = t.db.next()
		o.Items[i].OrderID = o.ID
	}
	t.db.orders[o.ID] = *o
	return nil
}
