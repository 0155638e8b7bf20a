package cart

import (
	"context"
	"errors"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"holoholo/models"
	"holoholo/storage"
	"holoholo/validators"
)

// ProductLookup resolves cart entries against the catalog.
type ProductLookup interface {
	Get(ctx context.Context, id int64) (*models.Product, error)
}

type Manager struct {
	store    Store
	products ProductLookup
}

func NewManager(store Store, products ProductLookup) *Manager {
	return &Manager{store: store, products: products}
}

// ParseProductID accepts only positive integer ids.
func ParseProductID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &validators.FieldError{Field: "product_id", Msg: "must be a positive integer"}
	}
	return id, nil
}

// AddItem increments the quantity for productID, inserting it when absent.
// Stock is not checked here; checkout does that.
func (m *Manager) AddItem(ctx context.Context, session, productID string, qty int) error {
	id, err := ParseProductID(productID)
	if err != nil {
		return err
	}
	if qty < 1 {
		return &validators.FieldError{Field: "quantity", Msg: "must be at least 1"}
	}
	return m.store.Increment(ctx, session, strconv.FormatInt(id, 10), qty)
}

// UpdateItem overwrites the quantity. A quantity of zero or less removes the entry.
func (m *Manager) UpdateItem(ctx context.Context, session, productID string, qty int) error {
	id, err := ParseProductID(productID)
	if err != nil {
		return err
	}
	key := strconv.FormatInt(id, 10)
	if qty <= 0 {
		return m.store.Remove(ctx, session, key)
	}
	return m.store.Set(ctx, session, key, qty)
}

func (m *Manager) Lines(ctx context.Context, session string) (models.Cart, error) {
	return m.store.Get(ctx, session)
}

func (m *Manager) Clear(ctx context.Context, session string) error {
	return m.store.Clear(ctx, session)
}

// View prices the cart against current product data. Entries whose product
// is gone are left out of the view but stay in the store.
func (m *Manager) View(ctx context.Context, session string) (*models.CartView, error) {
	items, err := m.store.Get(ctx, session)
	if err != nil {
		return nil, err
	}

	view := &models.CartView{Items: []models.CartLine{}, Total: decimal.Zero}
	for _, key := range SortedKeys(items) {
		id, err := ParseProductID(key)
		if err != nil {
			continue
		}
		p, err := m.products.Get(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		qty := items[key]
		line := models.CartLine{
			Product:  *p,
			Quantity: qty,
			Total:    p.Price.Mul(decimal.NewFromInt(int64(qty))),
		}
		view.Items = append(view.Items, line)
		view.Total = view.Total.Add(line.Total)
	}
	return view, nil
}

// SortedKeys orders cart keys numerically so views and checkouts are stable.
func SortedKeys(c models.Cart) []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.ParseInt(keys[i], 10, 64)
		b, errB := strconv.ParseInt(keys[j], 10, 64)
		if errA != nil || errB != nil {
			return keys[i] < keys[j]
		}
		return a < b
	})
	return keys
}
