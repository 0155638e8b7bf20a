package postgres

import (
	"context"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"holoholo/models"
)

type OrderRepo struct {
	q querier
}

const orderColumns = `id, user_id, total_amount, status, shipping_address, created_at`

func (r *OrderRepo) create(ctx context.Context, o *models.Order) error {
	if o.Status == "" {
		o.Status = models.OrderStatusPending
	}
	err := r.q.QueryRowContext(ctx, `
		INSERT INTO orders (user_id, total_amount, status, shipping_address)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, o.UserID, o.TotalAmount, o.Status, o.ShippingAddress).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return mapError(err)
	}
	for i := range o.Items {
		it := &o.Items[i]
		it.OrderID = o.ID
		err := r.q.QueryRowContext(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, price)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, it.OrderID, it.ProductID, it.Quantity, it.Price).Scan(&it.ID)
		if err != nil {
			return mapError(err)
		}
	}
	return nil
}

func (r *OrderRepo) Get(ctx context.Context, id int64) (*models.Order, error) {
	orders, err := r.query(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, mapError(errNoRows)
	}
	return &orders[0], nil
}

func (r *OrderRepo) ListByUser(ctx context.Context, userID int64) ([]models.Order, error) {
	return r.query(ctx, `
		SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC, id DESC
	`, userID)
}

func (r *OrderRepo) List(ctx context.Context) ([]models.Order, error) {
	return r.query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC, id DESC`)
}

func (r *OrderRepo) Recent(ctx context.Context, n int) ([]models.Order, error) {
	return r.query(ctx, `
		SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC, id DESC LIMIT $1
	`, n)
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, id int64, status models.OrderStatus) error {
	return execOne(ctx, r.q, `UPDATE orders SET status = $1 WHERE id = $2`, status, id)
}

func (r *OrderRepo) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.q, "orders")
}

// Revenue sums every order whatever its status.
func (r *OrderRepo) Revenue(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRowContext(ctx, `SELECT COALESCE(SUM(total_amount), 0) FROM orders`).Scan(&total)
	return total, mapError(err)
}

// query loads orders and then their items in a single second round trip.
func (r *OrderRepo) query(ctx context.Context, query string, args ...any) ([]models.Order, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	orders := []models.Order{}
	index := map[int64]int{}
	var ids []int64
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.Status, &o.ShippingAddress, &o.CreatedAt); err != nil {
			return nil, mapError(err)
		}
		o.Items = []models.OrderItem{}
		index[o.ID] = len(orders)
		ids = append(ids, o.ID)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	if len(ids) == 0 {
		return orders, nil
	}

	itemRows, err := r.q.QueryContext(ctx, `
		SELECT id, order_id, product_id, quantity, price
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id
	`, pq.Array(ids))
	if err != nil {
		return nil, mapError(err)
	}
	defer itemRows.Close()
	for itemRows.Next() {
		var it models.OrderItem
		if err := itemRows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.Price); err != nil {
			return nil, mapError(err)
		}
		o := &orders[index[it.OrderID]]
		o.Items = append(o.Items, it)
	}
	return orders, mapError(itemRows.Err())
}
