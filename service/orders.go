package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"holoholo/cart"
	"holoholo/metrics"
	"holoholo/models"
	"holoholo/storage"
	"holoholo/validators"
)

type Orders struct {
	tx     storage.TxRunner
	orders storage.Orders
	carts  *cart.Manager
}

func NewOrders(tx storage.TxRunner, orders storage.Orders, carts *cart.Manager) *Orders {
	return &Orders{tx: tx, orders: orders, carts: carts}
}

// Checkout turns the session's cart into an order for userID.
//
// Lines whose product is gone or short on stock are left out and reported
// in the result. Creating the order, its items and the stock decrements
// happen in one transaction; if another checkout takes the stock first the
// whole order is abandoned with ErrStockConflict. The cart is cleared only
// after the order is committed.
func (o *Orders) Checkout(ctx context.Context, userID int64, session, shippingAddress string) (*models.CheckoutResult, error) {
	logger := zerolog.Ctx(ctx)

	lines, err := o.carts.Lines(ctx, session)
	if err != nil {
		metrics.Checkouts.WithLabelValues(metrics.CheckoutError).Inc()
		return nil, &StorageError{Op: "load cart", Err: err}
	}
	if len(lines) == 0 {
		metrics.Checkouts.WithLabelValues(metrics.CheckoutEmptyCart).Inc()
		return nil, ErrEmptyCart
	}
	if err := validators.ValidateShippingAddress(shippingAddress); err != nil {
		return nil, err
	}

	var result *models.CheckoutResult
	err = o.tx.WithTx(ctx, func(tx storage.Tx) error {
		result = &models.CheckoutResult{}
		order := &models.Order{
			UserID:          userID,
			Status:          models.OrderStatusPending,
			ShippingAddress: strings.TrimSpace(shippingAddress),
			TotalAmount:     decimal.Zero,
		}

		for _, key := range cart.SortedKeys(lines) {
			line := models.LineResult{ProductID: key, Quantity: lines[key]}
			outcome, item, err := o.price(ctx, tx, key, line.Quantity)
			if err != nil {
				return err
			}
			line.Outcome = outcome
			result.Lines = append(result.Lines, line)
			if outcome != models.LineAccepted {
				continue
			}
			order.Items = append(order.Items, *item)
			order.TotalAmount = order.TotalAmount.Add(item.Subtotal())
		}
		if len(order.Items) == 0 {
			return &NoValidItemsError{Lines: result.Lines}
		}

		if err := tx.CreateOrder(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		for _, it := range order.Items {
			if err := tx.DecrementStock(ctx, it.ProductID, it.Quantity); err != nil {
				if errors.Is(err, storage.ErrInsufficientStock) {
					return fmt.Errorf("%w (product %d)", ErrStockConflict, it.ProductID)
				}
				return fmt.Errorf("decrement stock: %w", err)
			}
		}
		result.Order = order
		return nil
	})
	if err != nil {
		var noItems *NoValidItemsError
		switch {
		case errors.As(err, &noItems):
			metrics.Checkouts.WithLabelValues(metrics.CheckoutNoValidItems).Inc()
			return nil, noItems
		case errors.Is(err, ErrStockConflict):
			metrics.Checkouts.WithLabelValues(metrics.CheckoutStockConflict).Inc()
			return nil, err
		default:
			metrics.Checkouts.WithLabelValues(metrics.CheckoutError).Inc()
			return nil, &StorageError{Op: "checkout", Err: err}
		}
	}

	metrics.Checkouts.WithLabelValues(metrics.CheckoutPlaced).Inc()
	for _, l := range result.Dropped() {
		metrics.DroppedCartLines.WithLabelValues(string(l.Outcome)).Inc()
	}
	if err := o.carts.Clear(ctx, session); err != nil {
		logger.Warn().Err(err).Int64("order_id", result.Order.ID).Msg("order placed but cart not cleared")
	}
	logger.Info().
		Int64("order_id", result.Order.ID).
		Int64("user_id", userID).
		Str("total", result.Order.TotalAmount.StringFixed(2)).
		Int("dropped_lines", len(result.Dropped())).
		Msg("order placed")
	return result, nil
}

// price decides whether one cart line can be bought and snapshots its price.
func (o *Orders) price(ctx context.Context, tx storage.Tx, key string, qty int) (models.LineOutcome, *models.OrderItem, error) {
	id, err := cart.ParseProductID(key)
	if err != nil || qty < 1 {
		return models.LineInvalid, nil, nil
	}
	p, err := tx.LockProduct(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return models.LineNotFound, nil, nil
	}
	if err != nil {
		return "", nil, fmt.Errorf("load product %d: %w", id, err)
	}
	if p.Stock < qty {
		return models.LineInsufficientStock, nil, nil
	}
	return models.LineAccepted, &models.OrderItem{ProductID: p.ID, Quantity: qty, Price: p.Price}, nil
}

func (o *Orders) OrderHistory(ctx context.Context, userID int64) ([]models.Order, error) {
	orders, err := o.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, wrapStorage("order history", err)
	}
	return orders, nil
}

// GetOrder returns the order only to its owner.
func (o *Orders) GetOrder(ctx context.Context, userID, orderID int64) (*models.Order, error) {
	order, err := o.orders.Get(ctx, orderID)
	if err != nil {
		return nil, wrapStorage("get order", err)
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("get order: %w", ErrNotFound)
	}
	return order, nil
}
