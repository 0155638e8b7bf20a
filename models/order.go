package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type Order struct {
	ID              int64           `json:"id"`
	UserID          int64           `json:"user_id"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Status          OrderStatus     `json:"status"`
	ShippingAddress string          `json:"shipping_address"`
	CreatedAt       time.Time       `json:"created_at"`
	Items           []OrderItem     `json:"items"`
}

// OrderItem is a line of an order. Price is the unit price at purchase time.
type OrderItem struct {
	ID        int64           `json:"id"`
	OrderID   int64           `json:"order_id"`
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type CheckoutRequest struct {
	ShippingAddress string `json:"shipping_address"`
}

type OrderStatusRequest struct {
	Status OrderStatus `json:"status"`
}

// LineOutcome says what checkout did with one cart entry.
type LineOutcome string

const (
	LineAccepted          LineOutcome = "accepted"
	LineNotFound          LineOutcome = "not_found"
	LineInsufficientStock LineOutcome = "insufficient_stock"
	LineInvalid           LineOutcome = "invalid"
)

type LineResult struct {
	ProductID string      `json:"product_id"`
	Quantity  int         `json:"quantity"`
	Outcome   LineOutcome `json:"outcome"`
}

type CheckoutResult struct {
	Order *Order       `json:"order"`
	Lines []LineResult `json:"lines"`
}

// Dropped returns the lines checkout left out of the order.
func (r *CheckoutResult) Dropped() []LineResult {
	var out []LineResult
	for _, l := range r.Lines {
		if l.Outcome != LineAccepted {
			out = append(out, l)
		}
	}
	return out
}
