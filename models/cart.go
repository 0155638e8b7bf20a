package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Cart maps a product id to the requested quantity.
type Cart map[string]int

type CartLine struct {
	Product  Product         `json:"product"`
	Quantity int             `json:"quantity"`
	Total    decimal.Decimal `json:"total"`
}

type CartView struct {
	Items []CartLine      `json:"cart_items"`
	Total decimal.Decimal `json:"total"`
}

// CartRequest accepts the product id as a JSON number or numeric string.
type CartRequest struct {
	ProductID json.Number `json:"product_id"`
	Quantity  *int        `json:"quantity,omitempty"`
}
