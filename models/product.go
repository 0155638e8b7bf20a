package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	ImageURL    *string         `json:"image_url,omitempty"`
	CategoryID  int64           `json:"category_id"`
	CreatedAt   time.Time       `json:"created_at"`
}

// SortKey orders a product listing.
type SortKey string

const (
	SortName      SortKey = "name"
	SortPriceLow  SortKey = "price_low"
	SortPriceHigh SortKey = "price_high"
	SortNewest    SortKey = "newest"
)

func (k SortKey) Valid() bool {
	switch k {
	case SortName, SortPriceLow, SortPriceHigh, SortNewest:
		return true
	}
	return false
}

// ProductFilter narrows a listing. Nil fields place no constraint.
type ProductFilter struct {
	CategoryID *int64
	Sort       SortKey
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
}

// Matches reports whether p satisfies the category and price bounds of f.
func (f ProductFilter) Matches(p Product) bool {
	if f.CategoryID != nil && p.CategoryID != *f.CategoryID {
		return false
	}
	if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
		return false
	}
	return true
}

// ProductInput carries the admin-editable fields of a product.
type ProductInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	ImageURL    *string         `json:"image_url,omitempty"`
	CategoryID  int64           `json:"category_id"`
}

type ProductDetail struct {
	Product Product  `json:"product"`
	Reviews []Review `json:"reviews"`
}
