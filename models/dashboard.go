package models

import "github.com/shopspring/decimal"

type Dashboard struct {
	TotalProducts int64           `json:"total_products"`
	TotalOrders   int64           `json:"total_orders"`
	TotalUsers    int64           `json:"total_users"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	RecentOrders  []Order         `json:"recent_orders"`
}

type Home struct {
	Products   []Product  `json:"products"`
	Categories []Category `json:"categories"`
}

type ProductListing struct {
	Products   []Product  `json:"products"`
	Categories []Category `json:"categories"`
}

type OrderListing struct {
	Orders       []Order         `json:"orders"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

type SearchResult struct {
	Query    string    `json:"query"`
	Products []Product `json:"products"`
}
