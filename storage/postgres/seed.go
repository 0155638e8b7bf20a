package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"holoholo/models"
)

var sampleCategories = []models.Category{
	{Name: "Electronics", Description: "Electronic devices and gadgets"},
	{Name: "Clothing", Description: "Fashion and apparel"},
	{Name: "Books", Description: "Books and literature"},
	{Name: "Home & Garden", Description: "Home improvement and garden supplies"},
	{Name: "Sports", Description: "Sports equipment and accessories"},
}

type sampleProduct struct {
	name, description, price, image string
	stock                           int
	category                        int // index into sampleCategories
}

var sampleProducts = []sampleProduct{
	{"Smartphone X", "Latest smartphone with advanced features", "599.99", "smartphone", 50, 0},
	{"Laptop Pro", "High-performance laptop for professionals", "1299.99", "laptop", 25, 0},
	{"Wireless Headphones", "Premium wireless headphones with noise cancellation", "199.99", "headphones", 100, 0},
	{"Men's T-Shirt", "Comfortable cotton t-shirt", "24.99", "tshirt", 200, 1},
	{"Women's Dress", "Elegant summer dress", "89.99", "dress", 75, 1},
	{"Running Shoes", "Professional running shoes", "129.99", "shoes", 60, 4},
	{"Garden Tool Set", "Complete set of garden tools", "79.99", "tools", 40, 3},
	{"Programming Book", "Learn Python programming", "39.99", "book", 80, 2},
}

// SeedCatalog inserts the sample categories and products into an empty
// catalog. It does nothing when either table already has rows.
func (s *Store) SeedCatalog(ctx context.Context, imageBase string) (int, error) {
	n, err := s.Categories.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	n, err = s.Products.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	inserted := 0
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	cats := &CategoryRepo{q: tx}
	products := &ProductRepo{q: tx}
	ids := make([]int64, len(sampleCategories))
	for i, c := range sampleCategories {
		c := c
		if err := cats.Create(ctx, &c); err != nil {
			return 0, fmt.Errorf("seed category %q: %w", c.Name, err)
		}
		ids[i] = c.ID
	}
	for _, sp := range sampleProducts {
		img := fmt.Sprintf("%s/%s.jpg", imageBase, sp.image)
		p := models.Product{
			Name:        sp.name,
			Description: sp.description,
			Price:       decimal.RequireFromString(sp.price),
			Stock:       sp.stock,
			ImageURL:    &img,
			CategoryID:  ids[sp.category],
		}
		if err := products.Create(ctx, &p); err != nil {
			return 0, fmt.Errorf("seed product %q: %w", sp.name, err)
		}
		inserted++
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}
