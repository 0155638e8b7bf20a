package service

import (
	"context"
	"strings"

	"holoholo/models"
	"holoholo/storage"
)

const featuredLimit = 8

type Catalog struct {
	products   storage.Products
	categories storage.Categories
	reviews    storage.Reviews
}

func NewCatalog(products storage.Products, categories storage.Categories, reviews storage.Reviews) *Catalog {
	return &Catalog{products: products, categories: categories, reviews: reviews}
}

// ListProducts applies the category and inclusive price bounds of f and
// orders the result by f.Sort, name when empty.
func (c *Catalog) ListProducts(ctx context.Context, f models.ProductFilter) ([]models.Product, error) {
	if f.Sort == "" {
		f.Sort = models.SortName
	}
	if !f.Sort.Valid() {
		return nil, invalid("sort", "must be one of name, price_low, price_high, newest")
	}
	products, err := c.products.List(ctx, f)
	if err != nil {
		return nil, wrapStorage("list products", err)
	}
	return products, nil
}

func (c *Catalog) Listing(ctx context.Context, f models.ProductFilter) (*models.ProductListing, error) {
	products, err := c.ListProducts(ctx, f)
	if err != nil {
		return nil, err
	}
	cats, err := c.Categories(ctx)
	if err != nil {
		return nil, err
	}
	return &models.ProductListing{Products: products, Categories: cats}, nil
}

func (c *Catalog) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	p, err := c.products.Get(ctx, id)
	if err != nil {
		return nil, wrapStorage("get product", err)
	}
	return p, nil
}

// ProductDetail returns the product with its reviews, newest first.
func (c *Catalog) ProductDetail(ctx context.Context, id int64) (*models.ProductDetail, error) {
	p, err := c.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	reviews, err := c.reviews.ListByProduct(ctx, id)
	if err != nil {
		return nil, wrapStorage("list reviews", err)
	}
	return &models.ProductDetail{Product: *p, Reviews: reviews}, nil
}

// SearchProducts matches name substrings without regard to case. A blank
// query matches nothing.
func (c *Catalog) SearchProducts(ctx context.Context, text string) ([]models.Product, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []models.Product{}, nil
	}
	products, err := c.products.SearchByName(ctx, text)
	if err != nil {
		return nil, wrapStorage("search products", err)
	}
	return products, nil
}

func (c *Catalog) Featured(ctx context.Context) (*models.Home, error) {
	products, err := c.products.Limit(ctx, featuredLimit)
	if err != nil {
		return nil, wrapStorage("featured products", err)
	}
	cats, err := c.Categories(ctx)
	if err != nil {
		return nil, err
	}
	return &models.Home{Products: products, Categories: cats}, nil
}

func (c *Catalog) Categories(ctx context.Context) ([]models.Category, error) {
	cats, err := c.categories.List(ctx)
	if err != nil {
		return nil, wrapStorage("list categories", err)
	}
	return cats, nil
}
