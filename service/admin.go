package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"holoholo/auth"
	"holoholo/models"
	"holoholo/storage"
	"holoholo/validators"
)

const recentOrders = 5

type Admin struct {
	users      storage.Users
	categories storage.Categories
	products   storage.Products
	orders     storage.Orders
}

func NewAdmin(users storage.Users, categories storage.Categories, products storage.Products, orders storage.Orders) *Admin {
	return &Admin{users: users, categories: categories, products: products, orders: orders}
}

// For hands out the administrative operations to an admin caller only.
func (a *Admin) For(id *auth.Identity) (*AdminScope, error) {
	if id == nil {
		return nil, ErrUnauthenticated
	}
	if !id.IsAdmin() {
		return nil, ErrForbidden
	}
	return &AdminScope{admin: a, caller: id}, nil
}

// AdminScope is obtained through Admin.For.
type AdminScope struct {
	admin  *Admin
	caller *auth.Identity
}

func (s *AdminScope) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	a := s.admin
	var (
		d   models.Dashboard
		err error
	)
	if d.TotalProducts, err = a.products.Count(ctx); err != nil {
		return nil, wrapStorage("count products", err)
	}
	if d.TotalOrders, err = a.orders.Count(ctx); err != nil {
		return nil, wrapStorage("count orders", err)
	}
	if d.TotalUsers, err = a.users.Count(ctx); err != nil {
		return nil, wrapStorage("count users", err)
	}
	if d.TotalRevenue, err = a.orders.Revenue(ctx); err != nil {
		return nil, wrapStorage("revenue", err)
	}
	if d.RecentOrders, err = a.orders.Recent(ctx, recentOrders); err != nil {
		return nil, wrapStorage("recent orders", err)
	}
	return &d, nil
}

func (s *AdminScope) Products(ctx context.Context) (*models.ProductListing, error) {
	products, err := s.admin.products.List(ctx, models.ProductFilter{Sort: models.SortNewest})
	if err != nil {
		return nil, wrapStorage("list products", err)
	}
	cats, err := s.admin.categories.List(ctx)
	if err != nil {
		return nil, wrapStorage("list categories", err)
	}
	return &models.ProductListing{Products: products, Categories: cats}, nil
}

func (s *AdminScope) AddProduct(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	if err := validators.ValidateProduct(&in); err != nil {
		return nil, err
	}
	p := productFromInput(in)
	if err := s.admin.products.Create(ctx, p); err != nil {
		return nil, productError("create product", err)
	}
	zerolog.Ctx(ctx).Info().Int64("product_id", p.ID).Str("admin", s.caller.Username).Msg("product added")
	return p, nil
}

// UpdateProduct overwrites every editable field, stock included.
func (s *AdminScope) UpdateProduct(ctx context.Context, id int64, in models.ProductInput) (*models.Product, error) {
	if err := validators.ValidateProduct(&in); err != nil {
		return nil, err
	}
	p := productFromInput(in)
	p.ID = id
	if err := s.admin.products.Update(ctx, p); err != nil {
		return nil, productError("update product", err)
	}
	updated, err := s.admin.products.Get(ctx, id)
	if err != nil {
		return nil, wrapStorage("get product", err)
	}
	return updated, nil
}

func productFromInput(in models.ProductInput) *models.Product {
	return &models.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		Stock:       in.Stock,
		ImageURL:    in.ImageURL,
		CategoryID:  in.CategoryID,
	}
}

func productError(op string, err error) error {
	if errors.Is(err, storage.ErrForeignKey) {
		return invalid("category_id", "unknown category")
	}
	if errors.Is(err, storage.ErrCheck) {
		return invalid("product", "price and stock must not be negative")
	}
	return wrapStorage(op, err)
}

func (s *AdminScope) AddCategory(ctx context.Context, c models.Category) (*models.Category, error) {
	c.Name = strings.TrimSpace(c.Name)
	c.Description = strings.TrimSpace(c.Description)
	if err := validators.ValidateCategory(&c); err != nil {
		return nil, err
	}
	if err := s.admin.categories.Create(ctx, &c); err != nil {
		return nil, wrapStorage("create category", err)
	}
	return &c, nil
}

func (s *AdminScope) Orders(ctx context.Context) (*models.OrderListing, error) {
	orders, err := s.admin.orders.List(ctx)
	if err != nil {
		return nil, wrapStorage("list orders", err)
	}
	revenue, err := s.admin.orders.Revenue(ctx)
	if err != nil {
		return nil, wrapStorage("revenue", err)
	}
	return &models.OrderListing{Orders: orders, TotalRevenue: revenue}, nil
}

func (s *AdminScope) UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) error {
	if !status.Valid() {
		return invalid("status", "unknown order status")
	}
	if err := s.admin.orders.UpdateStatus(ctx, id, status); err != nil {
		return wrapStorage("update order status", err)
	}
	zerolog.Ctx(ctx).Info().Int64("order_id", id).Str("status", string(status)).Str("admin", s.caller.Username).Msg("order status changed")
	return nil
}

func (s *AdminScope) Users(ctx context.Context) ([]models.User, error) {
	users, err := s.admin.users.List(ctx)
	if err != nil {
		return nil, wrapStorage("list users", err)
	}
	return users, nil
}
