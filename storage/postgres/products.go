package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"holoholo/models"
	"holoholo/storage"
)

type ProductRepo struct {
	q querier
}

const productColumns = `id, name, COALESCE(description, ''), price, stock, image_url, category_id, created_at`

var sortClauses = map[models.SortKey]string{
	models.SortName:      "name ASC, id ASC",
	models.SortPriceLow:  "price ASC, id ASC",
	models.SortPriceHigh: "price DESC, id ASC",
	models.SortNewest:    "created_at DESC, id DESC",
}

func scanProduct(row interface{ Scan(...any) error }) (*models.Product, error) {
	var (
		p   models.Product
		img sql.NullString
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &img, &p.CategoryID, &p.CreatedAt); err != nil {
		return nil, mapError(err)
	}
	if img.Valid {
		p.ImageURL = &img.String
	}
	return &p, nil
}

func (r *ProductRepo) collect(ctx context.Context, query string, args ...any) ([]models.Product, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, mapError(rows.Err())
}

func (r *ProductRepo) Create(ctx context.Context, p *models.Product) error {
	err := r.q.QueryRowContext(ctx, `
		INSERT INTO products (name, description, price, stock, image_url, category_id)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6)
		RETURNING id, created_at
	`, p.Name, p.Description, p.Price, p.Stock, p.ImageURL, p.CategoryID).Scan(&p.ID, &p.CreatedAt)
	return mapError(err)
}

func (r *ProductRepo) Update(ctx context.Context, p *models.Product) error {
	return execOne(ctx, r.q, `
		UPDATE products
		SET name = $1, description = NULLIF($2, ''), price = $3, stock = $4, image_url = $5, category_id = $6
		WHERE id = $7
	`, p.Name, p.Description, p.Price, p.Stock, p.ImageURL, p.CategoryID, p.ID)
}

func (r *ProductRepo) Get(ctx context.Context, id int64) (*models.Product, error) {
	return scanProduct(r.q.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
}

func (r *ProductRepo) getForUpdate(ctx context.Context, id int64) (*models.Product, error) {
	return scanProduct(r.q.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id))
}

func (r *ProductRepo) decrementStock(ctx context.Context, id int64, qty int) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE products SET stock = stock - $1 WHERE id = $2 AND stock >= $1
	`, qty, id)
	if err != nil {
		return mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("product %d: %w", id, storage.ErrInsufficientStock)
	}
	return nil
}

func (r *ProductRepo) List(ctx context.Context, f models.ProductFilter) ([]models.Product, error) {
	query, args := buildListQuery(f)
	return r.collect(ctx, query, args...)
}

func (r *ProductRepo) Limit(ctx context.Context, n int) ([]models.Product, error) {
	return r.collect(ctx, `SELECT `+productColumns+` FROM products ORDER BY id LIMIT $1`, n)
}

// SearchByName matches a substring of the name, ignoring case.
func (r *ProductRepo) SearchByName(ctx context.Context, text string) ([]models.Product, error) {
	return r.collect(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE name ILIKE $1 ESCAPE '\'
		ORDER BY name ASC, id ASC
	`, "%"+escapeLike(text)+"%")
}

func (r *ProductRepo) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.q, "products")
}

func buildListQuery(f models.ProductFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.CategoryID != nil {
		args = append(args, *f.CategoryID)
		conds = append(conds, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if f.MinPrice != nil {
		args = append(args, *f.MinPrice)
		conds = append(conds, fmt.Sprintf("price >= $%d", len(args)))
	}
	if f.MaxPrice != nil {
		args = append(args, *f.MaxPrice)
		conds = append(conds, fmt.Sprintf("price <= $%d", len(args)))
	}

	var b strings.Builder
	b.WriteString(`SELECT ` + productColumns + ` FROM products`)
	if len(conds) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conds, " AND "))
	}
	order, ok := sortClauses[f.Sort]
	if !ok {
		order = sortClauses[models.SortName]
	}
	b.WriteString(" ORDER BY " + order)
	return b.String(), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
