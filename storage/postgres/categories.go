package postgres

import (
	"context"
	"database/sql"

	"holoholo/models"
)

var errNoRows = sql.ErrNoRows

type CategoryRepo struct {
	q querier
}

func (r *CategoryRepo) Create(ctx context.Context, c *models.Category) error {
	err := r.q.QueryRowContext(ctx, `
		INSERT INTO categories (name, description) VALUES ($1, NULLIF($2, ''))
		RETURNING id
	`, c.Name, c.Description).Scan(&c.ID)
	return mapError(err)
}

func (r *CategoryRepo) List(ctx context.Context) ([]models.Category, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, name, COALESCE(description, '') FROM categories ORDER BY id
	`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	cats := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, mapError(err)
		}
		cats = append(cats, c)
	}
	return cats, mapError(rows.Err())
}

func (r *CategoryRepo) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.q, "categories")
}
