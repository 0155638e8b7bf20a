package postgres

import (
	"context"

	"holoholo/models"
)

type ReviewRepo struct {
	q querier
}

func (r *ReviewRepo) Create(ctx context.Context, rv *models.Review) error {
	err := r.q.QueryRowContext(ctx, `
		INSERT INTO reviews (rating, comment, user_id, product_id)
		VALUES ($1, NULLIF($2, ''), $3, $4)
		RETURNING id, created_at
	`, rv.Rating, rv.Comment, rv.UserID, rv.ProductID).Scan(&rv.ID, &rv.CreatedAt)
	return mapError(err)
}

func (r *ReviewRepo) ListByProduct(ctx context.Context, productID int64) ([]models.Review, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, rating, COALESCE(comment, ''), user_id, product_id, created_at
		FROM reviews
		WHERE product_id = $1
		ORDER BY created_at DESC, id DESC
	`, productID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		var rv models.Review
		if err := rows.Scan(&rv.ID, &rv.Rating, &rv.Comment, &rv.UserID, &rv.ProductID, &rv.CreatedAt); err != nil {
			return nil, mapError(err)
		}
		reviews = append(reviews, rv)
	}
	return reviews, mapError(rows.Err())
}
