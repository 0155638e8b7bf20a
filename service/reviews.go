package service

import (
	"context"
	"errors"
	"strings"

	"holoholo/models"
	"holoholo/storage"
)

type Reviews struct {
	reviews storage.Reviews
}

func NewReviews(reviews storage.Reviews) *Reviews {
	return &Reviews{reviews: reviews}
}

// AddReview records a review by userID. The rating is stored as given.
func (r *Reviews) AddReview(ctx context.Context, userID int64, req models.ReviewRequest) (*models.Review, error) {
	if req.ProductID <= 0 {
		return nil, invalid("product_id", "is required")
	}
	review := &models.Review{
		UserID:    userID,
		ProductID: req.ProductID,
		Rating:    req.Rating,
		Comment:   strings.TrimSpace(req.Comment),
	}
	if err := r.reviews.Create(ctx, review); err != nil {
		if errors.Is(err, storage.ErrForeignKey) {
			return nil, ErrNotFound
		}
		return nil, wrapStorage("create review", err)
	}
	return review, nil
}
