package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/kindnet/kindnet-server/internal/model"
)

var _ model.ReviewStore = (*ReviewRepository)(nil)

type ReviewRepository struct {
	db *Connection
}

func NewReviewRepository(db *Connection) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Create(ctx context.Context, review model.Review) (model.Review, error) {
	query := `INSERT INTO reviews (id, item_id, reviewer_email, rating, comment, created_at)
			  VALUES ($1, $2, $3, $4, $5, NOW())
			  RETURNING id, item_id, reviewer_email, rating, comment, created_at`

	var saved model.Review
	err := r.db.QueryRow(ctx, query,
		review.ID, review.ItemID, review.ReviewerEmail, review.Rating, review.Comment,
	).Scan(&saved.ID, &saved.ItemID, &saved.ReviewerEmail, &saved.Rating, &saved.Comment, &saved.CreatedAt)
	if err != nil {
		return model.Review{}, fmt.Errorf("failed to create review: %w", err)
	}
	return saved, nil
}

func (r *ReviewRepository) ListByItem(ctx context.Context, itemID uuid.UUID) ([]model.Review, error) {
	query := `SELECT id, item_id, reviewer_email, rating, comment, created_at
			  FROM reviews WHERE item_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []model.Review
	for rows.Next() {
		var review model.Review
		if err := rows.Scan(&review.ID, &review.ItemID, &review.ReviewerEmail, &review.Rating, &review.Comment, &review.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reviews: %w", err)
	}
	return reviews, nil
}
