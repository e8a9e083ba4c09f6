package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ReviewStore defines persistence operations for item reviews.
type ReviewStore interface {
	Create(ctx context.Context, review Review) (Review, error)
	ListByItem(ctx context.Context, itemID uuid.UUID) ([]Review, error)
}

// Review represents feedback left on a listing.
type Review struct {
	ID            uuid.UUID `json:"id"`
	ItemID        uuid.UUID `json:"item_id"`
	ReviewerEmail string    `json:"reviewer_email"`
	Rating        int       `json:"rating"`
	Comment       string    `json:"comment"`
	CreatedAt     time.Time `json:"created_at"`
}
