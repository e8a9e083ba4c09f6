package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ItemStore defines persistence operations for marketplace listings.
type ItemStore interface {
	Create(ctx context.Context, item Item) (Item, error)
	GetByID(ctx context.Context, id uuid.UUID) (Item, error)
	List(ctx context.Context) ([]Item, error)
	Update(ctx context.Context, item Item) (Item, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Item represents a marketplace listing.
type Item struct {
	ID          uuid.UUID `json:"id"`
	OwnerEmail  string    `json:"owner_email"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"price_cents"`
	ImageURL    *string   `json:"image_url,omitempty"`
	ImageKey    *string   `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
