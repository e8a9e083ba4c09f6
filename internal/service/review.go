package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/kindnet/kindnet-server/internal/apierrors"
	"github.com/kindnet/kindnet-server/internal/logger"
	"github.com/kindnet/kindnet-server/internal/model"
)

// Review manages listing reviews. A reviewer may not review their own item.
type Review struct {
	reviews model.ReviewStore
	items   model.ItemStore
	logger  *logger.Logger
}

func NewReview(reviews model.ReviewStore, items model.ItemStore, logger *logger.Logger) *Review {
	return &Review{
		reviews: reviews,
		items:   items,
		logger:  logger,
	}
}

// ReviewParams carries validated review input.
type ReviewParams struct {
	Rating  int
	Comment string
}

func (s *Review) Create(ctx context.Context, reviewerEmail string, itemID uuid.UUID, params ReviewParams) (model.Review, error) {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Review{}, apierrors.NewNotFound("item not found")
		}
		s.logger.Error("Review service: failed to get item",
			"item_id", itemID,
			"error", err.Error())
		return model.Review{}, fmt.Errorf("failed to get item: %w", err)
	}

	reviewerEmail = NormalizeEmail(reviewerEmail)
	if item.OwnerEmail == reviewerEmail {
		return model.Review{}, apierrors.NewValidation("cannot review your own item")
	}

	saved, err := s.reviews.Create(ctx, model.Review{
		ID:            uuid.New(),
		ItemID:        itemID,
		ReviewerEmail: reviewerEmail,
		Rating:        params.Rating,
		Comment:       params.Comment,
	})
	if err != nil {
		s.logger.Error("Review service: failed to create review",
			"item_id", itemID,
			"error", err.Error())
		return model.Review{}, fmt.Errorf("failed to create review: %w", err)
	}

	s.logger.Info("Review service: review created",
		"item_id", itemID,
		"review_id", saved.ID)
	return saved, nil
}

func (s *Review) ListByItem(ctx context.Context, itemID uuid.UUID) ([]model.Review, error) {
	if _, err := s.items.GetByID(ctx, itemID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, apierrors.NewNotFound("item not found")
		}
		s.logger.Error("Review service: failed to get item",
			"item_id", itemID,
			"error", err.Error())
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	reviews, err := s.reviews.ListByItem(ctx, itemID)
	if err != nil {
		s.logger.Error("Review service: failed to list reviews",
			"item_id", itemID,
			"error", err.Error())
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}
