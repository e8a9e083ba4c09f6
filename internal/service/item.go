package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/kindnet/kindnet-server/internal/apierrors"
	"github.com/kindnet/kindnet-server/internal/logger"
	"github.com/kindnet/kindnet-server/internal/model"
)

// Item manages marketplace listings. Mutations are owner-checked.
type Item struct {
	items   model.ItemStore
	storage model.ObjectStorage
	logger  *logger.Logger
}

func NewItem(items model.ItemStore, storage model.ObjectStorage, logger *logger.Logger) *Item {
	return &Item{
		items:   items,
		storage: storage,
		logger:  logger,
	}
}

// ItemParams carries validated listing input.
type ItemParams struct {
	Title       string
	Description string
	PriceCents  int64
}

// ItemImage is an optional image attachment for a listing.
type ItemImage struct {
	Reader      io.Reader
	Size        int64
	ContentType string
}

func (s *Item) Create(ctx context.Context, ownerEmail string, params ItemParams, image *ItemImage) (model.Item, error) {
	item := model.Item{
		ID:          uuid.New(),
		OwnerEmail:  NormalizeEmail(ownerEmail),
		Title:       params.Title,
		Description: params.Description,
		PriceCents:  params.PriceCents,
	}

	if image != nil {
		key := "items/" + item.ID.String()
		imageURL, err := s.storage.Upload(ctx, key, image.Reader, image.Size, image.ContentType)
		if err != nil {
			s.logger.Error("Item service: failed to upload image",
				"item_id", item.ID,
				"error", err.Error())
			return model.Item{}, fmt.Errorf("failed to upload image: %w", err)
		}
		item.ImageURL = &imageURL
		item.ImageKey = &key
	}

	saved, err := s.items.Create(ctx, item)
	if err != nil {
		s.logger.Error("Item service: failed to create item",
			"owner", item.OwnerEmail,
			"error", err.Error())
		return model.Item{}, fmt.Errorf("failed to create item: %w", err)
	}

	s.logger.Info("Item service: item created",
		"item_id", saved.ID,
		"owner", saved.OwnerEmail)
	return saved, nil
}

func (s *Item) Get(ctx context.Context, id uuid.UUID) (model.Item, error) {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Item{}, apierrors.NewNotFound("item not found")
		}
		s.logger.Error("Item service: failed to get item",
			"item_id", id,
			"error", err.Error())
		return model.Item{}, fmt.Errorf("failed to get item: %w", err)
	}
	return item, nil
}

func (s *Item) List(ctx context.Context) ([]model.Item, error) {
	items, err := s.items.List(ctx)
	if err != nil {
		s.logger.Error("Item service: failed to list items",
			"error", err.Error())
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

// Update replaces the mutable fields of a listing. Only the owner may
// update it.
func (s *Item) Update(ctx context.Context, requesterEmail string, id uuid.UUID, params ItemParams) (model.Item, error) {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Item{}, apierrors.NewNotFound("item not found")
		}
		s.logger.Error("Item service: failed to get item",
			"item_id", id,
			"error", err.Error())
		return model.Item{}, fmt.Errorf("failed to get item: %w", err)
	}

	if item.OwnerEmail != NormalizeEmail(requesterEmail) {
		return model.Item{}, apierrors.NewForbidden("not the item owner")
	}

	item.Title = params.Title
	item.Description = params.Description
	item.PriceCents = params.PriceCents

	saved, err := s.items.Update(ctx, item)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Item{}, apierrors.NewNotFound("item not found")
		}
		s.logger.Error("Item service: failed to update item",
			"item_id", id,
			"error", err.Error())
		return model.Item{}, fmt.Errorf("failed to update item: %w", err)
	}

	s.logger.Info("Item service: item updated",
		"item_id", id)
	return saved, nil
}

// Delete removes a listing and its stored image. Only the owner may delete
// it.
func (s *Item) Delete(ctx context.Context, requesterEmail string, id uuid.UUID) error {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return apierrors.NewNotFound("item not found")
		}
		s.logger.Error("Item service: failed to get item",
			"item_id", id,
			"error", err.Error())
		return fmt.Errorf("failed to get item: %w", err)
	}

	if item.OwnerEmail != NormalizeEmail(requesterEmail) {
		return apierrors.NewForbidden("not the item owner")
	}

	if err := s.items.Delete(ctx, id); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return apierrors.NewNotFound("item not found")
		}
		s.logger.Error("Item service: failed to delete item",
			"item_id", id,
			"error", err.Error())
		return fmt.Errorf("failed to delete item: %w", err)
	}

	if item.ImageKey != nil {
		if err := s.storage.Delete(ctx, *item.ImageKey); err != nil {
			s.logger.Error("Item service: failed to delete item image",
				"item_id", id,
				"key", *item.ImageKey,
				"error", err.Error())
		}
	}

	s.logger.Info("Item service: item deleted",
		"item_id", id)
	return nil
}
