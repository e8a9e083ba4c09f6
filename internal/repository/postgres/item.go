package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/kindnet/kindnet-server/internal/model"
)

var _ model.ItemStore = (*ItemRepository)(nil)

type ItemRepository struct {
	db *Connection
}

func NewItemRepository(db *Connection) *ItemRepository {
	return &ItemRepository{db: db}
}

const itemColumns = `id, owner_email, title, description, price_cents, image_url, image_key, created_at, updated_at`

func scanItem(row pgx.Row) (model.Item, error) {
	var item model.Item
	err := row.Scan(
		&item.ID, &item.OwnerEmail, &item.Title, &item.Description,
		&item.PriceCents, &item.ImageURL, &item.ImageKey,
		&item.CreatedAt, &item.UpdatedAt,
	)
	return item, err
}

func (r *ItemRepository) Create(ctx context.Context, item model.Item) (model.Item, error) {
	query := `INSERT INTO items (id, owner_email, title, description, price_cents, image_url, image_key, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
			  RETURNING ` + itemColumns

	saved, err := scanItem(r.db.QueryRow(ctx, query,
		item.ID, item.OwnerEmail, item.Title, item.Description,
		item.PriceCents, item.ImageURL, item.ImageKey,
	))
	if err != nil {
		return model.Item{}, fmt.Errorf("failed to create item: %w", err)
	}
	return saved, nil
}

func (r *ItemRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`

	item, err := scanItem(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Item{}, model.ErrNotFound
		}
		return model.Item{}, fmt.Errorf("failed to get item by id: %w", err)
	}
	return item, nil
}

func (r *ItemRepository) List(ctx context.Context) ([]model.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}
	return items, nil
}

func (r *ItemRepository) Update(ctx context.Context, item model.Item) (model.Item, error) {
	query := `UPDATE items
			  SET title = $2, description = $3, price_cents = $4, image_url = $5, image_key = $6, updated_at = NOW()
			  WHERE id = $1
			  RETURNING ` + itemColumns

	saved, err := scanItem(r.db.QueryRow(ctx, query,
		item.ID, item.Title, item.Description, item.PriceCents, item.ImageURL, item.ImageKey,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Item{}, model.ErrNotFound
		}
		return model.Item{}, fmt.Errorf("failed to update item: %w", err)
	}
	return saved, nil
}

func (r *ItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
