package repository

import (
	"context"
	"fmt"

	"poetrade/scraper/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ItemRepository mirrors fetched item records into a database, in addition
// to the JSON file output.
type ItemRepository interface {
	SaveItems(ctx context.Context, category string, items []domain.ItemRecord) error
}

type itemRepository struct {
	db *pgxpool.Pool
}

func NewItemRepository(db *pgxpool.Pool) ItemRepository {
	return &itemRepository{
		db: db,
	}
}

func (r *itemRepository) SaveItems(ctx context.Context, category string, items []domain.ItemRecord) error {
	query := `
	INSERT INTO trade_items (id, category, data)
	VALUES ($1, $2, $3)
	ON CONFLICT (id)
	DO UPDATE SET category = $2, data = $3`

	for _, item := range items {
		if item.ID == "" {
			continue
		}
		if _, err := r.db.Exec(ctx, query, item.ID, category, []byte(item.Raw)); err != nil {
			return fmt.Errorf("failed to save item %s: %w", item.ID, err)
		}
	}
	return nil
}

// NoopRepository is used when the database sink is disabled
type NoopRepository struct{}

func (NoopRepository) SaveItems(ctx context.Context, category string, items []domain.ItemRecord) error {
	return nil
}
