package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound signals the requested catalog item does not exist.
var ErrNotFound = errors.New("catalog: item not found")

// PGRepository provides read access to catalog items stored in PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository wires a pgxpool-backed repository implementation.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const selectColumns = `
	id, title, author, rating, reviews, prompt_count, price, discount_price, image_url, category, tag
`

// GetByID fetches a catalog item by its primary key.
func (r *PGRepository) GetByID(ctx context.Context, id string) (Item, error) {
	query := `SELECT ` + selectColumns + ` FROM catalog_items WHERE id = $1`

	item, err := scanItem(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, ErrNotFound
		}
		return Item{}, fmt.Errorf("catalog: query by id: %w", err)
	}

	return item, nil
}

// List fetches up to limit items ordered by position, then title.
func (r *PGRepository) List(ctx context.Context, limit int) ([]Item, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	query := `SELECT ` + selectColumns + `
		FROM catalog_items
		ORDER BY position ASC, title ASC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("catalog: list: %w", err)
	}
	defer rows.Close()

	items := make([]Item, 0, limit)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("catalog: scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: iterate items: %w", err)
	}

	return items, nil
}

func scanItem(row pgx.Row) (Item, error) {
	var item Item
	err := row.Scan(
		&item.ID,
		&item.Title,
		&item.Author,
		&item.Rating,
		&item.Reviews,
		&item.PromptCount,
		&item.Price,
		&item.DiscountPrice,
		&item.Image,
		&item.Category,
		&item.Tag,
	)
	if err != nil {
		return Item{}, err
	}
	return item, nil
}

// StaticRepository serves a fixed, in-process item list.
type StaticRepository struct {
	items []Item
}

// NewStaticRepository builds a repository over items, kept in the given order.
func NewStaticRepository(items ...Item) *StaticRepository {
	cp := make([]Item, len(items))
	copy(cp, items)
	return &StaticRepository{items: cp}
}

// GetByID returns the item with the given id.
func (r *StaticRepository) GetByID(_ context.Context, id string) (Item, error) {
	for _, item := range r.items {
		if item.ID == id {
			return item, nil
		}
	}
	return Item{}, ErrNotFound
}

// List returns up to limit items.
func (r *StaticRepository) List(_ context.Context, limit int) ([]Item, error) {
	if limit <= 0 || limit > len(r.items) {
		limit = len(r.items)
	}
	out := make([]Item, limit)
	copy(out, r.items[:limit])
	return out, nil
}
