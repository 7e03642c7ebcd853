package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/campuskit/catalog-system/internal/core/domain"
)

// ItemRepository implements ports.ItemRepository on Postgres. Updates replace
// the whole record; last write wins on concurrent edits.
type ItemRepository struct {
	db  Querier
	log zerolog.Logger
}

func NewItemRepository(db Querier, log zerolog.Logger) *ItemRepository {
	return &ItemRepository{db: db, log: log}
}

func (r *ItemRepository) FindByID(ctx context.Context, id int64) (*domain.Item, error) {
	var it domain.Item
	err := r.db.QueryRow(ctx,
		`SELECT id, name, description, price FROM items WHERE id = $1`,
		id,
	).Scan(&it.ID, &it.Name, &it.Description, &it.Price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrItemNotFound
		}
		r.log.Error().Err(err).Int64("id", id).Msg("find item failed")
		return nil, storageErr("find item", err)
	}
	return &it, nil
}

func (r *ItemRepository) FindAll(ctx context.Context) ([]domain.Item, error) {
	return r.queryItems(ctx, `SELECT id, name, description, price FROM items ORDER BY id`)
}

// Search matches item names by case-insensitive substring.
func (r *ItemRepository) Search(ctx context.Context, query string) ([]domain.Item, error) {
	return r.queryItems(ctx,
		`SELECT id, name, description, price FROM items WHERE name ILIKE '%' || $1 || '%' ORDER BY id`,
		query,
	)
}

func (r *ItemRepository) queryItems(ctx context.Context, sql string, args ...any) ([]domain.Item, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		r.log.Error().Err(err).Msg("query items failed")
		return nil, storageErr("query items", err)
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		var it domain.Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Description, &it.Price); err != nil {
			return nil, storageErr("scan item row", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate item rows", err)
	}
	return items, nil
}

func (r *ItemRepository) Create(ctx context.Context, name, description string, price float64) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO items (name, description, price) VALUES ($1, $2, $3) RETURNING id`,
		name, description, price,
	).Scan(&id)
	if err != nil {
		r.log.Error().Err(err).Str("name", name).Msg("insert item failed")
		return 0, storageErr("insert item", err)
	}
	return id, nil
}

func (r *ItemRepository) Update(ctx context.Context, id int64, name, description string, price float64) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE items SET name = $1, description = $2, price = $3 WHERE id = $4`,
		name, description, price, id,
	)
	if err != nil {
		r.log.Error().Err(err).Int64("id", id).Msg("update item failed")
		return false, storageErr("update item", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *ItemRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		r.log.Error().Err(err).Int64("id", id).Msg("delete item failed")
		return false, storageErr("delete item", err)
	}
	return tag.RowsAffected() > 0, nil
}
