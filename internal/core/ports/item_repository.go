package ports

import (
	"context"

	"github.com/campuskit/catalog-system/internal/core/domain"
)

// ItemRepository defines the persistence surface for catalog records.
type ItemRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Item, error)
	FindAll(ctx context.Context) ([]domain.Item, error)
	Create(ctx context.Context, name, description string, price float64) (int64, error)

	// Update replaces all mutable fields at once. Returns (false, nil) when
	// no record matches the id.
	Update(ctx context.Context, id int64, name, description string, price float64) (bool, error)

	Delete(ctx context.Context, id int64) (bool, error)

	// Search matches the name by case-insensitive substring.
	Search(ctx context.Context, query string) ([]domain.Item, error)
}
