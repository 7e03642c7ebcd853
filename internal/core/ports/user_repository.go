package ports

import (
	"context"

	"github.com/campuskit/catalog-system/internal/core/domain"
)

// UserRepository defines the persistence surface for account records.
//
// Mutating calls return (false, nil) when no record matches the id; only
// infrastructure failures produce a non-nil error.
type UserRepository interface {
	// FindByUsername returns the full record including the password hash.
	// Reserved for login and uniqueness pre-checks.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)

	// FindByID returns the hash-free projection.
	FindByID(ctx context.Context, id int64) (*domain.UserInfo, error)

	FindAll(ctx context.Context) ([]domain.UserInfo, error)

	// Create hashes rawPassword before persisting and returns the generated
	// id. Returns domain.ErrUsernameTaken on a uniqueness violation.
	Create(ctx context.Context, username, rawPassword string, role domain.Role) (int64, error)

	// Update applies only the supplied patch fields. An empty patch returns
	// (false, nil) without touching storage.
	Update(ctx context.Context, id int64, patch domain.UserPatch) (bool, error)

	// Delete is unconditional; the self-deletion rule lives above this layer.
	Delete(ctx context.Context, id int64) (bool, error)

	// VerifyPassword compares the raw secret against a stored hash using the
	// hash function's own verification primitive.
	VerifyPassword(raw, hash string) bool
}
