package ports

import (
	"context"

	"github.com/campuskit/catalog-system/internal/core/domain"
)

// SessionStore persists the per-visitor principal projection keyed by an
// opaque session id. Get never mutates; Delete is idempotent.
type SessionStore interface {
	Put(ctx context.Context, sessionID string, p domain.Principal) error
	Get(ctx context.Context, sessionID string) (*domain.Principal, error)
	Delete(ctx context.Context, sessionID string) error
}
