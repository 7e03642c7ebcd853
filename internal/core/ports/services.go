package ports

import (
	"context"

	"github.com/campuskit/catalog-system/internal/core/domain"
)

// AuthService implements credential verification and account registration.
type AuthService interface {
	// Login verifies credentials and returns the principal projection.
	// A missing user and a wrong password both yield ErrInvalidCredentials.
	Login(ctx context.Context, username, password string) (*domain.Principal, error)

	// Register creates an account with the role chosen at registration time.
	Register(ctx context.Context, username, password string, role domain.Role) (int64, error)
}

// UserService implements admin-side account management.
type UserService interface {
	List(ctx context.Context) ([]domain.UserInfo, error)
	Get(ctx context.Context, id int64) (*domain.UserInfo, error)
	Create(ctx context.Context, actor domain.Principal, username, password string, role domain.Role) (int64, error)
	Update(ctx context.Context, actor domain.Principal, id int64, patch domain.UserPatch) error
	// Delete rejects id == actor.ID with ErrSelfDeletion before any storage call.
	Delete(ctx context.Context, actor domain.Principal, id int64) error
}

// ItemService implements catalog management.
type ItemService interface {
	List(ctx context.Context) ([]domain.Item, error)
	Get(ctx context.Context, id int64) (*domain.Item, error)
	Create(ctx context.Context, actor domain.Principal, name, description string, price float64) (int64, error)
	Update(ctx context.Context, actor domain.Principal, id int64, name, description string, price float64) error
	Delete(ctx context.Context, actor domain.Principal, id int64) error
	Search(ctx context.Context, query string) ([]domain.Item, error)
}

// AuditSink receives mutation events. Implementations must not block the
// caller on persistence.
type AuditSink interface {
	Record(event domain.AuditEvent)
}

// AuditRepository appends audit events to durable storage.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
}
