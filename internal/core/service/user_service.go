package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/campuskit/catalog-system/internal/core/domain"
	"github.com/campuskit/catalog-system/internal/core/ports"
)

// UserService implements admin-side account management.
type UserService struct {
	repo  ports.UserRepository
	audit ports.AuditSink
	log   zerolog.Logger
}

func NewUserService(repo ports.UserRepository, audit ports.AuditSink, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, audit: audit, log: log}
}

func (s *UserService) List(ctx context.Context) ([]domain.UserInfo, error) {
	return s.repo.FindAll(ctx)
}

func (s *UserService) Get(ctx context.Context, id int64) (*domain.UserInfo, error) {
	return s.repo.FindByID(ctx, id)
}

// Create adds an account. The username pre-check is advisory; the store
// raises ErrUsernameTaken itself if a concurrent insert wins the race.
func (s *UserService) Create(ctx context.Context, actor domain.Principal, username, password string, role domain.Role) (int64, error) {
	existing, err := s.repo.FindByUsername(ctx, username)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return 0, fmt.Errorf("create user: check username: %w", err)
	}
	if existing != nil {
		return 0, domain.ErrUsernameTaken
	}

	id, err := s.repo.Create(ctx, username, password, role)
	if err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}

	s.record(actor, "user", id, domain.AuditCreate)
	s.log.Info().Int64("user_id", id).Str("actor", actor.Username).Msg("user created")
	return id, nil
}

// Update applies a partial patch. Concurrent updates to the same record are
// last-write-wins; the storage engine decides the final state.
func (s *UserService) Update(ctx context.Context, actor domain.Principal, id int64, patch domain.UserPatch) error {
	found, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return fmt.Errorf("update user %d: %w", id, err)
	}
	if !found {
		return domain.ErrUserNotFound
	}

	s.record(actor, "user", id, domain.AuditUpdate)
	s.log.Info().Int64("user_id", id).Str("actor", actor.Username).Msg("user updated")
	return nil
}

// Delete removes an account. A principal may never delete its own record;
// the rejection happens here, before any storage call.
func (s *UserService) Delete(ctx context.Context, actor domain.Principal, id int64) error {
	if id == actor.ID {
		return domain.ErrSelfDeletion
	}

	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	if !found {
		return domain.ErrUserNotFound
	}

	s.record(actor, "user", id, domain.AuditDelete)
	s.log.Info().Int64("user_id", id).Str("actor", actor.Username).Msg("user deleted")
	return nil
}

func (s *UserService) record(actor domain.Principal, kind string, id int64, action domain.AuditAction) {
	if s.audit == nil {
		return
	}
	s.audit.Record(domain.AuditEvent{
		Kind:      kind,
		RecordID:  id,
		Action:    action,
		ActorID:   actor.ID,
		Actor:     actor.Username,
		Timestamp: time.Now().UTC(),
	})
}
