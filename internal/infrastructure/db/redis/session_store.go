package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/campuskit/catalog-system/internal/core/domain"
)

const defaultSessionTTL = 24 * time.Hour

// SessionStore keeps per-visitor principal projections in Redis, keyed by an
// opaque session id. Key format: session:<id>. Entries expire after the TTL;
// logout deletes them eagerly.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore creates a SessionStore wrapping the given Redis client.
// If ttl <= 0, defaultSessionTTL is used.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionStore{client: client, ttl: ttl}
}

// Put stores the principal projection under the session id.
func (s *SessionStore) Put(ctx context.Context, sessionID string, p domain.Principal) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("session put: marshal principal: %w", err)
	}
	if err := s.client.Set(ctx, s.key(sessionID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("session put: %w", err)
	}
	return nil
}

// Get resolves the principal for a session id. An unknown or expired session
// returns (nil, nil): no principal means anonymous, not an error.
func (s *SessionStore) Get(ctx context.Context, sessionID string) (*domain.Principal, error) {
	payload, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("session get: %w", err)
	}

	var p domain.Principal
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("session get: unmarshal principal: %w", err)
	}
	return &p, nil
}

// Delete invalidates the session. Deleting an absent key is not an error.
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}

func (s *SessionStore) key(sessionID string) string {
	return "session:" + sessionID
}
