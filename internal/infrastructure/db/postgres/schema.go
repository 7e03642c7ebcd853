package postgres

import (
	"context"
	"fmt"
	"time"
)

// schema is applied at startup. Statements are idempotent so restarts are
// harmless. The unique index on username is the final authority behind the
// validation layer's advisory check.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGSERIAL PRIMARY KEY,
		username      VARCHAR(50) NOT NULL UNIQUE,
		password_hash TEXT        NOT NULL,
		role          VARCHAR(16) NOT NULL CHECK (role IN ('admin', 'student'))
	)`,
	`CREATE TABLE IF NOT EXISTS items (
		id          BIGSERIAL PRIMARY KEY,
		name        VARCHAR(100)  NOT NULL,
		description TEXT          NOT NULL DEFAULT '',
		price       NUMERIC(12,2) NOT NULL CHECK (price >= 0)
	)`,
	`CREATE TABLE IF NOT EXISTS audit_log (
		id        BIGSERIAL PRIMARY KEY,
		kind      VARCHAR(16) NOT NULL,
		record_id BIGINT      NOT NULL,
		action    VARCHAR(16) NOT NULL,
		actor_id  BIGINT      NOT NULL,
		actor     VARCHAR(50) NOT NULL,
		ts        TIMESTAMPTZ NOT NULL
	)`,
}

// Migrate creates the tables this service owns.
func Migrate(ctx context.Context, db Querier) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	for _, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
