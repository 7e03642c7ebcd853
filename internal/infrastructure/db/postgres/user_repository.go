package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/campuskit/catalog-system/internal/core/domain"
)

// UserRepository implements ports.UserRepository on Postgres. It owns the
// password hashing: raw secrets enter here and only bcrypt output is stored.
type UserRepository struct {
	db  Querier
	log zerolog.Logger
}

func NewUserRepository(db Querier, log zerolog.Logger) *UserRepository {
	return &UserRepository{db: db, log: log}
}

// FindByUsername returns the full record including the hash. Only the login
// and uniqueness paths may call this.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User
	err := r.db.QueryRow(ctx,
		`SELECT id, username, password_hash, role FROM users WHERE username = $1`,
		username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		r.log.Error().Err(err).Str("username", username).Msg("find user by username failed")
		return nil, storageErr("find user by username", err)
	}
	return &u, nil
}

// FindByID returns the hash-free projection.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.UserInfo, error) {
	var u domain.UserInfo
	err := r.db.QueryRow(ctx,
		`SELECT id, username, role FROM users WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Username, &u.Role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		r.log.Error().Err(err).Int64("id", id).Msg("find user by id failed")
		return nil, storageErr("find user by id", err)
	}
	return &u, nil
}

func (r *UserRepository) FindAll(ctx context.Context) ([]domain.UserInfo, error) {
	rows, err := r.db.Query(ctx, `SELECT id, username, role FROM users ORDER BY id`)
	if err != nil {
		r.log.Error().Err(err).Msg("list users failed")
		return nil, storageErr("list users", err)
	}
	defer rows.Close()

	var users []domain.UserInfo
	for rows.Next() {
		var u domain.UserInfo
		if err := rows.Scan(&u.ID, &u.Username, &u.Role); err != nil {
			return nil, storageErr("scan user row", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate user rows", err)
	}
	return users, nil
}

// Create hashes rawPassword and inserts the record, returning the generated
// id. The unique index is the final authority on username uniqueness; a
// conflicting concurrent insert surfaces as ErrUsernameTaken, never as a
// silent overwrite.
func (r *UserRepository) Create(ctx context.Context, username, rawPassword string, role domain.Role) (int64, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(rawPassword), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx,
		`INSERT INTO users (username, password_hash, role) VALUES ($1, $2, $3) RETURNING id`,
		username, string(hash), string(role),
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, domain.ErrUsernameTaken
		}
		r.log.Error().Err(err).Str("username", username).Msg("insert user failed")
		return 0, storageErr("insert user", err)
	}
	return id, nil
}

// Update applies only the supplied patch fields, assembling the SET list
// from a fixed set of column names. An empty patch is a no-op returning
// (false, nil) without a round-trip. Concurrent updates to the same row are
// last-write-wins; there is no version check.
func (r *UserRepository) Update(ctx context.Context, id int64, patch domain.UserPatch) (bool, error) {
	if patch.Empty() {
		return false, nil
	}

	sets := make([]string, 0, 3)
	args := make([]any, 0, 4)

	if patch.Username != nil {
		args = append(args, *patch.Username)
		sets = append(sets, fmt.Sprintf("username = $%d", len(args)))
	}
	if patch.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcrypt.DefaultCost)
		if err != nil {
			return false, fmt.Errorf("hash password: %w", err)
		}
		args = append(args, string(hash))
		sets = append(sets, fmt.Sprintf("password_hash = $%d", len(args)))
	}
	if patch.Role != nil {
		args = append(args, string(*patch.Role))
		sets = append(sets, fmt.Sprintf("role = $%d", len(args)))
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return false, domain.ErrUsernameTaken
		}
		r.log.Error().Err(err).Int64("id", id).Msg("update user failed")
		return false, storageErr("update user", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Delete is unconditional; the self-deletion prohibition is enforced by the
// caller before this runs.
func (r *UserRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		r.log.Error().Err(err).Int64("id", id).Msg("delete user failed")
		return false, storageErr("delete user", err)
	}
	return tag.RowsAffected() > 0, nil
}

// VerifyPassword uses bcrypt's own comparison, which does not short-circuit
// on prefix matches.
func (r *UserRepository) VerifyPassword(raw, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw)) == nil
}
