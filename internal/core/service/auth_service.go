package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/campuskit/catalog-system/internal/core/domain"
	"github.com/campuskit/catalog-system/internal/core/ports"
)

// AuthService implements registration and login on top of the user store.
type AuthService struct {
	repo ports.UserRepository
}

func NewAuthService(repo ports.UserRepository) *AuthService {
	return &AuthService{repo: repo}
}

// Login verifies credentials and returns the principal projection. Unknown
// usernames and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.Principal, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if !s.repo.VerifyPassword(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	return &domain.Principal{ID: user.ID, Username: user.Username, Role: user.Role}, nil
}

// Register creates an account with the role chosen on the registration form.
// The username pre-check is advisory; the store remains the final authority
// on uniqueness.
func (s *AuthService) Register(ctx context.Context, username, password string, role domain.Role) (int64, error) {
	if !role.Valid() {
		return 0, domain.NewValidationError(domain.FieldError{
			Field:   "role",
			Message: "role must be either admin or student",
		})
	}

	existing, err := s.repo.FindByUsername(ctx, username)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return 0, fmt.Errorf("register: check username: %w", err)
	}
	if existing != nil {
		return 0, domain.ErrUsernameTaken
	}

	id, err := s.repo.Create(ctx, username, password, role)
	if err != nil {
		return 0, fmt.Errorf("register: %w", err)
	}
	return id, nil
}
