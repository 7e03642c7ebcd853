package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors forming the failure taxonomy. The API boundary maps each
// to a status code and presentation; the core never chooses a format.
var (
	// ErrUnauthenticated: no principal resolved. Recoverable — the caller
	// re-prompts for credentials.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrForbidden: a principal exists but its role does not satisfy the
	// requirement. Terminal for the request.
	ErrForbidden = errors.New("access forbidden")

	// ErrSelfDeletion: a principal attempted to delete its own account.
	// Forbidden-class, but reported distinctly from role denial.
	ErrSelfDeletion = errors.New("cannot delete own account")

	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrItemNotFound       = errors.New("item not found")

	// ErrUsernameTaken: uniqueness violation. The validation layer's
	// pre-check is advisory; the store raises this as the final authority.
	ErrUsernameTaken = errors.New("username already exists")

	// ErrStorageUnavailable: storage connectivity failure. Surfaced to the
	// end caller as a generic server error, logged with full context.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// FieldError is a single validation failure attributed to one input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every field failure of one submission so callers
// can report all problems in a single round-trip.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, fe := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// NewValidationError builds a ValidationError from field failures.
func NewValidationError(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}
