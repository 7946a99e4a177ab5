package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNoteNotFound          = errors.New("note not found")
	ErrUserNotFound          = errors.New("user not found")
	ErrSessionNotFound       = errors.New("session not found")
	ErrNotOwner              = errors.New("note does not belong to user")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrUsernameTaken         = errors.New("username already exists")
	ErrStoreUnavailable      = errors.New("store unavailable")
	ErrSuggestionUnavailable = errors.New("suggestion service unavailable")
)

// ValidationError reports an input that failed a schema constraint.
// No persistence is attempted once one is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func NewValidation(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
