package services

import (
	"errors"
	"fmt"
)

// Sentinel errors the API layer maps onto response status codes.
var (
	// ErrNotFound covers both records that do not exist and records owned by
	// another user, so callers cannot probe for foreign ids.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail signals a registration against an email that is
	// already taken.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrInvalidCredentials covers unknown email and wrong password alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError reports rejected input. Its message is safe to surface to
// the client.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
