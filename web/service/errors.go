package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers both a missing resource and one owned by another
	// user; callers cannot tell the two apart.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials is returned for unknown email and wrong
	// password alike, so login failures never reveal which one it was.
	ErrInvalidCredentials = errors.New("unable to login")

	// ErrInvalidToken covers bad signatures, malformed payloads and
	// revoked tokens.
	ErrInvalidToken = errors.New("invalid token")
)

// ValidationError rejects client input before anything is written.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func newValidationError(format string, a ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, a...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
