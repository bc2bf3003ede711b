// Package errors defines the sentinel errors the rest of the application is
// built on. Use cases wrap these with context and HTTP handlers map them to
// status codes, so infrastructure failures never leak into responses.
package errors

import (
	"errors"
	"fmt"
)

// Sentinels shared by every module.
var (
	// ErrNotFound means the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict means the operation collides with existing data, such as a
	// duplicate key.
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput means the input failed validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized means the request carries no valid credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden means the authenticated principal lacks permission.
	ErrForbidden = errors.New("forbidden")
)

// New returns an error with the given message. Exists so callers can build
// errors without importing both this package and the standard library one.
func New(message string) error {
	return errors.New(message)
}

// Wrap adds context to err while keeping the sentinel reachable through
// errors.Is. Returns nil when err is nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
