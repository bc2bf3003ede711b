package domain

import (
	"github.com/kiwistore/kiwi/internal/errors"
)

// Authentication and provisioning errors.
var (
	// ErrUserNotFound indicates no user exists with the given username.
	ErrUserNotFound = errors.Wrap(errors.ErrNotFound, "user not found")

	// ErrClientNotFound indicates no app client exists with the given client id.
	ErrClientNotFound = errors.Wrap(errors.ErrNotFound, "app client not found")

	// ErrRoleNotFound indicates no role exists with the given name.
	ErrRoleNotFound = errors.Wrap(errors.ErrNotFound, "role not found")
)
