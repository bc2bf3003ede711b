package domain

import (
	"github.com/kiwistore/kiwi/internal/errors"
)

// Inventory errors.
var (
	// ErrObjectNotFound indicates no object exists with the given id.
	ErrObjectNotFound = errors.Wrap(errors.ErrNotFound, "object not found")

	// ErrLocationNotFound indicates no location exists with the given id.
	ErrLocationNotFound = errors.Wrap(errors.ErrNotFound, "location not found")
)
