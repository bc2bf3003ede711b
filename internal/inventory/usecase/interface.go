// Package usecase implements inventory business logic. Unlike the auth use
// cases, operations here return plain errors built on the shared sentinels;
// handlers map them to HTTP status codes.
package usecase

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/kiwistore/kiwi/internal/inventory/domain"
)

// ObjectRepository defines persistence operations for inventory objects.
type ObjectRepository interface {
	// Create inserts a new object. A dangling location reference yields
	// domain.ErrLocationNotFound.
	Create(ctx context.Context, object *domain.Object) error

	// GetByID returns the object or domain.ErrObjectNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Object, error)

	// Move changes the object's current location.
	Move(ctx context.Context, objectID, locationID uuid.UUID) error

	// UpdateTags replaces the object's tag set.
	UpdateTags(ctx context.Context, objectID uuid.UUID, tags []string) error

	// UpdateText updates the object's name and description.
	UpdateText(ctx context.Context, objectID uuid.UUID, name, description string) error

	// UpdateMetadata replaces the object's metadata document.
	UpdateMetadata(ctx context.Context, objectID uuid.UUID, metadata []byte) error

	// Search runs ranked full-text search.
	Search(
		ctx context.Context,
		q string,
		tags []string,
		locationID *uuid.UUID,
		limit int,
	) ([]domain.SearchItem, error)

	// FuzzySearch runs trigram-similarity lookup over object names.
	FuzzySearch(ctx context.Context, q string, limit int) ([]domain.FuzzyItem, error)
}

// LocationRepository defines persistence operations for locations.
type LocationRepository interface {
	// Create inserts a new location. A dangling parent reference yields
	// domain.ErrLocationNotFound.
	Create(ctx context.Context, location *domain.Location) error

	// GetByID returns the location or domain.ErrLocationNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Location, error)

	// Exists reports whether the location is present.
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// CreateObjectInput carries the fields needed to register a new object.
type CreateObjectInput struct {
	Name        string
	Description string
	Type        string
	Tags        []string
	Metadata    json.RawMessage
	LocationID  *uuid.UUID
}

// ObjectUseCase defines object operations.
type ObjectUseCase interface {
	CreateObject(ctx context.Context, input CreateObjectInput) (*domain.Object, error)
	GetObject(ctx context.Context, id uuid.UUID) (*domain.Object, error)
	MoveObject(ctx context.Context, objectID, locationID uuid.UUID) error
	UpdateTags(ctx context.Context, objectID uuid.UUID, tags []string) error
	UpdateText(ctx context.Context, objectID uuid.UUID, name, description string) error
	UpdateMetadata(ctx context.Context, objectID uuid.UUID, metadata json.RawMessage) error
	Search(
		ctx context.Context,
		q string,
		tags []string,
		locationID *uuid.UUID,
		limit int,
	) ([]domain.SearchItem, error)
	FuzzySearch(ctx context.Context, q string, limit int) ([]domain.FuzzyItem, error)
}

// LocationUseCase defines location operations.
type LocationUseCase interface {
	CreateLocation(ctx context.Context, name string, parentID *uuid.UUID) (*domain.Location, error)
	GetLocation(ctx context.Context, id uuid.UUID) (*domain.Location, error)
}
