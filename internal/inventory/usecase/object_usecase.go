package usecase

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/kiwistore/kiwi/internal/inventory/domain"
	"github.com/kiwistore/kiwi/internal/metrics"

	apperrors "github.com/kiwistore/kiwi/internal/errors"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 200
)

// objectUseCase implements ObjectUseCase.
type objectUseCase struct {
	objectRepo   ObjectRepository
	locationRepo LocationRepository
	logger       *slog.Logger
	metrics      metrics.BusinessMetrics
}

// NewObjectUseCase creates an ObjectUseCase.
func NewObjectUseCase(
	objectRepo ObjectRepository,
	locationRepo LocationRepository,
	logger *slog.Logger,
	businessMetrics metrics.BusinessMetrics,
) ObjectUseCase {
	if businessMetrics == nil {
		businessMetrics = metrics.NewNoOpBusinessMetrics()
	}
	return &objectUseCase{
		objectRepo:   objectRepo,
		locationRepo: locationRepo,
		logger:       logger,
		metrics:      businessMetrics,
	}
}

// CreateObject registers a new object. The initial location, when given, must
// already exist.
func (u *objectUseCase) CreateObject(
	ctx context.Context,
	input CreateObjectInput,
) (*domain.Object, error) {
	name := strings.TrimSpace(input.Name)
	objectType := strings.TrimSpace(input.Type)
	if name == "" || objectType == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "name and type are required")
	}
	if len(input.Metadata) > 0 && !json.Valid(input.Metadata) {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "metadata must be a valid JSON document")
	}

	if input.LocationID != nil {
		exists, err := u.locationRepo.Exists(ctx, *input.LocationID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, domain.ErrLocationNotFound
		}
	}

	object := &domain.Object{
		ID:                uuid.Must(uuid.NewV7()),
		Name:              name,
		Description:       strings.TrimSpace(input.Description),
		Type:              objectType,
		Status:            domain.StatusActive,
		Tags:              normalizeTags(input.Tags),
		Metadata:          input.Metadata,
		CurrentLocationID: input.LocationID,
	}

	if err := u.objectRepo.Create(ctx, object); err != nil {
		u.metrics.RecordOperation(ctx, "inventory", "object_create", "error")
		u.logger.Error("object create failed",
			slog.String("name", name),
			slog.Any("error", err),
		)
		return nil, err
	}

	u.metrics.RecordOperation(ctx, "inventory", "object_create", "success")
	u.logger.Info("object created",
		slog.String("object_id", object.ID.String()),
		slog.String("name", object.Name),
	)
	return object, nil
}

// GetObject returns the full object detail.
func (u *objectUseCase) GetObject(ctx context.Context, id uuid.UUID) (*domain.Object, error) {
	return u.objectRepo.GetByID(ctx, id)
}

// MoveObject relocates an object to a different location.
func (u *objectUseCase) MoveObject(ctx context.Context, objectID, locationID uuid.UUID) error {
	if err := u.objectRepo.Move(ctx, objectID, locationID); err != nil {
		status := "error"
		if apperrors.Is(err, apperrors.ErrNotFound) {
			status = "not_found"
		}
		u.metrics.RecordOperation(ctx, "inventory", "object_move", status)
		return err
	}

	u.metrics.RecordOperation(ctx, "inventory", "object_move", "success")
	u.logger.Info("object moved",
		slog.String("object_id", objectID.String()),
		slog.String("location_id", locationID.String()),
	)
	return nil
}

// UpdateTags replaces an object's tag set.
func (u *objectUseCase) UpdateTags(ctx context.Context, objectID uuid.UUID, tags []string) error {
	return u.objectRepo.UpdateTags(ctx, objectID, normalizeTags(tags))
}

// UpdateText updates an object's name and description.
func (u *objectUseCase) UpdateText(
	ctx context.Context,
	objectID uuid.UUID,
	name, description string,
) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "name is required")
	}
	return u.objectRepo.UpdateText(ctx, objectID, name, strings.TrimSpace(description))
}

// UpdateMetadata replaces an object's metadata document.
func (u *objectUseCase) UpdateMetadata(
	ctx context.Context,
	objectID uuid.UUID,
	metadata json.RawMessage,
) error {
	if len(metadata) > 0 && !json.Valid(metadata) {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "metadata must be a valid JSON document")
	}
	return u.objectRepo.UpdateMetadata(ctx, objectID, metadata)
}

// Search runs ranked full-text search over the inventory.
func (u *objectUseCase) Search(
	ctx context.Context,
	q string,
	tags []string,
	locationID *uuid.UUID,
	limit int,
) ([]domain.SearchItem, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "query is required")
	}

	items, err := u.objectRepo.Search(ctx, q, normalizeTags(tags), locationID, clampLimit(limit))
	if err != nil {
		u.metrics.RecordOperation(ctx, "inventory", "object_search", "error")
		return nil, err
	}

	u.metrics.RecordOperation(ctx, "inventory", "object_search", "success")
	return items, nil
}

// FuzzySearch runs similarity lookup for misspelled object names.
func (u *objectUseCase) FuzzySearch(
	ctx context.Context,
	q string,
	limit int,
) ([]domain.FuzzyItem, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "query is required")
	}

	items, err := u.objectRepo.FuzzySearch(ctx, q, clampLimit(limit))
	if err != nil {
		u.metrics.RecordOperation(ctx, "inventory", "object_fuzzy_search", "error")
		return nil, err
	}

	u.metrics.RecordOperation(ctx, "inventory", "object_fuzzy_search", "success")
	return items, nil
}

// clampLimit applies the default and caps the page size.
func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultSearchLimit
	}
	if limit > maxSearchLimit {
		return maxSearchLimit
	}
	return limit
}

// normalizeTags trims whitespace and drops blank entries, never returning nil.
func normalizeTags(tags []string) []string {
	normalized := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		normalized = append(normalized, tag)
	}
	return normalized
}
