package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/kiwistore/kiwi/internal/inventory/domain"
	"github.com/kiwistore/kiwi/internal/metrics"

	apperrors "github.com/kiwistore/kiwi/internal/errors"
)

// locationUseCase implements LocationUseCase.
type locationUseCase struct {
	locationRepo LocationRepository
	logger       *slog.Logger
	metrics      metrics.BusinessMetrics
}

// NewLocationUseCase creates a LocationUseCase.
func NewLocationUseCase(
	locationRepo LocationRepository,
	logger *slog.Logger,
	businessMetrics metrics.BusinessMetrics,
) LocationUseCase {
	if businessMetrics == nil {
		businessMetrics = metrics.NewNoOpBusinessMetrics()
	}
	return &locationUseCase{
		locationRepo: locationRepo,
		logger:       logger,
		metrics:      businessMetrics,
	}
}

// CreateLocation registers a new location, optionally nested under a parent.
func (u *locationUseCase) CreateLocation(
	ctx context.Context,
	name string,
	parentID *uuid.UUID,
) (*domain.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "name is required")
	}

	location := &domain.Location{
		ID:       uuid.Must(uuid.NewV7()),
		Name:     name,
		ParentID: parentID,
	}

	if err := u.locationRepo.Create(ctx, location); err != nil {
		u.metrics.RecordOperation(ctx, "inventory", "location_create", "error")
		u.logger.Error("location create failed",
			slog.String("name", name),
			slog.Any("error", err),
		)
		return nil, err
	}

	u.metrics.RecordOperation(ctx, "inventory", "location_create", "success")
	u.logger.Info("location created",
		slog.String("location_id", location.ID.String()),
		slog.String("name", location.Name),
	)
	return location, nil
}

// GetLocation returns a location by id.
func (u *locationUseCase) GetLocation(ctx context.Context, id uuid.UUID) (*domain.Location, error) {
	return u.locationRepo.GetByID(ctx, id)
}
