package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/kiwistore/kiwi/internal/database"
	"github.com/kiwistore/kiwi/internal/inventory/domain"

	apperrors "github.com/kiwistore/kiwi/internal/errors"
)

// PostgreSQLLocationRepository handles location persistence for PostgreSQL
type PostgreSQLLocationRepository struct {
	db *sql.DB
}

// NewPostgreSQLLocationRepository creates a new PostgreSQLLocationRepository
func NewPostgreSQLLocationRepository(db *sql.DB) *PostgreSQLLocationRepository {
	return &PostgreSQLLocationRepository{
		db: db,
	}
}

// Create inserts a new location via api_create_location.
func (r *PostgreSQLLocationRepository) Create(ctx context.Context, location *domain.Location) error {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT api_create_location($1, $2, $3)`

	var id uuid.UUID
	err := querier.QueryRowContext(ctx, query,
		location.ID, location.Name, location.ParentID,
	).Scan(&id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.Wrap(domain.ErrLocationNotFound, "parent location does not exist")
		}
		if isUniqueViolation(err) {
			return apperrors.Wrap(apperrors.ErrConflict, "location already exists")
		}
		return apperrors.Wrap(err, "failed to create location")
	}
	return nil
}

// GetByID retrieves a location by its id.
func (r *PostgreSQLLocationRepository) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*domain.Location, error) {
	var location domain.Location
	querier := database.GetTx(ctx, r.db)

	query := `SELECT location_id, name, parent_location_id, created_at, updated_at
			  FROM locations WHERE location_id = $1`

	err := querier.QueryRowContext(ctx, query, id).Scan(
		&location.ID, &location.Name, &location.ParentID,
		&location.CreatedAt, &location.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrLocationNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get location by id")
	}

	return &location, nil
}

// Exists reports whether a location with the given id is present.
func (r *PostgreSQLLocationRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT EXISTS(SELECT 1 FROM locations WHERE location_id = $1)`

	var exists bool
	if err := querier.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, apperrors.Wrap(err, "failed to check location existence")
	}
	return exists, nil
}
