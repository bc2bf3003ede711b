// Package repository provides PostgreSQL persistence for the inventory. Most
// write paths delegate to the api_* stored functions so the database owns the
// consistency rules.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/kiwistore/kiwi/internal/database"
	"github.com/kiwistore/kiwi/internal/inventory/domain"

	apperrors "github.com/kiwistore/kiwi/internal/errors"
)

// PostgreSQLObjectRepository handles object persistence for PostgreSQL
type PostgreSQLObjectRepository struct {
	db *sql.DB
}

// NewPostgreSQLObjectRepository creates a new PostgreSQLObjectRepository
func NewPostgreSQLObjectRepository(db *sql.DB) *PostgreSQLObjectRepository {
	return &PostgreSQLObjectRepository{
		db: db,
	}
}

// Create inserts a new object via api_create_object.
func (r *PostgreSQLObjectRepository) Create(ctx context.Context, object *domain.Object) error {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT api_create_object($1, $2, $3, $4, $5, $6, $7)`

	var id uuid.UUID
	err := querier.QueryRowContext(ctx, query,
		object.ID, object.Name, object.Description, object.Type,
		pq.Array(object.Tags), metadataParam(object.Metadata), object.CurrentLocationID,
	).Scan(&id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrLocationNotFound
		}
		if isUniqueViolation(err) {
			return apperrors.Wrap(apperrors.ErrConflict, "object already exists")
		}
		return apperrors.Wrap(err, "failed to create object")
	}
	return nil
}

// GetByID retrieves an object's full detail row.
func (r *PostgreSQLObjectRepository) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*domain.Object, error) {
	var object domain.Object
	querier := database.GetTx(ctx, r.db)

	query := `SELECT object_id, name, description, type, status, current_location_id, tags, metadata, created_at, updated_at
			  FROM objects WHERE object_id = $1`

	err := querier.QueryRowContext(ctx, query, id).Scan(
		&object.ID, &object.Name, &object.Description, &object.Type, &object.Status,
		&object.CurrentLocationID, pq.Array(&object.Tags), &object.Metadata,
		&object.CreatedAt, &object.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrObjectNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get object by id")
	}
	if object.Tags == nil {
		object.Tags = []string{}
	}

	return &object, nil
}

// Move changes an object's current location via api_move_object.
func (r *PostgreSQLObjectRepository) Move(ctx context.Context, objectID, locationID uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT api_move_object($1, $2)`

	var found bool
	err := querier.QueryRowContext(ctx, query, objectID, locationID).Scan(&found)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrLocationNotFound
		}
		return apperrors.Wrap(err, "failed to move object")
	}
	if !found {
		return domain.ErrObjectNotFound
	}
	return nil
}

// UpdateTags replaces an object's tag set via api_update_tags.
func (r *PostgreSQLObjectRepository) UpdateTags(
	ctx context.Context,
	objectID uuid.UUID,
	tags []string,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT api_update_tags($1, $2)`

	var found bool
	if err := querier.QueryRowContext(ctx, query, objectID, pq.Array(tags)).Scan(&found); err != nil {
		return apperrors.Wrap(err, "failed to update object tags")
	}
	if !found {
		return domain.ErrObjectNotFound
	}
	return nil
}

// UpdateText updates an object's name and description via api_update_text.
func (r *PostgreSQLObjectRepository) UpdateText(
	ctx context.Context,
	objectID uuid.UUID,
	name, description string,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT api_update_text($1, $2, $3)`

	var found bool
	if err := querier.QueryRowContext(ctx, query, objectID, name, description).Scan(&found); err != nil {
		return apperrors.Wrap(err, "failed to update object text")
	}
	if !found {
		return domain.ErrObjectNotFound
	}
	return nil
}

// UpdateMetadata replaces an object's metadata document via api_update_metadata.
func (r *PostgreSQLObjectRepository) UpdateMetadata(
	ctx context.Context,
	objectID uuid.UUID,
	metadata []byte,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT api_update_metadata($1, $2)`

	var found bool
	err := querier.QueryRowContext(ctx, query, objectID, metadataParam(metadata)).Scan(&found)
	if err != nil {
		return apperrors.Wrap(err, "failed to update object metadata")
	}
	if !found {
		return domain.ErrObjectNotFound
	}
	return nil
}

// Search runs ranked full-text search via api_search_objects. A nil locationID
// searches everywhere.
func (r *PostgreSQLObjectRepository) Search(
	ctx context.Context,
	q string,
	tags []string,
	locationID *uuid.UUID,
	limit int,
) ([]domain.SearchItem, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT object_id, name, rank FROM api_search_objects($1, $2, $3, $4)`

	rows, err := querier.QueryContext(ctx, query, q, pq.Array(tags), locationID, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to search objects")
	}
	defer func() { _ = rows.Close() }()

	items := []domain.SearchItem{}
	for rows.Next() {
		var item domain.SearchItem
		if err := rows.Scan(&item.ObjectID, &item.Name, &item.Rank); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan search item")
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate search items")
	}

	return items, nil
}

// FuzzySearch runs trigram-similarity lookup via api_fuzzy_search.
func (r *PostgreSQLObjectRepository) FuzzySearch(
	ctx context.Context,
	q string,
	limit int,
) ([]domain.FuzzyItem, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT object_id, name, score FROM api_fuzzy_search($1, $2)`

	rows, err := querier.QueryContext(ctx, query, q, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to fuzzy search objects")
	}
	defer func() { _ = rows.Close() }()

	items := []domain.FuzzyItem{}
	for rows.Next() {
		var item domain.FuzzyItem
		if err := rows.Scan(&item.ObjectID, &item.Name, &item.Score); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan fuzzy item")
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate fuzzy items")
	}

	return items, nil
}

// metadataParam converts a raw JSON document into a jsonb-safe parameter.
// lib/pq would otherwise send []byte as bytea.
func metadataParam(metadata []byte) any {
	if len(metadata) == 0 {
		return nil
	}
	return string(metadata)
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// isForeignKeyViolation checks if the error is a PostgreSQL foreign key violation
func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}
