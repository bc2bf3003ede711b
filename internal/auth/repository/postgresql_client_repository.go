package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	authDomain "github.com/kiwistore/kiwi/internal/auth/domain"
	"github.com/kiwistore/kiwi/internal/database"

	apperrors "github.com/kiwistore/kiwi/internal/errors"
)

// PostgreSQLAppClientRepository handles app client persistence for PostgreSQL
type PostgreSQLAppClientRepository struct {
	db *sql.DB
}

// NewPostgreSQLAppClientRepository creates a new PostgreSQLAppClientRepository
func NewPostgreSQLAppClientRepository(db *sql.DB) *PostgreSQLAppClientRepository {
	return &PostgreSQLAppClientRepository{
		db: db,
	}
}

// Create inserts a new app client row
func (r *PostgreSQLAppClientRepository) Create(
	ctx context.Context,
	client *authDomain.AppClient,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO app_clients (app_client_id, client_id, name, secret_hash, salt, iterations, roles, status, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())`

	_, err := querier.ExecContext(ctx, query,
		client.ID, client.ClientID, client.Name, client.SecretHash, client.Salt,
		client.Iterations, pq.Array(client.Roles), client.Status,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Wrap(apperrors.ErrConflict, "client id already exists")
		}
		return apperrors.Wrap(err, "failed to create app client")
	}
	return nil
}

// GetByClientID retrieves an app client by its public client id
func (r *PostgreSQLAppClientRepository) GetByClientID(
	ctx context.Context,
	clientID string,
) (*authDomain.AppClient, error) {
	var client authDomain.AppClient
	querier := database.GetTx(ctx, r.db)

	query := `SELECT app_client_id, client_id, name, secret_hash, salt, iterations, roles, status, last_used_at, created_at, updated_at
			  FROM app_clients WHERE client_id = $1`

	err := querier.QueryRowContext(ctx, query, clientID).Scan(
		&client.ID, &client.ClientID, &client.Name, &client.SecretHash, &client.Salt,
		&client.Iterations, pq.Array(&client.Roles), &client.Status,
		&client.LastUsedAt, &client.CreatedAt, &client.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrClientNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get app client by client id")
	}
	if client.Roles == nil {
		client.Roles = []string{}
	}

	return &client, nil
}

// TouchLastUsed stamps the client's last successful authentication
func (r *PostgreSQLAppClientRepository) TouchLastUsed(
	ctx context.Context,
	appClientID uuid.UUID,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE app_clients SET last_used_at = NOW(), updated_at = NOW() WHERE app_client_id = $1`

	if _, err := querier.ExecContext(ctx, query, appClientID); err != nil {
		return apperrors.Wrap(err, "failed to touch app client last used")
	}
	return nil
}
