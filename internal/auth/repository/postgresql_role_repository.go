package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	authDomain "github.com/kiwistore/kiwi/internal/auth/domain"
	"github.com/kiwistore/kiwi/internal/database"

	apperrors "github.com/kiwistore/kiwi/internal/errors"
)

// PostgreSQLRoleRepository handles role persistence for PostgreSQL
type PostgreSQLRoleRepository struct {
	db *sql.DB
}

// NewPostgreSQLRoleRepository creates a new PostgreSQLRoleRepository
func NewPostgreSQLRoleRepository(db *sql.DB) *PostgreSQLRoleRepository {
	return &PostgreSQLRoleRepository{
		db: db,
	}
}

// GetByName retrieves a role by name
func (r *PostgreSQLRoleRepository) GetByName(
	ctx context.Context,
	name string,
) (*authDomain.Role, error) {
	var role authDomain.Role
	querier := database.GetTx(ctx, r.db)

	query := `SELECT role_id, name, description, status, created_at, updated_at
			  FROM roles WHERE name = $1`

	err := querier.QueryRowContext(ctx, query, name).Scan(
		&role.ID, &role.Name, &role.Description, &role.Status, &role.CreatedAt, &role.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrRoleNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get role by name")
	}

	return &role, nil
}

// Create inserts a new role
func (r *PostgreSQLRoleRepository) Create(ctx context.Context, role *authDomain.Role) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO roles (role_id, name, description, status, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, NOW(), NOW())`

	_, err := querier.ExecContext(ctx, query, role.ID, role.Name, role.Description, role.Status)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Wrap(apperrors.ErrConflict, "role name already exists")
		}
		return apperrors.Wrap(err, "failed to create role")
	}
	return nil
}

// AssignToUser links a role to a user via the api_assign_role_to_user stored
// function, which is idempotent on repeat assignments.
func (r *PostgreSQLRoleRepository) AssignToUser(ctx context.Context, userID, roleID uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT api_assign_role_to_user($1, $2)`

	if _, err := querier.ExecContext(ctx, query, userID, roleID); err != nil {
		return apperrors.Wrap(err, "failed to assign role to user")
	}
	return nil
}
