// Package usecase implements authentication and provisioning business logic.
//
// Every fallible operation returns a tagged result value carrying a rejection
// code instead of an error; infrastructure failures are logged here and
// surfaced to callers only as a generic code.
package usecase

import (
	"context"

	"github.com/google/uuid"

	authDomain "github.com/kiwistore/kiwi/internal/auth/domain"
)

// UserRepository defines persistence operations for human principals.
type UserRepository interface {
	// Create inserts a new user credential row.
	Create(ctx context.Context, user *authDomain.User) error

	// GetByUsername returns the user or authDomain.ErrUserNotFound.
	GetByUsername(ctx context.Context, username string) (*authDomain.User, error)

	// FindRoleNames returns the active role names assigned to the user.
	FindRoleNames(ctx context.Context, userID uuid.UUID) ([]string, error)

	// CountUsers returns the total number of users.
	CountUsers(ctx context.Context) (int, error)
}

// RoleRepository defines persistence operations for roles.
type RoleRepository interface {
	// GetByName returns the role or authDomain.ErrRoleNotFound.
	GetByName(ctx context.Context, name string) (*authDomain.Role, error)

	// Create inserts a new role row.
	Create(ctx context.Context, role *authDomain.Role) error

	// AssignToUser links a role to a user, idempotently.
	AssignToUser(ctx context.Context, userID, roleID uuid.UUID) error
}

// AppClientRepository defines persistence operations for machine principals.
type AppClientRepository interface {
	// Create inserts a new app client row.
	Create(ctx context.Context, client *authDomain.AppClient) error

	// GetByClientID returns the client or authDomain.ErrClientNotFound.
	GetByClientID(ctx context.Context, clientID string) (*authDomain.AppClient, error)

	// TouchLastUsed stamps the client's last successful authentication.
	TouchLastUsed(ctx context.Context, appClientID uuid.UUID) error
}

// UserAuthenticator authenticates human principals.
type UserAuthenticator interface {
	// Authenticate checks username and password. The password buffer is wiped
	// before the call returns, on every path.
	Authenticate(ctx context.Context, username string, password []byte) authDomain.AuthResult
}

// ClientAuthenticator authenticates and provisions machine principals.
type ClientAuthenticator interface {
	// Authenticate checks client id and secret, touching last-used on success.
	// The secret buffer is wiped before the call returns, on every path.
	Authenticate(ctx context.Context, clientID string, secret []byte) authDomain.AuthResult

	// CreateClient provisions a new app client with a freshly derived secret
	// hash. The secret buffer is wiped before the call returns, on every path.
	CreateClient(
		ctx context.Context,
		clientID, name string,
		secret []byte,
		roles []string,
	) authDomain.CreateClientResult
}

// UserProvisioner creates human principals and their roles.
type UserProvisioner interface {
	// CreateUser provisions a new user, ensuring and attaching the given
	// roles. The password buffer is wiped before the call returns, on every
	// path.
	CreateUser(
		ctx context.Context,
		username string,
		password []byte,
		roles []string,
	) authDomain.CreateUserResult

	// ExistsAnyUser reports whether at least one user exists. Bootstrap flows
	// use it to decide whether the very first user may be created without
	// prior authentication.
	ExistsAnyUser(ctx context.Context) (bool, error)
}
