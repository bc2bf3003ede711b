package usecase

import (
	"context"
	"crypto/rand"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/kiwistore/kiwi/internal/auth/domain"
	authService "github.com/kiwistore/kiwi/internal/auth/service"
	"github.com/kiwistore/kiwi/internal/database"
	apperrors "github.com/kiwistore/kiwi/internal/errors"
	"github.com/kiwistore/kiwi/internal/metrics"
)

// userProvisioner implements UserProvisioner.
type userProvisioner struct {
	userRepo   UserRepository
	roleRepo   RoleRepository
	txManager  database.TxManager
	hasher     authService.CredentialHasher
	saltBytes  int
	iterations int
	logger     *slog.Logger
	metrics    metrics.BusinessMetrics
}

// NewUserProvisioner creates a UserProvisioner. Fails when the hashing policy
// is below minimums.
func NewUserProvisioner(
	userRepo UserRepository,
	roleRepo RoleRepository,
	txManager database.TxManager,
	hasher authService.CredentialHasher,
	saltBytes int,
	iterations int,
	logger *slog.Logger,
	businessMetrics metrics.BusinessMetrics,
) (UserProvisioner, error) {
	if saltBytes < 16 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "salt length below 16 bytes")
	}
	if iterations < 10000 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "iteration count below 10000")
	}
	if businessMetrics == nil {
		businessMetrics = metrics.NewNoOpBusinessMetrics()
	}
	return &userProvisioner{
		userRepo:   userRepo,
		roleRepo:   roleRepo,
		txManager:  txManager,
		hasher:     hasher,
		saltBytes:  saltBytes,
		iterations: iterations,
		logger:     logger,
		metrics:    businessMetrics,
	}, nil
}

// CreateUser provisions a new user credential and attaches its roles, creating
// missing roles on the fly.
func (u *userProvisioner) CreateUser(
	ctx context.Context,
	username string,
	password []byte,
	roles []string,
) (result authDomain.CreateUserResult) {
	defer authDomain.Zero(password)
	defer func() {
		u.metrics.RecordOperation(ctx, "auth", "user_create", operationStatus(result.OK, result.Code))
	}()

	if strings.TrimSpace(username) == "" || len(password) == 0 {
		return authDomain.CreateUserBad(authDomain.CodeInvalidInput)
	}

	salt := make([]byte, u.saltBytes)
	if _, err := rand.Read(salt); err != nil {
		u.logger.Error("failed to generate salt", slog.Any("error", err))
		return authDomain.CreateUserBad(authDomain.CodeDBError)
	}

	hashed, err := u.hasher.Hash(password, salt, u.iterations)
	if err != nil {
		u.logger.Error("failed to derive password hash", slog.Any("error", err))
		return authDomain.CreateUserBad(authDomain.CodeDBError)
	}

	now := time.Now().UTC()
	user := &authDomain.User{
		ID:           uuid.Must(uuid.NewV7()),
		Username:     username,
		PasswordHash: hashed.Hash,
		Salt:         hashed.Salt,
		Iterations:   hashed.Iterations,
		Status:       authDomain.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// Roles are ensured outside the transaction: the insert-conflict
	// re-select protocol cannot run inside an aborted postgres transaction.
	roleIDs := make([]uuid.UUID, 0, len(roles))
	for _, role := range roles {
		name := strings.TrimSpace(role)
		if name == "" {
			continue
		}

		roleID, err := u.ensureRole(ctx, name)
		if err != nil {
			u.logger.Error("failed to ensure role",
				slog.String("role", name),
				slog.Any("error", err),
			)
			return authDomain.CreateUserBad(authDomain.CodeDBError)
		}
		roleIDs = append(roleIDs, roleID)
	}

	err = u.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := u.userRepo.Create(ctx, user); err != nil {
			return err
		}
		for _, roleID := range roleIDs {
			if err := u.roleRepo.AssignToUser(ctx, user.ID, roleID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if apperrors.Is(err, apperrors.ErrConflict) {
			return authDomain.CreateUserBad(authDomain.CodeUsernameTaken)
		}
		u.logger.Error("failed to create user",
			slog.String("username", username),
			slog.Any("error", err),
		)
		return authDomain.CreateUserBad(authDomain.CodeDBError)
	}

	return authDomain.CreateUserOK(user.ID)
}

// ensureRole gets or creates a role by name. A failed insert is retried as a
// lookup: a concurrent insert of the same role is an expected race, not an
// error.
func (u *userProvisioner) ensureRole(ctx context.Context, name string) (uuid.UUID, error) {
	role, err := u.roleRepo.GetByName(ctx, name)
	if err == nil {
		return role.ID, nil
	}
	if !apperrors.Is(err, apperrors.ErrNotFound) {
		return uuid.Nil, err
	}

	now := time.Now().UTC()
	created := &authDomain.Role{
		ID:          uuid.Must(uuid.NewV7()),
		Name:        name,
		Description: "Auto-created role: " + name,
		Status:      authDomain.StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := u.roleRepo.Create(ctx, created); err == nil {
		return created.ID, nil
	}

	role, err = u.roleRepo.GetByName(ctx, name)
	if err != nil {
		return uuid.Nil, err
	}
	return role.ID, nil
}

// ExistsAnyUser reports whether at least one user exists.
func (u *userProvisioner) ExistsAnyUser(ctx context.Context) (bool, error) {
	count, err := u.userRepo.CountUsers(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
