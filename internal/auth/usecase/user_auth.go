package usecase

import (
	"context"
	"log/slog"
	"strings"

	authDomain "github.com/kiwistore/kiwi/internal/auth/domain"
	authService "github.com/kiwistore/kiwi/internal/auth/service"
	apperrors "github.com/kiwistore/kiwi/internal/errors"
	"github.com/kiwistore/kiwi/internal/metrics"
)

// userAuthenticator implements UserAuthenticator against a user repository.
type userAuthenticator struct {
	userRepo UserRepository
	hasher   authService.CredentialHasher
	logger   *slog.Logger
	metrics  metrics.BusinessMetrics
}

// NewUserAuthenticator creates a UserAuthenticator.
func NewUserAuthenticator(
	userRepo UserRepository,
	hasher authService.CredentialHasher,
	logger *slog.Logger,
	businessMetrics metrics.BusinessMetrics,
) UserAuthenticator {
	if businessMetrics == nil {
		businessMetrics = metrics.NewNoOpBusinessMetrics()
	}
	return &userAuthenticator{
		userRepo: userRepo,
		hasher:   hasher,
		logger:   logger,
		metrics:  businessMetrics,
	}
}

// Authenticate checks a username and password against the credential store.
// Unknown usernames and wrong passwords both yield bad_credentials so the
// response code cannot be used to enumerate users.
func (u *userAuthenticator) Authenticate(
	ctx context.Context,
	username string,
	password []byte,
) (result authDomain.AuthResult) {
	defer authDomain.Zero(password)
	defer func() {
		u.metrics.RecordOperation(ctx, "auth", "user_login", operationStatus(result.OK, result.Code))
	}()

	if strings.TrimSpace(username) == "" || len(password) == 0 {
		return authDomain.AuthBad(authDomain.CodeBadCredentials)
	}

	user, err := u.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return authDomain.AuthBad(authDomain.CodeBadCredentials)
		}
		u.logger.Error("user lookup failed",
			slog.String("username", username),
			slog.Any("error", err),
		)
		return authDomain.AuthBad(authDomain.CodeError)
	}

	if !user.IsActive() {
		return authDomain.AuthBad(authDomain.CodeUserDisabled)
	}

	if !u.hasher.Verify(password, user.Salt, user.Iterations, user.PasswordHash) {
		return authDomain.AuthBad(authDomain.CodeBadCredentials)
	}

	roles, err := u.userRepo.FindRoleNames(ctx, user.ID)
	if err != nil {
		u.logger.Error("role lookup failed",
			slog.String("username", username),
			slog.Any("error", err),
		)
		return authDomain.AuthBad(authDomain.CodeError)
	}

	return authDomain.AuthOK(user.ID, user.Username, roles)
}

// operationStatus maps a result to a metrics status label.
func operationStatus(ok bool, code string) string {
	if ok {
		return "success"
	}
	return code
}
