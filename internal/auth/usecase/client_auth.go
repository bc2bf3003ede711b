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
	apperrors "github.com/kiwistore/kiwi/internal/errors"
	"github.com/kiwistore/kiwi/internal/metrics"
)

// maxClientIDLength bounds client ids at provisioning time.
const maxClientIDLength = 120

// clientAuthenticator implements ClientAuthenticator.
type clientAuthenticator struct {
	clientRepo AppClientRepository
	hasher     authService.CredentialHasher
	saltBytes  int
	iterations int
	logger     *slog.Logger
	metrics    metrics.BusinessMetrics
}

// NewClientAuthenticator creates a ClientAuthenticator. Fails when the hashing
// policy is below minimums, aborting startup rather than persisting weak
// credentials later.
func NewClientAuthenticator(
	clientRepo AppClientRepository,
	hasher authService.CredentialHasher,
	saltBytes int,
	iterations int,
	logger *slog.Logger,
	businessMetrics metrics.BusinessMetrics,
) (ClientAuthenticator, error) {
	if saltBytes < 16 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "salt length below 16 bytes")
	}
	if iterations < 10000 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "iteration count below 10000")
	}
	if businessMetrics == nil {
		businessMetrics = metrics.NewNoOpBusinessMetrics()
	}
	return &clientAuthenticator{
		clientRepo: clientRepo,
		hasher:     hasher,
		saltBytes:  saltBytes,
		iterations: iterations,
		logger:     logger,
		metrics:    businessMetrics,
	}, nil
}

// Authenticate checks a client id and secret. Disabled clients short-circuit
// before the secret derivation runs, since the account is already barred.
func (c *clientAuthenticator) Authenticate(
	ctx context.Context,
	clientID string,
	secret []byte,
) (result authDomain.AuthResult) {
	defer authDomain.Zero(secret)
	defer func() {
		c.metrics.RecordOperation(ctx, "auth", "client_token", operationStatus(result.OK, result.Code))
	}()

	if strings.TrimSpace(clientID) == "" || len(secret) == 0 {
		return authDomain.AuthBad(authDomain.CodeInvalidClient)
	}

	client, err := c.clientRepo.GetByClientID(ctx, clientID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return authDomain.AuthBad(authDomain.CodeInvalidClient)
		}
		c.logger.Error("client lookup failed",
			slog.String("client_id", clientID),
			slog.Any("error", err),
		)
		return authDomain.AuthBad(authDomain.CodeError)
	}

	if !client.IsActive() {
		return authDomain.AuthBad(authDomain.CodeClientDisabled)
	}

	if !c.hasher.Verify(secret, client.Salt, client.Iterations, client.SecretHash) {
		return authDomain.AuthBad(authDomain.CodeInvalidClient)
	}

	if err := c.clientRepo.TouchLastUsed(ctx, client.ID); err != nil {
		// The client proved its identity; a failed timestamp update is not a
		// reason to refuse the token.
		c.logger.Warn("failed to touch client last used",
			slog.String("client_id", clientID),
			slog.Any("error", err),
		)
	}

	return authDomain.AuthOK(client.ID, client.ClientID, client.Roles)
}

// CreateClient provisions a new app client with a freshly derived secret hash.
func (c *clientAuthenticator) CreateClient(
	ctx context.Context,
	clientID, name string,
	secret []byte,
	roles []string,
) (result authDomain.CreateClientResult) {
	defer authDomain.Zero(secret)
	defer func() {
		c.metrics.RecordOperation(ctx, "auth", "client_create", operationStatus(result.OK, result.Code))
	}()

	normalizedClientID := strings.TrimSpace(clientID)
	if normalizedClientID == "" || len(secret) == 0 {
		return authDomain.CreateClientBad(authDomain.CodeInvalidInput)
	}
	// The length limit applies to what gets persisted, not the raw input.
	if len(normalizedClientID) > maxClientIDLength {
		return authDomain.CreateClientBad(authDomain.CodeInvalidInput)
	}

	normalizedName := strings.TrimSpace(name)
	if normalizedName == "" {
		normalizedName = normalizedClientID
	}
	normalizedRoles := authDomain.NormalizeRoles(roles)

	salt := make([]byte, c.saltBytes)
	if _, err := rand.Read(salt); err != nil {
		c.logger.Error("failed to generate salt", slog.Any("error", err))
		return authDomain.CreateClientBad(authDomain.CodeError)
	}

	hashed, err := c.hasher.Hash(secret, salt, c.iterations)
	if err != nil {
		c.logger.Error("failed to derive client secret hash", slog.Any("error", err))
		return authDomain.CreateClientBad(authDomain.CodeError)
	}

	now := time.Now().UTC()
	client := &authDomain.AppClient{
		ID:         uuid.Must(uuid.NewV7()),
		ClientID:   normalizedClientID,
		Name:       normalizedName,
		SecretHash: hashed.Hash,
		Salt:       hashed.Salt,
		Iterations: hashed.Iterations,
		Roles:      normalizedRoles,
		Status:     authDomain.StatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := c.clientRepo.Create(ctx, client); err != nil {
		if apperrors.Is(err, apperrors.ErrConflict) {
			return authDomain.CreateClientBad(authDomain.CodeClientIDTaken)
		}
		c.logger.Error("failed to create app client",
			slog.String("client_id", normalizedClientID),
			slog.Any("error", err),
		)
		return authDomain.CreateClientBad(authDomain.CodeError)
	}

	return authDomain.CreateClientOK(client.ID, client.ClientID, client.Name, client.Roles)
}
