package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	authUseCase "github.com/kiwistore/kiwi/internal/auth/usecase"
)

// createClientOutput is the printable result of app-client provisioning. The
// plain secret is shown once here and never stored.
type createClientOutput struct {
	AppClientID string   `json:"app_client_id"`
	ClientID    string   `json:"client_id"`
	Name        string   `json:"name"`
	Secret      string   `json:"secret"`
	Roles       []string `json:"roles"`
}

// RunCreateClient provisions a new app client. When no secret is given a
// random one is generated; either way the plain secret is printed once.
//
// Requirements: Database must be migrated and accessible.
func RunCreateClient(
	ctx context.Context,
	clientAuth authUseCase.ClientAuthenticator,
	logger *slog.Logger,
	writer io.Writer,
	clientID, name, secret, rolesCSV, format string,
) error {
	roles := splitRoles(rolesCSV)

	if secret == "" {
		generated, err := generateSecret()
		if err != nil {
			return err
		}
		secret = generated
	}

	logger.Info("creating new app client", slog.String("client_id", clientID))

	result := clientAuth.CreateClient(ctx, clientID, name, []byte(secret), roles)
	if !result.OK {
		return fmt.Errorf("failed to create app client: %s", result.Code)
	}

	output := createClientOutput{
		AppClientID: result.AppClientID.String(),
		ClientID:    result.ClientID,
		Name:        result.Name,
		Secret:      secret,
		Roles:       result.Roles,
	}

	if format == "json" {
		outputJSON(output, writer)
	} else {
		_, _ = fmt.Fprintf(writer,
			"App client created\n  app_client_id: %s\n  client_id:     %s\n  name:          %s\n  secret:        %s\n  roles:         %v\n",
			output.AppClientID, output.ClientID, output.Name, output.Secret, output.Roles)
		_, _ = fmt.Fprintln(writer, "Store the secret now; it cannot be recovered later.")
	}

	logger.Info("app client created successfully",
		slog.String("app_client_id", output.AppClientID),
		slog.String("client_id", output.ClientID),
	)

	return nil
}
