package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	authUseCase "github.com/kiwistore/kiwi/internal/auth/usecase"
)

// createUserOutput is the printable result of user provisioning.
type createUserOutput struct {
	UserID   string   `json:"user_id"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

// RunCreateUser provisions a new user with the given roles. Outputs the new
// user id in either text or JSON format.
//
// Requirements: Database must be migrated and accessible.
func RunCreateUser(
	ctx context.Context,
	provisioner authUseCase.UserProvisioner,
	logger *slog.Logger,
	writer io.Writer,
	username, password, rolesCSV, format string,
) error {
	roles := splitRoles(rolesCSV)

	logger.Info("creating new user", slog.String("username", username))

	result := provisioner.CreateUser(ctx, username, []byte(password), roles)
	if !result.OK {
		return fmt.Errorf("failed to create user: %s", result.Code)
	}

	output := createUserOutput{
		UserID:   result.UserID.String(),
		Username: username,
		Roles:    roles,
	}
	if output.Roles == nil {
		output.Roles = []string{}
	}

	if format == "json" {
		outputJSON(output, writer)
	} else {
		_, _ = fmt.Fprintf(writer, "User created\n  user_id:  %s\n  username: %s\n  roles:    %v\n",
			output.UserID, output.Username, output.Roles)
	}

	logger.Info("user created successfully",
		slog.String("user_id", output.UserID),
		slog.String("username", username),
	)

	return nil
}
