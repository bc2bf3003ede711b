package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/kiwistore/kiwi/cmd/app/commands"
	"github.com/kiwistore/kiwi/internal/app"
	"github.com/kiwistore/kiwi/internal/config"
)

func getAuthCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-user",
			Usage: "Create a new user with roles",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "username",
					Aliases:  []string{"u"},
					Required: true,
					Usage:    "Username for the new user",
				},
				&cli.StringFlag{
					Name:     "password",
					Aliases:  []string{"p"},
					Required: true,
					Usage:    "Password for the new user",
				},
				&cli.StringFlag{
					Name:    "roles",
					Aliases: []string{"r"},
					Usage:   "Comma-separated role names (e.g., 'ADMIN,reader')",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				provisioner, err := container.UserProvisioner()
				if err != nil {
					return err
				}

				return commands.RunCreateUser(
					ctx,
					provisioner,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("username"),
					cmd.String("password"),
					cmd.String("roles"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "create-client",
			Usage: "Create a new app client for machine-to-machine access",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "client-id",
					Aliases:  []string{"c"},
					Required: true,
					Usage:    "Client identifier (e.g., 'svc-reporting')",
				},
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Human-readable client name",
				},
				&cli.StringFlag{
					Name:    "secret",
					Aliases: []string{"s"},
					Usage:   "Client secret (omit to generate a random one)",
				},
				&cli.StringFlag{
					Name:    "roles",
					Aliases: []string{"r"},
					Usage:   "Comma-separated role names (e.g., 'reader,writer')",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				clientAuth, err := container.ClientAuthenticator()
				if err != nil {
					return err
				}

				return commands.RunCreateClient(
					ctx,
					clientAuth,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("client-id"),
					cmd.String("name"),
					cmd.String("secret"),
					cmd.String("roles"),
					cmd.String("format"),
				)
			},
		},
	}
}
