package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/allisson/mediavault/cmd/app/commands"
	"github.com/allisson/mediavault/internal/app"
	"github.com/allisson/mediavault/internal/config"
)

func getCredentialCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "show-backup-info",
			Usage: "Fetch and print backup info for a purpose",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "purpose",
					Aliases:  []string{"p"},
					Required: true,
					Usage:    "Backup purpose (messages or media)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				manager, err := container.CredentialManager()
				if err != nil {
					return fmt.Errorf("failed to initialize credential manager: %w", err)
				}

				return commands.RunShowBackupInfo(
					ctx,
					manager,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("purpose"),
				)
			},
		},
		{
			Name:  "wipe-credentials",
			Usage: "Remove all cached backup service credentials",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				manager, err := container.CredentialManager()
				if err != nil {
					return fmt.Errorf("failed to initialize credential manager: %w", err)
				}

				return commands.RunWipeCredentials(ctx, manager, container.Logger())
			},
		},
	}
}
