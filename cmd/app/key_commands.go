package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/allisson/mediavault/cmd/app/commands"
	"github.com/allisson/mediavault/internal/app"
	"github.com/allisson/mediavault/internal/config"
)

func getKeyCommands() []*cli.Command {
	purposeFlag := &cli.StringFlag{
		Name:     "purpose",
		Aliases:  []string{"p"},
		Required: true,
		Usage:    "Backup purpose (messages or media)",
	}

	return []*cli.Command{
		{
			Name:  "create-root-key",
			Usage: "Generate and store a new root backup key for a purpose",
			Flags: []cli.Flag{purposeFlag},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				rootKeyService, err := container.RootKeyService()
				if err != nil {
					return fmt.Errorf("failed to initialize root key service: %w", err)
				}

				return commands.RunCreateRootKey(
					ctx,
					rootKeyService,
					container.DerivationService(),
					container.Logger(),
					commands.DefaultIO().Writer,
					cfg.AccountID,
					cmd.String("purpose"),
				)
			},
		},
		{
			Name:  "destroy-root-key",
			Usage: "Remove the root backup key for a purpose (disables backups)",
			Flags: []cli.Flag{purposeFlag},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				rootKeyService, err := container.RootKeyService()
				if err != nil {
					return fmt.Errorf("failed to initialize root key service: %w", err)
				}

				return commands.RunDestroyRootKey(
					ctx,
					rootKeyService,
					container.Logger(),
					cmd.String("purpose"),
				)
			},
		},
		{
			Name:  "derive-backup-id",
			Usage: "Derive and print the backup identifier for a purpose",
			Flags: []cli.Flag{purposeFlag},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				rootKeyService, err := container.RootKeyService()
				if err != nil {
					return fmt.Errorf("failed to initialize root key service: %w", err)
				}

				return commands.RunDeriveBackupID(
					ctx,
					rootKeyService,
					container.DerivationService(),
					container.Logger(),
					commands.DefaultIO().Writer,
					cfg.AccountID,
					cmd.String("purpose"),
				)
			},
		},
	}
}
