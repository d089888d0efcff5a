package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/varkeep/varkeep/cmd/app/commands"
	"github.com/varkeep/varkeep/internal/app"
	"github.com/varkeep/varkeep/internal/config"
)

func getVaultCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "vault",
			Usage: "Inspect and maintain the secret vault",
			Commands: []*cli.Command{
				{
					Name:  "migrate",
					Usage: "Backfill the shared encrypted store from the platform enclave",
					Action: func(ctx context.Context, cmd *cli.Command) error {
						cfg := config.Load()
						container := app.NewContainer(cfg)
						defer commands.CloseContainer(container, container.Logger())

						records, err := container.RecordUseCase()
						if err != nil {
							return err
						}
						migration, err := container.MigrationUseCase()
						if err != nil {
							return err
						}
						return commands.RunVaultMigrate(
							ctx,
							records,
							migration,
							container.Logger(),
							commands.DefaultIO(),
						)
					},
				},
				{
					Name:  "status",
					Usage: "Report the state of both vault tiers",
					Flags: []cli.Flag{outputFlag()},
					Action: func(ctx context.Context, cmd *cli.Command) error {
						cfg := config.Load()
						container := app.NewContainer(cfg)
						defer commands.CloseContainer(container, container.Logger())

						records, err := container.RecordUseCase()
						if err != nil {
							return err
						}
						migration, err := container.MigrationUseCase()
						if err != nil {
							return err
						}
						sharedStore, err := container.SharedStore()
						if err != nil {
							return err
						}
						return commands.RunVaultStatus(
							ctx,
							records,
							migration,
							sharedStore,
							container.KeyManager(),
							commands.DefaultIO(),
							cmd.String("output"),
						)
					},
				},
				{
					Name:  "reset",
					Usage: "Destroy the shared encrypted store and its key (the enclave is untouched)",
					Flags: []cli.Flag{
						&cli.BoolFlag{
							Name:  "force",
							Usage: "Confirm the destructive reset",
						},
					},
					Action: func(ctx context.Context, cmd *cli.Command) error {
						cfg := config.Load()
						container := app.NewContainer(cfg)
						defer commands.CloseContainer(container, container.Logger())

						migration, err := container.MigrationUseCase()
						if err != nil {
							return err
						}
						return commands.RunVaultReset(
							migration,
							container.Logger(),
							commands.DefaultIO(),
							cmd.Bool("force"),
						)
					},
				},
			},
		},
	}
}
