package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/varkeep/varkeep/cmd/app/commands"
	"github.com/varkeep/varkeep/internal/app"
	"github.com/varkeep/varkeep/internal/config"
)

func getVariableCommands() []*cli.Command {
	projectFlag := &cli.StringFlag{
		Name:     "project",
		Aliases:  []string{"p"},
		Required: true,
		Usage:    "Project name",
	}
	environmentFlag := &cli.StringFlag{
		Name:     "env",
		Aliases:  []string{"e"},
		Required: true,
		Usage:    "Environment name",
	}

	return []*cli.Command{
		{
			Name:  "var",
			Usage: "Manage variables within an environment",
			Commands: []*cli.Command{
				{
					Name:      "set",
					Usage:     "Create or update a variable; omit the value to read it from stdin",
					ArgsUsage: "<key> [value]",
					Flags: []cli.Flag{
						projectFlag,
						environmentFlag,
						&cli.BoolFlag{
							Name:    "secret",
							Aliases: []string{"s"},
							Usage:   "Store the value in the secret vault instead of the record database",
						},
					},
					Action: func(ctx context.Context, cmd *cli.Command) error {
						cfg := config.Load()
						container := app.NewContainer(cfg)
						defer commands.CloseContainer(container, container.Logger())

						records, err := container.RecordUseCase()
						if err != nil {
							return err
						}
						return commands.RunSetVariable(
							ctx,
							records,
							commands.DefaultIO(),
							cmd.String("project"),
							cmd.String("env"),
							cmd.Args().Get(0),
							cmd.Args().Get(1),
							cmd.Bool("secret"),
						)
					},
				},
				{
					Name:      "get",
					Usage:     "Print a variable value, resolving secrets from the vault",
					ArgsUsage: "<key>",
					Flags:     []cli.Flag{projectFlag, environmentFlag},
					Action: func(ctx context.Context, cmd *cli.Command) error {
						cfg := config.Load()
						container := app.NewContainer(cfg)
						defer commands.CloseContainer(container, container.Logger())

						records, err := container.RecordUseCase()
						if err != nil {
							return err
						}
						return commands.RunGetVariable(
							ctx,
							records,
							commands.DefaultIO(),
							cmd.String("project"),
							cmd.String("env"),
							cmd.Args().First(),
						)
					},
				},
				{
					Name:  "list",
					Usage: "List the variables of an environment",
					Flags: []cli.Flag{
						projectFlag,
						environmentFlag,
						outputFlag(),
						&cli.BoolFlag{
							Name:  "reveal",
							Usage: "Resolve secret values from the vault",
						},
					},
					Action: func(ctx context.Context, cmd *cli.Command) error {
						cfg := config.Load()
						container := app.NewContainer(cfg)
						defer commands.CloseContainer(container, container.Logger())

						records, err := container.RecordUseCase()
						if err != nil {
							return err
						}
						return commands.RunListVariables(
							ctx,
							records,
							commands.DefaultIO(),
							cmd.String("project"),
							cmd.String("env"),
							cmd.String("output"),
							cmd.Bool("reveal"),
						)
					},
				},
				{
					Name:      "delete",
					Usage:     "Delete a variable and its vault entry",
					ArgsUsage: "<key>",
					Flags:     []cli.Flag{projectFlag, environmentFlag},
					Action: func(ctx context.Context, cmd *cli.Command) error {
						cfg := config.Load()
						container := app.NewContainer(cfg)
						defer commands.CloseContainer(container, container.Logger())

						records, err := container.RecordUseCase()
						if err != nil {
							return err
						}
						return commands.RunDeleteVariable(
							ctx,
							records,
							commands.DefaultIO(),
							cmd.String("project"),
							cmd.String("env"),
							cmd.Args().First(),
						)
					},
				},
			},
		},
	}
}
