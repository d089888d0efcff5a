package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/varkeep/varkeep/cmd/app/commands"
	"github.com/varkeep/varkeep/internal/app"
	"github.com/varkeep/varkeep/internal/config"
)

func getEnvironmentCommands() []*cli.Command {
	projectFlag := &cli.StringFlag{
		Name:     "project",
		Aliases:  []string{"p"},
		Required: true,
		Usage:    "Project name",
	}

	return []*cli.Command{
		{
			Name:  "env",
			Usage: "Manage environments within a project",
			Commands: []*cli.Command{
				{
					Name:      "create",
					Usage:     "Create a new environment",
					ArgsUsage: "<name>",
					Flags:     []cli.Flag{projectFlag},
					Action: func(ctx context.Context, cmd *cli.Command) error {
						cfg := config.Load()
						container := app.NewContainer(cfg)
						defer commands.CloseContainer(container, container.Logger())

						records, err := container.RecordUseCase()
						if err != nil {
							return err
						}
						return commands.RunCreateEnvironment(
							ctx,
							records,
							commands.DefaultIO(),
							cmd.String("project"),
							cmd.Args().First(),
						)
					},
				},
				{
					Name:  "list",
					Usage: "List the environments of a project",
					Flags: []cli.Flag{projectFlag, outputFlag()},
					Action: func(ctx context.Context, cmd *cli.Command) error {
						cfg := config.Load()
						container := app.NewContainer(cfg)
						defer commands.CloseContainer(container, container.Logger())

						records, err := container.RecordUseCase()
						if err != nil {
							return err
						}
						return commands.RunListEnvironments(
							ctx,
							records,
							commands.DefaultIO(),
							cmd.String("project"),
							cmd.String("output"),
						)
					},
				},
				{
					Name:      "rename",
					Usage:     "Rename an environment",
					ArgsUsage: "<name> <new-name>",
					Flags:     []cli.Flag{projectFlag},
					Action: func(ctx context.Context, cmd *cli.Command) error {
						cfg := config.Load()
						container := app.NewContainer(cfg)
						defer commands.CloseContainer(container, container.Logger())

						records, err := container.RecordUseCase()
						if err != nil {
							return err
						}
						return commands.RunRenameEnvironment(
							ctx,
							records,
							commands.DefaultIO(),
							cmd.String("project"),
							cmd.Args().Get(0),
							cmd.Args().Get(1),
						)
					},
				},
				{
					Name:      "delete",
					Usage:     "Delete an environment with all its variables",
					ArgsUsage: "<name>",
					Flags:     []cli.Flag{projectFlag},
					Action: func(ctx context.Context, cmd *cli.Command) error {
						cfg := config.Load()
						container := app.NewContainer(cfg)
						defer commands.CloseContainer(container, container.Logger())

						records, err := container.RecordUseCase()
						if err != nil {
							return err
						}
						return commands.RunDeleteEnvironment(
							ctx,
							records,
							commands.DefaultIO(),
							cmd.String("project"),
							cmd.Args().First(),
						)
					},
				},
			},
		},
	}
}
