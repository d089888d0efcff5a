package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/varkeep/varkeep/cmd/app/commands"
	"github.com/varkeep/varkeep/internal/app"
	"github.com/varkeep/varkeep/internal/config"
)

func getProjectCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "project",
			Usage: "Manage projects",
			Commands: []*cli.Command{
				{
					Name:      "create",
					Usage:     "Create a new project",
					ArgsUsage: "<name>",
					Flags: []cli.Flag{
						&cli.StringFlag{
							Name:    "description",
							Aliases: []string{"d"},
							Usage:   "Project description",
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
						return commands.RunCreateProject(
							ctx,
							records,
							container.Logger(),
							commands.DefaultIO(),
							cmd.Args().First(),
							cmd.String("description"),
						)
					},
				},
				{
					Name:  "list",
					Usage: "List all projects",
					Flags: []cli.Flag{outputFlag()},
					Action: func(ctx context.Context, cmd *cli.Command) error {
						cfg := config.Load()
						container := app.NewContainer(cfg)
						defer commands.CloseContainer(container, container.Logger())

						records, err := container.RecordUseCase()
						if err != nil {
							return err
						}
						return commands.RunListProjects(ctx, records, commands.DefaultIO(), cmd.String("output"))
					},
				},
				{
					Name:      "update",
					Usage:     "Update a project's description",
					ArgsUsage: "<name>",
					Flags: []cli.Flag{
						&cli.StringFlag{
							Name:     "description",
							Aliases:  []string{"d"},
							Required: true,
							Usage:    "New project description",
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
						return commands.RunUpdateProject(
							ctx,
							records,
							commands.DefaultIO(),
							cmd.Args().First(),
							cmd.String("description"),
						)
					},
				},
				{
					Name:      "delete",
					Usage:     "Delete a project with all its environments and variables",
					ArgsUsage: "<name>",
					Action: func(ctx context.Context, cmd *cli.Command) error {
						cfg := config.Load()
						container := app.NewContainer(cfg)
						defer commands.CloseContainer(container, container.Logger())

						records, err := container.RecordUseCase()
						if err != nil {
							return err
						}
						return commands.RunDeleteProject(
							ctx,
							records,
							container.Logger(),
							commands.DefaultIO(),
							cmd.Args().First(),
						)
					},
				},
			},
		},
	}
}
