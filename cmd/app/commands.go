package main

import (
	"github.com/urfave/cli/v3"
)

func getCommands() []*cli.Command {
	cmds := []*cli.Command{}
	cmds = append(cmds, getProjectCommands()...)
	cmds = append(cmds, getEnvironmentCommands()...)
	cmds = append(cmds, getVariableCommands()...)
	cmds = append(cmds, getVaultCommands()...)
	return cmds
}

// outputFlag is the shared flag selecting the render format of list and
// status commands.
func outputFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Value:   "text",
		Usage:   "Output format: 'text', 'json' or 'yaml'",
	}
}
