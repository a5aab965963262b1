package main

import (
	"github.com/urfave/cli/v3"
)

// getCommands assembles the CLI surface: server lifecycle, schema
// migrations, root key management and credential maintenance.
func getCommands(version string) []*cli.Command {
	cmds := getSystemCommands(version)
	cmds = append(cmds, getKeyCommands()...)
	cmds = append(cmds, getCredentialCommands()...)
	return cmds
}
