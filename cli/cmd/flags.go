// Package cmd provides CLI commands for the crucible binary.
package cmd

import "github.com/urfave/cli/v2"

// Exit codes for the crucible CLI.
const (
	exitSuccess     = 0
	exitQueryFailed = 1
	exitUsage       = 2
)

// Shared flags across commands.
var (
	// FormatFlag selects output format: json, table, yaml.
	FormatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: json, table, yaml",
	}

	// ConfigFlag points at a crucible.yaml file providing defaults.
	ConfigFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to crucible.yaml config file",
	}

	// VerboseFlag enables debug logging to stderr.
	VerboseFlag = &cli.BoolFlag{
		Name:  "verbose",
		Usage: "Enable debug logging",
	}
)

// SharedFlags returns the flags common to all commands.
func SharedFlags() []cli.Flag {
	return []cli.Flag{
		FormatFlag,
		ConfigFlag,
		VerboseFlag,
	}
}
