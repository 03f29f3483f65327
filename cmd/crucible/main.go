// Package main provides the crucible CLI entrypoint.
//
// Crucible answers the out-of-process requests a Ferrous compilation
// issues: source-file reads and SMT queries. The CLI exposes the same
// dispatch path for scripting and debugging.
//
// Usage:
//
//	crucible <command> [options]
//
// Exit codes:
//   - 0: success
//   - 1: failed result (missing solver, unreadable file, solver fault)
//   - 2: usage or configuration error
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/ferrous-lang/crucible/cli/cmd"
	"github.com/ferrous-lang/crucible/types"
)

// Commit is set via ldflags at build time.
var commit = "unknown"

func main() {
	app := &cli.App{
		Name:           "crucible",
		Usage:          "Ferrous compiler callback and solver runtime CLI",
		Version:        fmt.Sprintf("%s (commit: %s)", types.Version, commit),
		ExitErrHandler: exitErrHandler,
		Commands: []*cli.Command{
			cmd.SolveCommand(),
			cmd.ReadCommand(),
			cmd.CacheCommand(),
			cmd.VersionCommand(commit),
		},
	}

	if err := app.Run(os.Args); err != nil {
		// ExitErrHandler already handled the exit for cli.ExitCoder errors.
		// This branch handles unexpected errors that weren't wrapped.
		os.Exit(1)
	}
}

// exitErrHandler handles errors from the CLI, preserving exit codes from
// cli.Exit() so that solve/read failure codes propagate to callers.
func exitErrHandler(_ *cli.Context, err error) {
	if err == nil {
		return
	}

	var exitCoder cli.ExitCoder
	if errors.As(err, &exitCoder) {
		code := exitCoder.ExitCode()
		if msg := exitCoder.Error(); messageWorthPrinting(msg, code) {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(code)
	}

	// Unexpected error - print and exit with code 1
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// messageWorthPrinting filters the synthetic "exit status N" text that
// cli.Exit("", N) produces for empty messages.
func messageWorthPrinting(msg string, code int) bool {
	return msg != "" && msg != fmt.Sprintf("exit status %d", code)
}
