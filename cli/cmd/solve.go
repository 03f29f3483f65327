package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/ferrous-lang/crucible/cli/render"
	"github.com/ferrous-lang/crucible/types"
)

// SolveResponse is the response for the solve command.
type SolveResponse struct {
	Solver string `json:"solver"`
	Answer string `json:"answer"`
}

// SolveCommand returns the solve command: run one SMT query through the
// solver backend, reading the query from a file argument or stdin.
func SolveCommand() *cli.Command {
	return &cli.Command{
		Name:      "solve",
		Usage:     "Run an SMT query through the external solver",
		ArgsUsage: "[query-file]",
		Flags: append(SharedFlags(),
			&cli.StringFlag{
				Name:  "solver",
				Usage: "Solver binary name or path (default: eld)",
			},
			&cli.StringFlag{
				Name:  "cache-dir",
				Usage: "Directory for the answer cache",
			},
		),
		Action: solveAction,
	}
}

func solveAction(c *cli.Context) error {
	if c.NArg() > 1 {
		return cli.Exit("solve takes at most one query file argument", exitUsage)
	}

	query, err := readQuery(c)
	if err != nil {
		return cli.Exit(fmt.Sprintf("cannot read query: %v", err), exitUsage)
	}

	deps, err := buildDeps(c)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}

	res := deps.dispatcher.Dispatch(types.TagSMTQuery, query)
	deps.logMetrics()

	if !res.Success {
		if deps.sugar != nil {
			deps.sugar.Warnf("query failed: %s", res.Data)
		}
		return cli.Exit(res.Data, exitQueryFailed)
	}
	if deps.sugar != nil {
		deps.sugar.Infof("solver answered %d bytes", len(res.Data))
	}

	r, err := render.NewRenderer(c)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}
	return r.Render(SolveResponse{Solver: deps.solverCmd, Answer: res.Data})
}

func readQuery(c *cli.Context) (string, error) {
	if c.NArg() == 1 {
		data, err := os.ReadFile(c.Args().First())
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
