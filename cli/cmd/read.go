package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/ferrous-lang/crucible/cli/render"
	"github.com/ferrous-lang/crucible/types"
)

// ReadResponse is the response for the read command.
type ReadResponse struct {
	Path    string `json:"path"`
	Bytes   int    `json:"bytes"`
	Content string `json:"content"`
}

// ReadCommand returns the read command: resolve one source payload through
// the file backend exactly as an import directive would.
func ReadCommand() *cli.Command {
	return &cli.Command{
		Name:      "read",
		Usage:     "Resolve a source path through the file backend",
		ArgsUsage: "<path>",
		Flags: append(SharedFlags(),
			&cli.StringFlag{
				Name:  "base-path",
				Usage: "Root directory relative imports resolve against",
			},
		),
		Action: readAction,
	}
}

func readAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("read takes exactly one path argument", exitUsage)
	}
	path := c.Args().First()

	deps, err := buildDeps(c)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}

	res := deps.dispatcher.Dispatch(types.TagReadFile, path)
	deps.logMetrics()

	if !res.Success {
		if deps.sugar != nil {
			deps.sugar.Errorf("read failed for %s: %s", path, res.Data)
		}
		return cli.Exit(res.Data, exitQueryFailed)
	}

	r, err := render.NewRenderer(c)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}
	return r.Render(ReadResponse{Path: path, Bytes: len(res.Data), Content: res.Data})
}
