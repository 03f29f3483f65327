package cmd

import (
	"time"

	"github.com/urfave/cli/v2"

	"github.com/ferrous-lang/crucible/cache"
	"github.com/ferrous-lang/crucible/cli/render"
)

// CacheEntry is one row in the cache list response.
type CacheEntry struct {
	QueryHash string    `json:"query_hash"`
	Solver    string    `json:"solver"`
	Bytes     int       `json:"bytes"`
	CreatedAt time.Time `json:"created_at"`
}

// CacheClearResponse is the response for cache clear.
type CacheClearResponse struct {
	Removed int `json:"removed"`
}

// CacheCommand returns the cache command group for inspecting and
// clearing the answer cache.
func CacheCommand() *cli.Command {
	cacheDirFlag := &cli.StringFlag{
		Name:     "cache-dir",
		Usage:    "Directory of the answer cache",
		Required: true,
	}

	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect or clear the solver answer cache",
		Subcommands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List cached answers, newest first",
				Flags:  append(SharedFlags(), cacheDirFlag),
				Action: cacheListAction,
			},
			{
				Name:   "clear",
				Usage:  "Remove all cached answers",
				Flags:  append(SharedFlags(), cacheDirFlag),
				Action: cacheClearAction,
			},
		},
	}
}

func cacheListAction(c *cli.Context) error {
	store, err := cache.NewStore(c.String("cache-dir"))
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}

	records, err := store.List()
	if err != nil {
		return cli.Exit(err.Error(), exitQueryFailed)
	}

	entries := make([]CacheEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, CacheEntry{
			QueryHash: rec.QueryHash,
			Solver:    rec.Solver,
			Bytes:     len(rec.Answer),
			CreatedAt: rec.CreatedAt,
		})
	}

	r, err := render.NewRenderer(c)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}
	return r.Render(entries)
}

func cacheClearAction(c *cli.Context) error {
	store, err := cache.NewStore(c.String("cache-dir"))
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}

	removed, err := store.Clear()
	if err != nil {
		return cli.Exit(err.Error(), exitQueryFailed)
	}

	r, err := render.NewRenderer(c)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}
	return r.Render(CacheClearResponse{Removed: removed})
}
