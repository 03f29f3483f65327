package cmd

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/ferrous-lang/crucible/cache"
	"github.com/ferrous-lang/crucible/callback"
	"github.com/ferrous-lang/crucible/cli/config"
	"github.com/ferrous-lang/crucible/filereader"
	"github.com/ferrous-lang/crucible/log"
	"github.com/ferrous-lang/crucible/metrics"
	"github.com/ferrous-lang/crucible/solver"
	"github.com/ferrous-lang/crucible/types"
)

// runtimeDeps is the wired-up callback subsystem for one CLI invocation.
type runtimeDeps struct {
	dispatcher *callback.Dispatcher
	metrics    *metrics.Collector
	logger     *log.Logger
	sugar      *log.SugaredLogger
	solverCmd  string
}

// loadConfig reads the config file named by --config, or returns an empty
// config when the flag is unset.
func loadConfig(c *cli.Context) (*config.Config, error) {
	path := c.String("config")
	if path == "" {
		return &config.Config{}, nil
	}
	return config.Load(path)
}

// buildDeps wires the dispatcher from config values and flag overrides.
// Flags always win over config.
func buildDeps(c *cli.Context) (*runtimeDeps, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	solverCmd := cfg.Solver.Command
	if c.IsSet("solver") {
		solverCmd = c.String("solver")
	}
	cacheDir := cfg.Solver.CacheDir
	if c.IsSet("cache-dir") {
		cacheDir = c.String("cache-dir")
	}
	basePath := cfg.Reads.BasePath
	if c.IsSet("base-path") {
		basePath = c.String("base-path")
	}
	if basePath == "" {
		basePath = "."
	}

	sessionID := newSessionID()
	var logger *log.Logger
	if c.Bool("verbose") {
		logger = log.NewLogger(&types.SessionMeta{SessionID: sessionID})
	}

	sol := solver.New(solverCmd)
	sol.TempDir = cfg.Solver.TempDir
	sol.Log = logger
	if cacheDir != "" {
		store, err := cache.NewStore(cacheDir)
		if err != nil {
			return nil, fmt.Errorf("cannot open answer cache: %w", err)
		}
		sol.Cache = store
	}

	files := filereader.New(basePath, cfg.Reads.AllowedPaths)
	if cfg.Reads.Remote != nil {
		remote, err := filereader.NewS3Source(filereader.S3Config{
			Region:       cfg.Reads.Remote.Region,
			Endpoint:     cfg.Reads.Remote.Endpoint,
			UsePathStyle: cfg.Reads.Remote.S3PathStyle,
		})
		if err != nil {
			return nil, fmt.Errorf("cannot configure remote source: %w", err)
		}
		files.Remote = remote
	}

	collector := metrics.NewCollector(sessionID, sol.SolverCmd())
	sol.Metrics = collector
	files.Metrics = collector

	dispatcher := callback.NewDispatcher(files, sol)
	dispatcher.Metrics = collector
	dispatcher.Log = logger

	var sugar *log.SugaredLogger
	if logger != nil {
		sugar = logger.Sugar().With("solver", sol.SolverCmd())
		sugar.Debugf("callback runtime wired (cache: %v, remote: %v)", sol.Cache != nil, files.Remote != nil)
	}

	return &runtimeDeps{
		dispatcher: dispatcher,
		metrics:    collector,
		logger:     logger,
		sugar:      sugar,
		solverCmd:  sol.SolverCmd(),
	}, nil
}

// newSessionID generates a short random session identifier.
func newSessionID() string {
	var b [6]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "sess-000000000000"
	}
	return "sess-" + hex.EncodeToString(b[:])
}

// logMetrics emits the session counters at debug level when verbose.
func (d *runtimeDeps) logMetrics() {
	if d.logger == nil {
		return
	}
	snap := d.metrics.Snapshot()
	d.logger.Debug("session metrics", map[string]any{
		"files_read":         snap.FilesRead,
		"queries_dispatched": snap.QueriesDispatched,
		"queries_solved":     snap.QueriesSolved,
		"queries_failed":     snap.QueriesFailed,
		"cache_hits":         snap.CacheHits,
		"cache_misses":       snap.CacheMisses,
	})
}
