// Package solver runs formal-verification queries through an external
// constraint solver process.
//
// The solve path is best-effort by design: the binary may be absent, the
// query may be rejected, the process may crash. Every environment failure
// degrades to a failed types.Result instead of aborting compilation; only
// contract violations (wrong callback kind) fault.
package solver

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ferrous-lang/crucible/cache"
	"github.com/ferrous-lang/crucible/iox"
	"github.com/ferrous-lang/crucible/log"
	"github.com/ferrous-lang/crucible/metrics"
	"github.com/ferrous-lang/crucible/proc"
	"github.com/ferrous-lang/crucible/types"
)

// DefaultCommand is the solver binary searched for on PATH when no
// override is configured. Eldarica is the Horn solver the Ferrous model
// checker targets.
const DefaultCommand = "eld"

// queryFileName is the fixed name of the query artifact within the temp
// directory. The name is deliberately not unique per call: the compiler
// pipeline issues at most one solve at a time, and concurrent solves from
// one process are unsupported (callers must serialize externally).
const queryFileName = "query.smt2"

// solverArgs is the fixed, non-configurable argument list passed before
// the query file path: print the solution, print counterexamples.
var solverArgs = []string{"-ssol", "-scex"}

// Command invokes the external solver. It holds only configuration; no
// per-call state survives between invocations, so a single Command serves
// an entire compilation session.
type Command struct {
	// Runner is the process capability. Defaults to the real OS runner.
	Runner proc.Runner
	// TempDir overrides the query artifact directory. Empty uses os.TempDir().
	TempDir string
	// Cache, when set, is consulted before spawning and updated after a
	// successful solve. It is advisory: cache failures never fail a solve.
	Cache *cache.Store
	// Metrics, when set, receives solve counters. Nil-receiver safe.
	Metrics *metrics.Collector
	// Log, when set, receives debug logging for the solve path.
	Log *log.Logger

	solverCmd string
}

// New creates a solver command. solverCmd overrides the binary name or
// path searched for; empty selects DefaultCommand.
func New(solverCmd string) *Command {
	if solverCmd == "" {
		solverCmd = DefaultCommand
	}
	return &Command{
		Runner:    proc.NewOSRunner(),
		solverCmd: solverCmd,
	}
}

// SolverCmd returns the configured solver command.
func (c *Command) SolverCmd() string {
	return c.solverCmd
}

// Solve answers an SMT query by invoking the external solver.
//
// Valid only for the smt-query callback kind; any other kind is a
// precondition violation and panics. Every other failure mode is
// normalized into a failed Result whose message carries the underlying
// diagnostic.
func (c *Command) Solve(kind, query string) types.Result {
	if kind != types.TagSMTQuery {
		panic(fmt.Sprintf("solver: SMT query callback used as callback kind %q", kind))
	}

	res, err := c.solve(query)
	if err != nil {
		res = types.Fail(fmt.Sprintf("SMT query callback failed: %v", err))
	}

	if res.Success {
		c.Metrics.IncQueriesSolved()
	} else {
		c.Metrics.IncQueriesFailed()
	}
	return res
}

// solve is the explicit error-returning chain behind Solve. Returned
// errors are environment failures; Solve converts them at the boundary.
func (c *Command) solve(query string) (types.Result, error) {
	tempDir := c.TempDir
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	queryFile := filepath.Join(tempDir, queryFileName)

	// The artifact is written even on a later cache hit so that each call
	// fully rewrites it, never exposing a previous call's query.
	if err := os.WriteFile(queryFile, []byte(query), 0o644); err != nil {
		return types.Result{}, fmt.Errorf("cannot write query file %s: %w", queryFile, err)
	}

	if answer, ok := c.cachedAnswer(query); ok {
		return types.Ok(answer), nil
	}

	binary := c.Runner.Find(c.solverCmd)
	if binary == "" {
		return types.Fail(c.notFoundMessage()), nil
	}

	args := append(append([]string{}, solverArgs...), queryFile)
	handle, err := c.Runner.Start(binary, args...)
	if err != nil {
		return types.Result{}, fmt.Errorf("cannot start solver %s: %w", binary, err)
	}

	// Collect non-empty output lines in emission order. Both liveness and
	// data availability gate the loop so output buffered just before exit
	// is not lost. Lines are read unbounded: counterexample output can
	// exceed any fixed token size.
	var data []string
	var readErr error
	out := bufio.NewReader(handle.Stdout())
	for handle.Running() {
		line, err := out.ReadString('\n')
		if trimmed := strings.TrimRight(line, "\r\n"); trimmed != "" {
			data = append(data, trimmed)
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				readErr = err
			}
			break
		}
	}
	if readErr != nil {
		// The pipe must be emptied before reaping: a child still writing
		// into a full pipe would block Wait forever.
		iox.DiscardErr(func() error {
			_, err := io.Copy(io.Discard, handle.Stdout())
			return err
		})
	}

	// Reap the child before returning, whatever the stream did.
	exitCode, waitErr := handle.Wait()
	if readErr != nil {
		return types.Result{}, fmt.Errorf("error reading solver output: %w", readErr)
	}
	if waitErr != nil {
		return types.Result{}, waitErr
	}

	answer := strings.Join(data, "\n")
	c.logDebug("solver exited", map[string]any{
		"binary":    binary,
		"exit_code": exitCode,
		"lines":     len(data),
	})

	c.storeAnswer(query, answer)
	return types.Ok(answer), nil
}

// notFoundMessage is the diagnostic for a missing solver binary. The
// default command keeps the historical message text.
func (c *Command) notFoundMessage() string {
	if c.solverCmd == DefaultCommand {
		return "Eldarica binary not found."
	}
	return fmt.Sprintf("Solver binary %q not found.", c.solverCmd)
}

// cachedAnswer consults the answer cache. Any cache failure is a miss.
func (c *Command) cachedAnswer(query string) (string, bool) {
	if c.Cache == nil {
		return "", false
	}
	rec, err := c.Cache.Get(query)
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			c.logDebug("answer cache read failed", map[string]any{"error": err.Error()})
		}
		c.Metrics.IncCacheMisses()
		return "", false
	}
	c.Metrics.IncCacheHits()
	return rec.Answer, true
}

// storeAnswer records a successful non-empty answer. Failures are logged
// and dropped; the cache never changes result semantics.
func (c *Command) storeAnswer(query, answer string) {
	if c.Cache == nil || answer == "" {
		return
	}
	if err := c.Cache.Put(query, answer, c.solverCmd); err != nil {
		c.logDebug("answer cache write failed", map[string]any{"error": err.Error()})
	}
}

func (c *Command) logDebug(message string, fields map[string]any) {
	if c.Log != nil {
		c.Log.Debug(message, fields)
	}
}
