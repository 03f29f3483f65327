// Package callback routes compiler callback requests to their backends.
//
// The dispatcher is the single entry point for out-of-process requests
// issued during compilation: source-file reads and SMT queries. Routing is
// a closed switch over the kind enum, not a handler registry; the set of
// kinds is fixed and an unknown kind is a caller bug, not input.
package callback

import (
	"github.com/ferrous-lang/crucible/log"
	"github.com/ferrous-lang/crucible/metrics"
	"github.com/ferrous-lang/crucible/types"
)

// FileBackend resolves source-file read requests.
type FileBackend interface {
	ReadFile(kind, path string) types.Result
}

// SolverBackend answers SMT queries.
type SolverBackend interface {
	Solve(kind, query string) types.Result
}

// Func is the callback contract consumed by the compiler core.
type Func func(kind, payload string) types.Result

// Dispatcher owns one file backend and one solver backend for its lifetime
// and holds no per-request state: a single instance serves arbitrarily many
// requests. Thread-safety under concurrent calls is the caller's problem,
// matching the single-in-flight assumption of the solver backend.
type Dispatcher struct {
	// Metrics, when set, receives routing counters. Nil-receiver safe.
	Metrics *metrics.Collector
	// Log, when set, receives per-request debug logging.
	Log *log.Logger

	files  FileBackend
	solver SolverBackend
}

// NewDispatcher creates a dispatcher over the two backends.
func NewDispatcher(files FileBackend, solver SolverBackend) *Dispatcher {
	return &Dispatcher{files: files, solver: solver}
}

// Dispatch routes one callback request by its kind tag and returns the
// backend's result unchanged.
//
// An unrecognized kind is a contract violation and panics (via
// types.KindFromTag); no caller should request a kind this subsystem does
// not advertise.
func (d *Dispatcher) Dispatch(kind, payload string) types.Result {
	switch types.KindFromTag(kind) {
	case types.KindReadFile:
		d.logDebug("dispatching file read", map[string]any{"path": payload})
		return d.files.ReadFile(kind, payload)
	case types.KindSMTQuery:
		d.Metrics.IncQueriesDispatched()
		d.logDebug("dispatching SMT query", map[string]any{"bytes": len(payload)})
		return d.solver.Solve(kind, payload)
	}
	panic("callback: unreachable kind")
}

// Callback returns the dispatch function in the shape the compiler core
// consumes.
func (d *Dispatcher) Callback() Func {
	return d.Dispatch
}

func (d *Dispatcher) logDebug(message string, fields map[string]any) {
	if d.Log != nil {
		d.Log.Debug(message, fields)
	}
}
