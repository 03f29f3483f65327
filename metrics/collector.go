// Package metrics provides per-session metrics collection.
//
// The Collector accumulates counters during one compilation session. It is a
// leaf package with no internal dependencies. All increment methods are
// nil-receiver safe so that metrics can be left unwired in library use.
package metrics

import "sync"

// Snapshot is an immutable point-in-time view of session counters.
// Returned by Collector.Snapshot(). Safe to read concurrently after creation.
type Snapshot struct {
	// Callback routing
	FilesRead         int64
	QueriesDispatched int64

	// Solver
	QueriesSolved int64
	QueriesFailed int64

	// Answer cache
	CacheHits   int64
	CacheMisses int64

	// Dimensions (informational, set at construction)
	SessionID string
	Solver    string
}

// Collector accumulates metrics during a single session.
// Thread-safe via sync.Mutex.
type Collector struct {
	mu sync.Mutex

	filesRead         int64
	queriesDispatched int64
	queriesSolved     int64
	queriesFailed     int64
	cacheHits         int64
	cacheMisses       int64

	sessionID string
	solver    string
}

// NewCollector creates a collector with informational dimensions.
func NewCollector(sessionID, solver string) *Collector {
	return &Collector{sessionID: sessionID, solver: solver}
}

// IncFilesRead records one file-read callback.
func (c *Collector) IncFilesRead() { c.inc(func() { c.filesRead++ }) }

// IncQueriesDispatched records one SMT query routed to the solver backend.
func (c *Collector) IncQueriesDispatched() { c.inc(func() { c.queriesDispatched++ }) }

// IncQueriesSolved records one query that produced a successful result.
func (c *Collector) IncQueriesSolved() { c.inc(func() { c.queriesSolved++ }) }

// IncQueriesFailed records one query that produced a failed result.
func (c *Collector) IncQueriesFailed() { c.inc(func() { c.queriesFailed++ }) }

// IncCacheHits records one answer served from the cache.
func (c *Collector) IncCacheHits() { c.inc(func() { c.cacheHits++ }) }

// IncCacheMisses records one cache lookup that fell through to the solver.
func (c *Collector) IncCacheMisses() { c.inc(func() { c.cacheMisses++ }) }

// inc runs bump under the mutex. The nil check makes every increment a
// no-op on a nil collector.
func (c *Collector) inc(bump func()) {
	if c == nil {
		return
	}
	c.mu.Lock()
	bump()
	c.mu.Unlock()
}

// Snapshot returns an immutable view of all counters.
// Safe to call on a nil collector; returns a zero snapshot.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		FilesRead:         c.filesRead,
		QueriesDispatched: c.queriesDispatched,
		QueriesSolved:     c.queriesSolved,
		QueriesFailed:     c.queriesFailed,
		CacheHits:         c.cacheHits,
		CacheMisses:       c.cacheMisses,
		SessionID:         c.sessionID,
		Solver:            c.solver,
	}
}
