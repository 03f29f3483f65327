package metrics

import (
	"sync"
	"testing"
)

func TestCollector_Counters(t *testing.T) {
	c := NewCollector("sess-001", "eld")

	c.IncFilesRead()
	c.IncQueriesDispatched()
	c.IncQueriesDispatched()
	c.IncQueriesSolved()
	c.IncQueriesFailed()
	c.IncCacheHits()
	c.IncCacheMisses()
	c.IncCacheMisses()

	snap := c.Snapshot()
	if snap.FilesRead != 1 {
		t.Errorf("FilesRead = %d, want 1", snap.FilesRead)
	}
	if snap.QueriesDispatched != 2 {
		t.Errorf("QueriesDispatched = %d, want 2", snap.QueriesDispatched)
	}
	if snap.QueriesSolved != 1 || snap.QueriesFailed != 1 {
		t.Errorf("solved/failed = %d/%d, want 1/1", snap.QueriesSolved, snap.QueriesFailed)
	}
	if snap.CacheHits != 1 || snap.CacheMisses != 2 {
		t.Errorf("cache hits/misses = %d/%d, want 1/2", snap.CacheHits, snap.CacheMisses)
	}
	if snap.SessionID != "sess-001" || snap.Solver != "eld" {
		t.Errorf("dimensions = %q/%q", snap.SessionID, snap.Solver)
	}
}

func TestCollector_NilReceiverSafe(t *testing.T) {
	var c *Collector

	// Must not panic.
	c.IncFilesRead()
	c.IncQueriesDispatched()
	c.IncQueriesSolved()
	c.IncQueriesFailed()
	c.IncCacheHits()
	c.IncCacheMisses()

	snap := c.Snapshot()
	if snap != (Snapshot{}) {
		t.Errorf("nil collector snapshot = %+v, want zero", snap)
	}
}

func TestCollector_ConcurrentIncrements(t *testing.T) {
	c := NewCollector("sess-002", "eld")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.IncQueriesDispatched()
		}()
	}
	wg.Wait()

	if got := c.Snapshot().QueriesDispatched; got != 50 {
		t.Errorf("QueriesDispatched = %d, want 50", got)
	}
}
