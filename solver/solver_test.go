package solver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ferrous-lang/crucible/cache"
	"github.com/ferrous-lang/crucible/metrics"
	"github.com/ferrous-lang/crucible/proc"
	"github.com/ferrous-lang/crucible/types"
)

const testQuery = "(set-logic HORN)\n(check-sat)\n"

// newStubCommand wires a Command to a stub runner and an isolated temp dir.
func newStubCommand(t *testing.T, stub *proc.StubRunner) *Command {
	t.Helper()
	c := New("")
	c.Runner = stub
	c.TempDir = t.TempDir()
	return c
}

func TestSolve_WrongKindPanics(t *testing.T) {
	c := newStubCommand(t, &proc.StubRunner{FoundPath: "/bin/eld"})

	defer func() {
		if recover() == nil {
			t.Fatal("Solve should panic when called with the file-read kind")
		}
	}()
	c.Solve(types.TagReadFile, testQuery)
}

func TestSolve_BinaryNotFound(t *testing.T) {
	stub := &proc.StubRunner{FoundPath: ""}
	c := newStubCommand(t, stub)

	res := c.Solve(types.TagSMTQuery, testQuery)
	if res.Success {
		t.Error("expected failed result when binary is missing")
	}
	if res.Data != "Eldarica binary not found." {
		t.Errorf("Data = %q", res.Data)
	}
	if len(stub.Calls) != 0 {
		t.Errorf("no spawn should occur, got %d Start calls", len(stub.Calls))
	}
}

func TestSolve_NotFoundMessageNamesOverriddenCommand(t *testing.T) {
	c := New("z3-custom")
	c.Runner = &proc.StubRunner{FoundPath: ""}
	c.TempDir = t.TempDir()

	res := c.Solve(types.TagSMTQuery, testQuery)
	if res.Success {
		t.Error("expected failed result")
	}
	if !strings.Contains(res.Data, "z3-custom") {
		t.Errorf("Data = %q, should name the overridden command", res.Data)
	}
}

func TestSolve_JoinsNonEmptyLinesInOrder(t *testing.T) {
	stub := &proc.StubRunner{
		FoundPath: "/opt/eld",
		Output:    "sat\n\n(define-fun x () Int 4)\n\ndone\n",
	}
	c := newStubCommand(t, stub)

	res := c.Solve(types.TagSMTQuery, testQuery)
	if !res.Success {
		t.Fatalf("Solve failed: %s", res.Data)
	}
	want := "sat\n(define-fun x () Int 4)\ndone"
	if res.Data != want {
		t.Errorf("Data = %q, want %q", res.Data, want)
	}
}

func TestSolve_CollectsLinesLongerThanDefaultBuffers(t *testing.T) {
	// Counterexample lines routinely exceed bufio's 64KiB default token
	// limit; they must be collected intact, not degrade the solve.
	long := strings.Repeat("(x 1) ", 20*1024)
	stub := &proc.StubRunner{
		FoundPath: "/opt/eld",
		Output:    "sat\n" + long + "\n",
	}
	c := newStubCommand(t, stub)

	res := c.Solve(types.TagSMTQuery, testQuery)
	if !res.Success {
		t.Fatalf("Solve failed on long output: %s", res.Data)
	}
	want := "sat\n" + long
	if res.Data != want {
		t.Errorf("long line not collected intact (got %d bytes, want %d)", len(res.Data), len(want))
	}
}

func TestSolve_CollectsFinalLineWithoutNewline(t *testing.T) {
	stub := &proc.StubRunner{FoundPath: "/opt/eld", Output: "sat\nmodel"}
	c := newStubCommand(t, stub)

	res := c.Solve(types.TagSMTQuery, testQuery)
	if !res.Success {
		t.Fatalf("Solve failed: %s", res.Data)
	}
	if res.Data != "sat\nmodel" {
		t.Errorf("Data = %q, want output buffered before exit to be kept", res.Data)
	}
}

func TestSolve_EmptyOutputIsSuccess(t *testing.T) {
	stub := &proc.StubRunner{FoundPath: "/opt/eld", Output: ""}
	c := newStubCommand(t, stub)

	res := c.Solve(types.TagSMTQuery, testQuery)
	if !res.Success {
		t.Fatalf("Solve failed: %s", res.Data)
	}
	if res.Data != "" {
		t.Errorf("Data = %q, want empty", res.Data)
	}
}

func TestSolve_FixedArgumentShape(t *testing.T) {
	stub := &proc.StubRunner{FoundPath: "/opt/eld", Output: "sat\n"}
	c := newStubCommand(t, stub)

	c.Solve(types.TagSMTQuery, testQuery)

	if len(stub.Calls) != 1 {
		t.Fatalf("Start calls = %d, want 1", len(stub.Calls))
	}
	args := stub.Calls[0].Args
	if len(args) != 3 || args[0] != "-ssol" || args[1] != "-scex" {
		t.Fatalf("args = %v, want [-ssol -scex <query-file>]", args)
	}
	if filepath.Base(args[2]) != "query.smt2" {
		t.Errorf("query file = %q, want fixed name query.smt2", args[2])
	}
}

func TestSolve_WriteFailureSkipsSpawn(t *testing.T) {
	stub := &proc.StubRunner{FoundPath: "/opt/eld", Output: "sat\n"}
	c := New("")
	c.Runner = stub
	// A file where a directory is expected makes the artifact unwritable.
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	c.TempDir = blocker

	res := c.Solve(types.TagSMTQuery, testQuery)
	if res.Success {
		t.Error("expected failed result when the query file cannot be written")
	}
	if !strings.Contains(res.Data, "query file") {
		t.Errorf("Data = %q, should mention the query file", res.Data)
	}
	if len(stub.Calls) != 0 {
		t.Errorf("no spawn should occur, got %d Start calls", len(stub.Calls))
	}
}

func TestSolve_RewritesArtifactPerCall(t *testing.T) {
	var seen []string
	stub := &proc.StubRunner{
		FoundPath: "/opt/eld",
		Output:    "sat\n",
		OnStart: func(_ string, args []string) {
			content, err := os.ReadFile(args[len(args)-1])
			if err != nil {
				t.Errorf("read query artifact: %v", err)
				return
			}
			seen = append(seen, string(content))
		},
	}
	c := newStubCommand(t, stub)

	c.Solve(types.TagSMTQuery, "first query")
	c.Solve(types.TagSMTQuery, "second query")

	if len(seen) != 2 {
		t.Fatalf("spawns = %d, want 2", len(seen))
	}
	if seen[0] != "first query" || seen[1] != "second query" {
		t.Errorf("artifact contents = %q, each call must see only its own query", seen)
	}
}

func TestSolve_CacheHitSkipsSpawn(t *testing.T) {
	store, err := cache.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := store.Put(testQuery, "unsat", "eld"); err != nil {
		t.Fatalf("Put: %v", err)
	}

	stub := &proc.StubRunner{FoundPath: "/opt/eld", Output: "sat\n"}
	c := newStubCommand(t, stub)
	c.Cache = store

	res := c.Solve(types.TagSMTQuery, testQuery)
	if !res.Success || res.Data != "unsat" {
		t.Errorf("result = %+v, want cached answer", res)
	}
	if len(stub.Calls) != 0 {
		t.Errorf("cache hit should skip the spawn, got %d Start calls", len(stub.Calls))
	}
}

func TestSolve_StoresAnswerOnMiss(t *testing.T) {
	store, err := cache.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	stub := &proc.StubRunner{FoundPath: "/opt/eld", Output: "sat\n"}
	c := newStubCommand(t, stub)
	c.Cache = store

	c.Solve(types.TagSMTQuery, testQuery)

	rec, err := store.Get(testQuery)
	if err != nil {
		t.Fatalf("answer not stored: %v", err)
	}
	if rec.Answer != "sat" {
		t.Errorf("stored answer = %q, want sat", rec.Answer)
	}
}

func TestSolve_MetricsCounters(t *testing.T) {
	collector := metrics.NewCollector("sess-t", "eld")

	stub := &proc.StubRunner{FoundPath: "", Output: ""}
	c := newStubCommand(t, stub)
	c.Metrics = collector

	c.Solve(types.TagSMTQuery, testQuery) // binary missing: failed

	stub.FoundPath = "/opt/eld"
	stub.Output = "sat\n"
	c.Solve(types.TagSMTQuery, testQuery) // solved

	snap := collector.Snapshot()
	if snap.QueriesFailed != 1 {
		t.Errorf("QueriesFailed = %d, want 1", snap.QueriesFailed)
	}
	if snap.QueriesSolved != 1 {
		t.Errorf("QueriesSolved = %d, want 1", snap.QueriesSolved)
	}
}

func TestNew_DefaultsToEldarica(t *testing.T) {
	c := New("")
	if c.SolverCmd() != DefaultCommand {
		t.Errorf("SolverCmd = %q, want %q", c.SolverCmd(), DefaultCommand)
	}
	if c.Runner == nil {
		t.Error("Runner should default to the OS runner")
	}
}
