package callback

import (
	"testing"

	"github.com/ferrous-lang/crucible/metrics"
	"github.com/ferrous-lang/crucible/types"
)

// fakeFiles records read calls and returns a fixed result.
type fakeFiles struct {
	kind, path string
	result     types.Result
}

func (f *fakeFiles) ReadFile(kind, path string) types.Result {
	f.kind, f.path = kind, path
	return f.result
}

// fakeSolver records solve calls and returns a fixed result.
type fakeSolver struct {
	kind, query string
	result      types.Result
}

func (f *fakeSolver) Solve(kind, query string) types.Result {
	f.kind, f.query = kind, query
	return f.result
}

func TestDispatch_RoutesReadFile(t *testing.T) {
	files := &fakeFiles{result: types.Ok("module main;")}
	solver := &fakeSolver{result: types.Ok("sat")}
	d := NewDispatcher(files, solver)

	res := d.Dispatch(types.TagReadFile, "main.frs")

	if files.kind != types.TagReadFile || files.path != "main.frs" {
		t.Errorf("file backend saw (%q, %q)", files.kind, files.path)
	}
	if solver.kind != "" {
		t.Error("solver backend should not be invoked for a file read")
	}
	if res != files.result {
		t.Errorf("result = %+v, want the backend result unchanged", res)
	}
}

func TestDispatch_RoutesSMTQuery(t *testing.T) {
	files := &fakeFiles{result: types.Ok("module main;")}
	solver := &fakeSolver{result: types.Fail("Eldarica binary not found.")}
	d := NewDispatcher(files, solver)

	res := d.Dispatch(types.TagSMTQuery, "(check-sat)")

	if solver.kind != types.TagSMTQuery || solver.query != "(check-sat)" {
		t.Errorf("solver backend saw (%q, %q)", solver.kind, solver.query)
	}
	if files.kind != "" {
		t.Error("file backend should not be invoked for a query")
	}
	if res != solver.result {
		t.Errorf("result = %+v, want the backend result unchanged", res)
	}
}

func TestDispatch_UnknownKindPanics(t *testing.T) {
	d := NewDispatcher(&fakeFiles{}, &fakeSolver{})

	defer func() {
		if recover() == nil {
			t.Fatal("Dispatch should panic on an unknown kind")
		}
	}()
	d.Dispatch("telemetry", "payload")
}

func TestDispatch_ReusableAcrossRequests(t *testing.T) {
	files := &fakeFiles{result: types.Ok("content")}
	solver := &fakeSolver{result: types.Ok("sat")}
	d := NewDispatcher(files, solver)

	for i := 0; i < 10; i++ {
		if res := d.Dispatch(types.TagReadFile, "a.frs"); !res.Success {
			t.Fatalf("dispatch %d failed", i)
		}
		if res := d.Dispatch(types.TagSMTQuery, "q"); !res.Success {
			t.Fatalf("dispatch %d failed", i)
		}
	}
}

func TestDispatch_CountsQueries(t *testing.T) {
	collector := metrics.NewCollector("sess-t", "eld")
	d := NewDispatcher(&fakeFiles{result: types.Ok("")}, &fakeSolver{result: types.Ok("sat")})
	d.Metrics = collector

	d.Dispatch(types.TagSMTQuery, "q1")
	d.Dispatch(types.TagSMTQuery, "q2")
	d.Dispatch(types.TagReadFile, "a.frs")

	if got := collector.Snapshot().QueriesDispatched; got != 2 {
		t.Errorf("QueriesDispatched = %d, want 2", got)
	}
}

func TestCallback_SameBehaviorAsDispatch(t *testing.T) {
	files := &fakeFiles{result: types.Ok("content")}
	d := NewDispatcher(files, &fakeSolver{})

	cb := d.Callback()
	res := cb(types.TagReadFile, "main.frs")
	if res != files.result {
		t.Errorf("callback result = %+v", res)
	}
}
