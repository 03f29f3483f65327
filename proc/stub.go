package proc

import (
	"io"
	"strings"
)

// StartCall records one Start invocation on a StubRunner.
type StartCall struct {
	Path string
	Args []string
}

// StubRunner is a shape-correct Runner for tests. It never touches the OS:
// Find answers from a fixed path and Start hands out a handle streaming
// canned output.
type StubRunner struct {
	// FoundPath is returned by Find for any name. Empty simulates a
	// binary missing from the search path.
	FoundPath string
	// Output is the stdout content the stub child emits.
	Output string
	// ExitCode is returned by the handle's Wait.
	ExitCode int
	// StartErr, when set, makes Start fail.
	StartErr error
	// OnStart, when set, is invoked during Start with the spawn arguments.
	// Tests use it to observe on-disk state at spawn time.
	OnStart func(path string, args []string)

	// Calls records every Start invocation in order.
	Calls []StartCall
}

// Find returns the configured path regardless of name.
func (r *StubRunner) Find(string) string {
	return r.FoundPath
}

// Start records the call and returns a stub handle.
func (r *StubRunner) Start(path string, args ...string) (Handle, error) {
	r.Calls = append(r.Calls, StartCall{Path: path, Args: args})
	if r.OnStart != nil {
		r.OnStart(path, args)
	}
	if r.StartErr != nil {
		return nil, r.StartErr
	}
	return &stubHandle{stdout: strings.NewReader(r.Output), exitCode: r.ExitCode}, nil
}

type stubHandle struct {
	stdout   io.Reader
	exitCode int
	exited   bool
}

func (h *stubHandle) Stdout() io.Reader { return h.stdout }

func (h *stubHandle) Running() bool { return !h.exited }

func (h *stubHandle) Wait() (int, error) {
	h.exited = true
	return h.exitCode, nil
}

func (h *stubHandle) Kill() error {
	h.exited = true
	return nil
}

// Verify StubRunner implements Runner.
var _ Runner = (*StubRunner)(nil)
