// Package proc models external processes as a narrow capability:
// locate a binary on the search path, spawn it with its stdout redirected,
// read that output, and reap the process.
//
// The solver backend depends only on the Runner and Handle interfaces, so
// its logic is testable against the stub implementation without touching
// the real OS.
package proc

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
	"syscall"
)

// Runner spawns external processes.
type Runner interface {
	// Find resolves name against the process's executable search path.
	// Returns the absolute path, or "" when the binary is not installed.
	Find(name string) string
	// Start spawns path with args, stdout redirected to the returned
	// Handle. The process runs until it exits on its own; no timeout is
	// imposed here.
	Start(path string, args ...string) (Handle, error)
}

// Handle is a running child process.
type Handle interface {
	// Stdout returns the child's standard output stream.
	Stdout() io.Reader
	// Running reports whether the process has not yet been observed to exit.
	Running() bool
	// Wait blocks until the process exits and reaps it, returning the
	// exit code. A nonzero exit is not an error; only a failure to wait is.
	Wait() (int, error)
	// Kill terminates the process.
	Kill() error
}

// OSRunner is the real Runner over os/exec.
type OSRunner struct{}

// NewOSRunner creates a Runner backed by the operating system.
func NewOSRunner() *OSRunner {
	return &OSRunner{}
}

// Find resolves name via the PATH search.
func (r *OSRunner) Find(name string) string {
	path, err := exec.LookPath(name)
	if err != nil {
		return ""
	}
	return path
}

// Start spawns the binary with a stdout pipe.
func (r *OSRunner) Start(path string, args ...string) (Handle, error) {
	cmd := exec.Command(path, args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", path, err)
	}

	return &osHandle{cmd: cmd, stdout: stdout}, nil
}

type osHandle struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	exited bool
}

func (h *osHandle) Stdout() io.Reader {
	return h.stdout
}

func (h *osHandle) Running() bool {
	return !h.exited
}

// Wait reaps the process and extracts the exit code.
func (h *osHandle) Wait() (int, error) {
	err := h.cmd.Wait()
	h.exited = true

	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok {
			return status.ExitStatus(), nil
		}
		return -1, nil
	}
	return -1, fmt.Errorf("wait failed: %w", err)
}

func (h *osHandle) Kill() error {
	if h.cmd.Process != nil {
		return h.cmd.Process.Kill()
	}
	return nil
}

// Verify OSRunner implements Runner.
var _ Runner = (*OSRunner)(nil)
