// Package iox provides I/O helpers for resource cleanup.
package iox

import "io"

// DiscardClose closes c and discards the error.
// Use in defer statements where close errors are unactionable:
//
//	defer iox.DiscardClose(f)
func DiscardClose(c io.Closer) { _ = c.Close() }

// DiscardErr calls fn and discards the returned error.
// Use for non-Close cleanup calls where errors are unactionable, such as
// draining a pipe whose contents no longer matter.
func DiscardErr(fn func() error) { _ = fn() }
