// Package cache provides a content-addressed store of solver answers.
//
// This file defines sentinel errors and an error wrapper for classifying
// cache storage failures. Callers use errors.Is/errors.As for typed
// assertions rather than string matching.
package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"
)

// Sentinel errors for cache failure classification.
var (
	// ErrNotFound indicates no cached answer exists for the query.
	ErrNotFound = errors.New("answer not cached")

	// ErrPermissionDenied indicates a filesystem permission failure.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrDiskFull indicates the cache volume is out of space.
	ErrDiskFull = errors.New("no space left on device")

	// ErrCorrupt indicates a cache record that cannot be decoded.
	ErrCorrupt = errors.New("corrupt cache record")
)

// StoreError wraps an underlying error with cache classification.
// It preserves the original error in the chain for inspection via errors.As.
type StoreError struct {
	// Kind is the sentinel error for classification.
	Kind error
	// Op is the operation that failed ("get", "put", "list", "clear").
	Op string
	// Path is the cache file involved, if any.
	Path string
	// Err is the underlying error.
	Err error
}

func (e *StoreError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("cache %s %s: %v: %v", e.Op, e.Path, e.Kind, e.Err)
	}
	return fmt.Sprintf("cache %s: %v: %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As chain traversal.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is reports whether the error matches the target sentinel.
func (e *StoreError) Is(target error) bool {
	return errors.Is(e.Kind, target)
}

// wrapError classifies and wraps a storage operation error.
// Returns nil if err is nil.
func wrapError(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Kind: classify(err), Op: op, Path: path, Err: err}
}

// classify maps OS-level errors onto sentinels. Unlike remote object
// stores there are no wire-level error strings here, so classification
// is purely typed.
func classify(err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ErrNotFound
	case errors.Is(err, fs.ErrPermission):
		return ErrPermissionDenied
	case errors.Is(err, syscall.ENOSPC):
		return ErrDiskFull
	default:
		return errors.New("storage error")
	}
}
