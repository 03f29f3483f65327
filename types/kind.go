// Package types defines core domain types for the Crucible callback runtime.
//
//nolint:revive // types is a common Go package naming convention
package types

import "fmt"

// Kind identifies which external-request protocol a callback uses.
// The set of kinds is closed: compiler callers may only request file
// reads and SMT queries.
type Kind int

const (
	// KindReadFile requests the content of a source file referenced by an
	// import directive. The payload is a file path.
	KindReadFile Kind = iota
	// KindSMTQuery requests an answer from the external SMT solver. The
	// payload is the full query text.
	KindSMTQuery
)

// Canonical wire-level tags for each kind. These are the exact strings
// exchanged between the compiler core and the dispatcher.
const (
	TagReadFile = "source"
	TagSMTQuery = "smt-query"
)

// String returns the canonical tag for the kind.
func (k Kind) String() string {
	switch k {
	case KindReadFile:
		return TagReadFile
	case KindSMTQuery:
		return TagSMTQuery
	}
	panic(fmt.Sprintf("types: no tag for callback kind %d", int(k)))
}

// KindFromTag maps a canonical tag back to its Kind.
// An unknown tag is a contract violation by the caller, not recoverable
// input, and panics.
func KindFromTag(tag string) Kind {
	switch tag {
	case TagReadFile:
		return KindReadFile
	case TagSMTQuery:
		return KindSMTQuery
	}
	panic(fmt.Sprintf("types: unknown callback kind %q", tag))
}
