package types

// SessionMeta identifies one compilation session for logging context.
// A session spans one compiler invocation; all callback activity within
// it shares these fields.
type SessionMeta struct {
	// SessionID is the canonical session identifier.
	SessionID string
	// SourceUnit is the translation unit being compiled, if known.
	SourceUnit *string
}
