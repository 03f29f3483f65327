package types

// Result is the value returned by every callback invocation.
//
// Data is interpreted through Success: on success it carries the resolved
// file content or the solver's captured output, on failure it carries a
// human-readable diagnostic. The two readings are never meaningful at once.
type Result struct {
	Success bool   `json:"success"`
	Data    string `json:"data"`
}

// Ok builds a successful result carrying data.
func Ok(data string) Result {
	return Result{Success: true, Data: data}
}

// Fail builds a failed result carrying a diagnostic message.
func Fail(message string) Result {
	return Result{Success: false, Data: message}
}
