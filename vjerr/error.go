// Package vjerr provides the structured error taxonomy used throughout
// VibeJudge's batch analysis core.
//
// Errors are classified into kinds (not Go types): input, state,
// transient, data, resource, and deadline. Integrity anomalies
// (unverifiable evidence, uniform scores, unusually high scores) are
// never represented as vjerr.Error values — they are flags recorded on
// an AgentResult, because they degrade confidence rather than abort an
// operation.
package vjerr

import (
	"fmt"
	"strings"
)

// Code classifies an Error by taxonomy kind.
type Code string

const (
	// CodeInput: malformed request, invalid URL, unknown id. Never
	// retried; surfaced to the caller as a 4xx-equivalent.
	CodeInput Code = "INPUT"

	// CodeState: a state-machine guard rejected the operation
	// (AnalysisInProgress, BudgetExceeded, NoPendingSubmissions,
	// InvalidStatusForMutation). Never retried.
	CodeState Code = "STATE"

	// CodeTransient: model timeout, store throttle, clone slow-channel.
	// Retried with exponential backoff up to 3 attempts.
	CodeTransient Code = "TRANSIENT"

	// CodeData: agent JSON parse failure or schema validation failure.
	// One corrective retry only; on repeat failure the agent
	// contributes no score.
	CodeData Code = "DATA"

	// CodeResource: clone disk-budget overflow. Falls back to a
	// shallow clone; permanent failure for the submission if that
	// also fails.
	CodeResource Code = "RESOURCE"

	// CodeDeadline: a per-submission or per-agent deadline expired.
	CodeDeadline Code = "DEADLINE"
)

// Retryable reports whether an error of this code should be retried by
// the caller's backoff policy. Input, state, and data errors are never
// retried; transient and resource errors are retryable (resource errors
// are "retried" via the shallow-clone fallback path, a single
// degraded-mode retry rather than a repeated attempt).
func (c Code) Retryable() bool {
	switch c {
	case CodeTransient, CodeResource:
		return true
	default:
		return false
	}
}

// Error is a structured error carrying the operation that failed, its
// taxonomy code, a message, and an optional wrapped cause.
type Error struct {
	Op      string
	Code    Code
	Message string
	Cause   error
}

// New creates a new Error.
func New(op string, code Code, message string) *Error {
	return &Error{Op: op, Code: code, Message: message}
}

// WithCause attaches an underlying error and returns the same Error for
// chaining.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// Error implements the error interface, formatting as
// "op [code]: message: cause".
func (e *Error) Error() string {
	parts := []string{fmt.Sprintf("%s [%s]", e.Op, e.Code)}
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}
	return strings.Join(parts, ": ")
}

// Unwrap returns the wrapped cause, enabling errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports equality by Op and Code, ignoring Message and Cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Op == t.Op && e.Code == t.Code
}

// Retryable reports whether this error's code is retryable.
func (e *Error) Retryable() bool {
	return e.Code.Retryable()
}
