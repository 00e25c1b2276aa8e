package dbgerr

import (
	"fmt"
)

/*
Traceable can record and show the call-path a DebugError traveled
through before it reached the caller that finally handles it.
*/
type Traceable interface {
	error

	/*
		AddTrace adds a trace step described by a human readable frame
		label (e.g. "Prog!Prog.M (Prog.cs:42)").
	*/
	AddTrace(step string)

	/*
		GetTrace returns the current trace.
	*/
	GetTrace() []string
}

/*
DebugError is the core's error type. Op names the operation which
failed (e.g. "breakpoint.Resolve", "coordinator.WaitForEval") so that
every logged error carries the failing operation name as spec.md §7
requires.
*/
type DebugError struct {
	Kind   Kind
	Op     string
	Detail string
	Cause  error
	Trace  []string
}

/*
New creates a new DebugError.
*/
func New(kind Kind, op string, detail string) *DebugError {
	return &DebugError{Kind: kind, Op: op, Detail: detail}
}

/*
Wrap creates a new DebugError which wraps an existing error.
*/
func Wrap(kind Kind, op string, cause error) *DebugError {
	detail := ""
	if cause != nil {
		detail = cause.Error()
	}
	return &DebugError{Kind: kind, Op: op, Detail: detail, Cause: cause}
}

/*
Error returns a human-readable string representation of this error.
*/
func (e *DebugError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%v: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%v: %v (%v)", e.Op, e.Kind, e.Detail)
}

/*
Unwrap returns the wrapped cause, if any.
*/
func (e *DebugError) Unwrap() error {
	return e.Cause
}

/*
AddTrace adds a trace step.
*/
func (e *DebugError) AddTrace(step string) {
	e.Trace = append(e.Trace, step)
}

/*
GetTrace returns the current trace.
*/
func (e *DebugError) GetTrace() []string {
	return e.Trace
}

/*
Is reports whether err is a *DebugError of the given kind. Intended
for use with errors.Is-style call sites that only care about the
classification.
*/
func Is(err error, kind Kind) bool {
	de, ok := err.(*DebugError)
	return ok && de.Kind == kind
}
