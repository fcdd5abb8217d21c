// Package simerr defines the structured error type shared by every layer
// of the simulator, from trace parsing to in-loop invariant violations.
// It lives in its own package (rather than the root oocsim package, the
// teacher's choice) so internal packages — which cannot import their own
// module's root package — can construct and panic with it directly.
package simerr

import (
	"errors"
	"fmt"

	"github.com/ehrlich-b/go-oocsim/internal/constants"
)

// Code categorizes a SimError at a high level, mirroring the teacher's
// UblkErrorCode.
type Code string

const (
	CodeTraceParse Code = "trace parse error"
	CodeInvariant  Code = "invariant violation"
	CodeConfig     Code = "invalid configuration"
)

// SimError is the structured error type returned and panicked with across
// the simulator.
type SimError struct {
	Op    string        // the operation that failed, e.g. "core.issue", "trace.next"
	Code  Code          // high-level category
	Cycle constants.Cycle // simulation cycle at which the error occurred, -1 if not applicable
	Msg   string        // human-readable detail
	Inner error         // wrapped error, if any
}

func (e *SimError) Error() string {
	if e.Cycle >= 0 {
		return fmt.Sprintf("oocsim: %s: %s (op=%s cycle=%d)", e.Code, e.Msg, e.Op, e.Cycle)
	}
	return fmt.Sprintf("oocsim: %s: %s (op=%s)", e.Code, e.Msg, e.Op)
}

func (e *SimError) Unwrap() error { return e.Inner }

// Is supports errors.Is against another *SimError, compared by Code. Any
// other target does not match.
func (e *SimError) Is(target error) bool {
	if target == nil {
		return false
	}
	if te, ok := target.(*SimError); ok {
		return e.Code == te.Code
	}
	return false
}

// New builds a SimError with no wrapped cause and no cycle context.
func New(op string, code Code, msg string) *SimError {
	return &SimError{Op: op, Code: code, Cycle: -1, Msg: msg}
}

// AtCycle builds a SimError tagged with the simulation cycle it occurred at.
func AtCycle(op string, code Code, cycle constants.Cycle, msg string) *SimError {
	return &SimError{Op: op, Code: code, Cycle: cycle, Msg: msg}
}

// Wrap attaches op/code context to an existing error, preserving it as
// cause via Unwrap.
func Wrap(op string, code Code, inner error) *SimError {
	if inner == nil {
		return nil
	}
	return &SimError{Op: op, Code: code, Cycle: -1, Msg: inner.Error(), Inner: inner}
}

// IsCode reports whether err is a *SimError (anywhere in its chain) with
// the given code.
func IsCode(err error, code Code) bool {
	var se *SimError
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}
