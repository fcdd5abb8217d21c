package oocsim

import "github.com/ehrlich-b/go-oocsim/internal/simerr"

// SimError is the structured error type returned (and, for unrecoverable
// invariant violations, panicked with) across the simulator. The type
// itself lives in internal/simerr so internal packages can construct it
// without importing this root package; this is a type alias, not a
// wrapper, so errors.As/errors.Is work identically on both names.
type SimError = simerr.SimError

// ErrorCode categorizes a SimError.
type ErrorCode = simerr.Code

const (
	CodeTraceParse = simerr.CodeTraceParse
	CodeInvariant  = simerr.CodeInvariant
	CodeConfig     = simerr.CodeConfig
)

// NewError creates a new structured error with no cycle context.
func NewError(op string, code ErrorCode, msg string) *SimError {
	return simerr.New(op, code, msg)
}

// NewErrorAtCycle creates a new structured error tagged with the
// simulation cycle it occurred at.
func NewErrorAtCycle(op string, code ErrorCode, cycle Cycle, msg string) *SimError {
	return simerr.AtCycle(op, code, cycle, msg)
}

// WrapError wraps an existing error with oocsim context.
func WrapError(op string, code ErrorCode, inner error) *SimError {
	return simerr.Wrap(op, code, inner)
}

// IsCode reports whether err is a *SimError (anywhere in its chain) with
// the given code.
func IsCode(err error, code ErrorCode) bool {
	return simerr.IsCode(err, code)
}
