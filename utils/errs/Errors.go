// Package errs implements the error kinds shared by the training and
// analysis code.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an Error
type Kind string

const (
	// InvalidArgument reports malformed parameters, e.g. a non-positive
	// state count or the wrong number of model directories
	InvalidArgument Kind = "invalid argument"

	// NumericalDivergence reports a non-finite target, loss or gradient.
	// Training never recovers from it.
	NumericalDivergence Kind = "numerical divergence"

	// PersistenceFailure reports that a configuration, result, or model
	// file could not be read or written
	PersistenceFailure Kind = "persistence failure"
)

// Error is an error of some Kind raised by operation Op
type Error struct {
	Op   string
	Kind Kind
	Err  error
}

// Error satisfies the error interface
func (e *Error) Error() string {
	if e.Err == nil {
		return e.Op + ": " + string(e.Kind)
	}
	return e.Op + ": " + e.Err.Error()
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// New returns a new Error of Kind k with a formatted message
func New(op string, k Kind, format string, args ...interface{}) error {
	return &Error{Op: op, Kind: k, Err: fmt.Errorf(format, args...)}
}

// Wrap wraps err as an Error of Kind k. If err is nil, Wrap returns nil.
func Wrap(op string, k Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Kind: k, Err: err}
}

// KindOf returns the Kind of the outermost Error in err's chain, or the
// empty Kind if err wraps no Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsInvalidArgument returns whether err reports an invalid argument
func IsInvalidArgument(err error) bool {
	return KindOf(err) == InvalidArgument
}

// IsNumericalDivergence returns whether err reports numerical divergence
func IsNumericalDivergence(err error) bool {
	return KindOf(err) == NumericalDivergence
}

// IsPersistence returns whether err reports a persistence failure
func IsPersistence(err error) bool {
	return KindOf(err) == PersistenceFailure
}
