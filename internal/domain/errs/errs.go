// Package errs defines the error kinds shared by the match engine.
//
// Every error returned by the clock, the event log and the session carries one
// of the sentinel kinds below so callers can branch with errors.Is without
// depending on message text.
package errs

import (
	"errors"
	"fmt"
)

// Sentinel error kinds.
var (
	// ErrInvalidState reports an illegal clock phase transition.
	ErrInvalidState = errors.New("invalid state")
	// ErrNotFound reports an event index outside its sequence.
	ErrNotFound = errors.New("not found")
	// ErrPersistence reports a storage read or write failure.
	ErrPersistence = errors.New("persistence failure")
	// ErrValidation reports malformed input.
	ErrValidation = errors.New("validation failed")
)

// Error ties a kind to the operation that produced it.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

// Is matches the kind so errors.Is(err, ErrNotFound) works on wrapped values.
func (e *Error) Is(target error) bool {
	return e.Kind == target
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New returns an error of the given kind for op.
func New(op string, kind error) error {
	return &Error{Op: op, Kind: kind}
}

// Wrap attaches kind and op to err. A nil err yields nil.
func Wrap(op string, kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Kind: kind, Err: err}
}

// Newf returns an error of the given kind with a formatted detail message.
func Newf(op string, kind error, format string, args ...any) error {
	return &Error{Op: op, Kind: kind, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the first known kind in err's chain, or nil.
func KindOf(err error) error {
	for _, k := range []error{ErrInvalidState, ErrNotFound, ErrPersistence, ErrValidation} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
