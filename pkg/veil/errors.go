package veil

import (
	"errors"
	"fmt"
)

var (
	// ErrOpenFailed reports that no payload could be recovered. It is
	// deliberately generic: wrong key, tampering, and corruption must be
	// indistinguishable to the caller and to anyone watching the caller.
	ErrOpenFailed = errors.New("veil: open failed")

	// ErrInvalidParameter indicates an invalid parameter was provided.
	ErrInvalidParameter = errors.New("veil: invalid parameter")
)

// Error wraps an underlying error with the operation that failed.
type Error struct {
	Op  string // Operation that failed
	Err error  // Underlying error
}

func (e *Error) Error() string {
	return fmt.Sprintf("veil.%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// errorf creates a new Error.
func errorf(op string, format string, args ...interface{}) error {
	return &Error{
		Op:  op,
		Err: fmt.Errorf(format, args...),
	}
}
