package compiler

import (
	"errors"
	"fmt"
)

// Sentinel errors of the orchestration surface.
var (
	// ErrNoObjectsIncluded indicates a selection that matched no object.
	ErrNoObjectsIncluded = errors.New("pocogen: no objects included")
	// ErrNotBuilt indicates Generate without a successful Build.
	ErrNotBuilt = errors.New("pocogen: schema not built")
)

// InternalError wraps a failure or a recovered panic of Build or Generate.
type InternalError struct {
	// Phase is "build" or "generate".
	Phase string
	// Cause is the underlying error. Recovered panics are wrapped in an error.
	Cause error
	// Stack holds the goroutine stack of a recovered panic.
	Stack []byte
}

// Error implements the error interface.
func (e *InternalError) Error() string {
	return fmt.Sprintf("pocogen: %s: %v", e.Phase, e.Cause)
}

// Unwrap returns the underlying error.
func (e *InternalError) Unwrap() error {
	return e.Cause
}

// IsInternalError returns true if err is an InternalError.
func IsInternalError(err error) bool {
	var e *InternalError
	return errors.As(err, &e)
}

// IsPanic returns true if err is an InternalError recovered from a panic.
func IsPanic(err error) bool {
	var e *InternalError
	return errors.As(err, &e) && e.Stack != nil
}
