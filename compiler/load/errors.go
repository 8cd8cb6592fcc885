package load

import "errors"

// Sentinel errors returned by providers. The compiler package maps each of
// them to a result code with errors.Is.
var (
	// ErrConnectionMissing indicates an empty connection string or schema path.
	ErrConnectionMissing = errors.New("pocogen: connection is missing")
	// ErrConnectionInvalid indicates a connection string or schema document
	// that cannot be parsed.
	ErrConnectionInvalid = errors.New("pocogen: connection is invalid")
	// ErrAmbiguousDialect indicates a connection string matched by more than
	// one dialect.
	ErrAmbiguousDialect = errors.New("pocogen: ambiguous dialect")
	// ErrNoMatchingDialect indicates a connection string matched by no dialect,
	// or a dialect without an inspector.
	ErrNoMatchingDialect = errors.New("pocogen: no matching dialect")
	// ErrServerUnreachable indicates a source that could not be reached.
	ErrServerUnreachable = errors.New("pocogen: server unreachable")
)
