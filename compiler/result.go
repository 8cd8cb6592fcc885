package compiler

import (
	"errors"
	"fmt"

	"github.com/syssam/pocogen/compiler/load"
)

// Result is the outcome of Build, Generate and Run.
type Result uint8

// Result codes.
const (
	// Ok reports success.
	Ok Result = iota
	// Warning reports success with objects rendered as error comments.
	Warning
	// ConnectionInvalid reports a connection that could not be parsed.
	ConnectionInvalid
	// ConnectionMissing reports an empty connection.
	ConnectionMissing
	// AmbiguousDialect reports a connection matched by several dialects.
	AmbiguousDialect
	// NoMatchingDialect reports a connection matched by no dialect.
	NoMatchingDialect
	// ServerUnreachable reports a source that could not be reached.
	ServerUnreachable
	// NoObjectsIncluded reports a selection that matched nothing.
	NoObjectsIncluded
	// UnexpectedError reports any other failure. See Generator.Err.
	UnexpectedError
)

var resultNames = [...]string{
	Ok:                "ok",
	Warning:           "warning",
	ConnectionInvalid: "connection invalid",
	ConnectionMissing: "connection missing",
	AmbiguousDialect:  "ambiguous dialect",
	NoMatchingDialect: "no matching dialect",
	ServerUnreachable: "server unreachable",
	NoObjectsIncluded: "no objects included",
	UnexpectedError:   "unexpected error",
}

// String returns the result name.
func (r Result) String() string {
	if int(r) < len(resultNames) {
		return resultNames[r]
	}
	return fmt.Sprintf("result(%d)", uint8(r))
}

// Succeeded reports whether r is Ok or Warning.
func (r Result) Succeeded() bool { return r == Ok || r == Warning }

// resultOf maps a failure to its result code.
func resultOf(err error) Result {
	switch {
	case err == nil:
		return Ok
	case errors.Is(err, load.ErrConnectionMissing):
		return ConnectionMissing
	case errors.Is(err, load.ErrConnectionInvalid):
		return ConnectionInvalid
	case errors.Is(err, load.ErrAmbiguousDialect):
		return AmbiguousDialect
	case errors.Is(err, load.ErrNoMatchingDialect):
		return NoMatchingDialect
	case errors.Is(err, load.ErrServerUnreachable):
		return ServerUnreachable
	case errors.Is(err, ErrNoObjectsIncluded):
		return NoObjectsIncluded
	default:
		return UnexpectedError
	}
}
