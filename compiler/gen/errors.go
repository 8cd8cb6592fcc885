package gen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure cases.
var (
	// ErrInvalidConfig indicates settings no run can use.
	ErrInvalidConfig = errors.New("pocogen: invalid configuration")
	// ErrGenerationFailed indicates a code generation failure.
	ErrGenerationFailed = errors.New("pocogen: code generation failed")
	// ErrInvalidObject indicates an object that could not be emitted.
	ErrInvalidObject = errors.New("pocogen: invalid object")
	// ErrSnapshotOpen is returned by StartSnapshot while a snapshot is open.
	ErrSnapshotOpen = errors.New("pocogen: snapshot already open")
	// ErrNoSnapshot is returned by EndSnapshot when no snapshot is open.
	ErrNoSnapshot = errors.New("pocogen: no snapshot open")
	// ErrUnknownDialect indicates a dialect without registered type strategies.
	ErrUnknownDialect = errors.New("pocogen: no type strategies for dialect")
)

// ConfigError represents a configuration error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("pocogen: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("pocogen: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// GenerationError represents a code generation error.
type GenerationError struct {
	Phase   string // "traversal", "format", "write"
	File    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	var b strings.Builder
	b.WriteString("pocogen: generation error")
	if e.Phase != "" {
		b.WriteString(" in phase ")
		b.WriteString(e.Phase)
	}
	if e.File != "" {
		b.WriteString(" (file: ")
		b.WriteString(e.File)
		b.WriteString(")")
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for GenerationError.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// NewGenerationError creates a new GenerationError.
func NewGenerationError(phase, file, message string, cause error) *GenerationError {
	return &GenerationError{
		Phase:   phase,
		File:    file,
		Message: message,
		Cause:   cause,
	}
}

// ObjectError represents a failure attached to one database object. Metadata
// providers store it on the object's Err field; the generator renders its
// chain in place of the object body.
type ObjectError struct {
	Kind    string // "table", "view", ...
	Object  string // qualified object name
	Column  string // column name (if applicable)
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ObjectError) Error() string {
	var b strings.Builder
	b.WriteString("pocogen: ")
	if e.Kind != "" {
		b.WriteString(e.Kind)
		b.WriteString(" ")
	}
	b.WriteString(e.Object)
	if e.Column != "" {
		b.WriteString(" column ")
		b.WriteString(e.Column)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *ObjectError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for ObjectError.
func (e *ObjectError) Is(target error) bool {
	return target == ErrInvalidObject
}

// NewObjectError creates a new ObjectError.
func NewObjectError(kind, object, column, message string, cause error) *ObjectError {
	return &ObjectError{
		Kind:    kind,
		Object:  object,
		Column:  column,
		Message: message,
		Cause:   cause,
	}
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// IsGenerationError reports whether the error is a GenerationError.
func IsGenerationError(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr)
}

// IsObjectError reports whether the error is an ObjectError.
func IsObjectError(err error) bool {
	var objErr *ObjectError
	return errors.As(err, &objErr)
}
