package core

import (
	"fmt"
)

// Error is a categorized failure with optional source location.
type Error struct {
	Category ErrorCategory
	Code     string // Machine-readable code: not_found, schema, ...
	Message  string // Human-readable message
	Path     string // Spec document the error refers to, if any
	Line     int    // 1-based line in Path, 0 when unknown
	Cause    error  // Underlying error
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	switch {
	case e.Path != "" && e.Line > 0:
		return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, msg)
	case e.Path != "":
		return fmt.Sprintf("%s: %s", e.Path, msg)
	default:
		return msg
	}
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error with the same code, so errors.Is(err, ErrSchema)
// holds for copies produced by the With* helpers.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// IsFatal reports whether the error should abort the invocation.
func (e *Error) IsFatal() bool {
	return e.Category.IsFatal()
}

// WithCause returns a copy of the error with the given cause
func (e *Error) WithCause(cause error) *Error {
	c := *e
	c.Cause = cause
	return &c
}

// WithMessage returns a copy of the error with a custom message
func (e *Error) WithMessage(msg string) *Error {
	c := *e
	c.Message = msg
	return &c
}

// WithMessagef is WithMessage with fmt.Sprintf formatting.
func (e *Error) WithMessagef(format string, args ...interface{}) *Error {
	return e.WithMessage(fmt.Sprintf(format, args...))
}

// At returns a copy of the error located at path:line.
func (e *Error) At(path string, line int) *Error {
	c := *e
	c.Path = path
	c.Line = line
	return &c
}

// Predefined errors
var (
	// Fatal: raised by the spec loader
	ErrNotFound = &Error{
		Category: CategoryNotFound,
		Code:     "not_found",
		Message:  "spec document not found",
	}
	ErrParse = &Error{
		Category: CategoryParse,
		Code:     "parse_error",
		Message:  "spec document is not valid YAML",
	}
	ErrSchema = &Error{
		Category: CategorySchema,
		Code:     "schema_error",
		Message:  "spec document does not match the schema",
	}

	// Recoverable: counted as warnings
	ErrMissingPath = &Error{
		Category: CategoryMissingPath,
		Code:     "missing_path",
		Message:  "directory entry has no path",
	}
	ErrMissingDirectory = &Error{
		Category: CategoryMissingDirectory,
		Code:     "missing_directory",
		Message:  "directory does not exist",
	}
	ErrPatternMismatch = &Error{
		Category: CategoryPatternMismatch,
		Code:     "pattern_mismatch",
		Message:  "file does not match allow-patterns",
	}
	ErrInvalidPattern = &Error{
		Category: CategoryInvalidPattern,
		Code:     "invalid_pattern",
		Message:  "allow-pattern is not a valid glob",
	}
)

// NewError creates a new Error with the given parameters
func NewError(category ErrorCategory, code, message string) *Error {
	return &Error{
		Category: category,
		Code:     code,
		Message:  message,
	}
}
