// Package core holds the error taxonomy shared by the loader, builder and validator.
package core

// ErrorCategory classifies a failure so callers can decide whether to abort
// the invocation or count a warning and keep going.
type ErrorCategory int

const (
	CategoryNone             ErrorCategory = iota // No error
	CategoryNotFound                              // Spec document does not exist
	CategoryParse                                 // Spec document is not valid YAML
	CategorySchema                                // Required keys absent or of the wrong shape
	CategoryMissingPath                           // Directory entry without a path
	CategoryMissingDirectory                      // Declared directory absent on disk
	CategoryPatternMismatch                       // File violates its directory's allow-patterns
	CategoryInvalidPattern                        // Allow-pattern with bad glob syntax
	CategoryMalformedEntry                        // Directory entry field that could not be decoded
)

// String returns the string representation of ErrorCategory
func (c ErrorCategory) String() string {
	switch c {
	case CategoryNone:
		return "none"
	case CategoryNotFound:
		return "not_found"
	case CategoryParse:
		return "parse"
	case CategorySchema:
		return "schema"
	case CategoryMissingPath:
		return "missing_path"
	case CategoryMissingDirectory:
		return "missing_directory"
	case CategoryPatternMismatch:
		return "pattern_mismatch"
	case CategoryInvalidPattern:
		return "invalid_pattern"
	case CategoryMalformedEntry:
		return "malformed_entry"
	default:
		return "unknown"
	}
}

// IsFatal reports whether errors of this category abort the invocation.
// Fatal categories are raised before any filesystem mutation happens.
func (c ErrorCategory) IsFatal() bool {
	switch c {
	case CategoryNotFound, CategoryParse, CategorySchema:
		return true
	default:
		return false
	}
}
