// Package glob decides whether a file name satisfies a directory's
// allow-patterns.
//
// Patterns use shell syntax: '*' matches any run of characters, '?' a single
// character, '[...]' a character class and '{a,b}' alternatives. Matching is
// case-sensitive and always applied to the base name of the file.
package glob

import (
	"path"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// Matches reports whether the base name of name satisfies at least one of
// patterns. An empty pattern set matches everything. Patterns with bad syntax
// never match.
func Matches(name string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	base := BaseName(name)
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, base); err == nil && ok {
			return true
		}
	}
	return false
}

// Invalid returns the patterns that are not valid globs, in input order.
func Invalid(patterns []string) []string {
	var bad []string
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			bad = append(bad, p)
		}
	}
	return bad
}

// BaseName returns the final element of name, accepting either OS or slash
// separators.
func BaseName(name string) string {
	return path.Base(filepath.ToSlash(name))
}
