package core

import "fmt"

// Warning is a recoverable problem found while building or validating. It is
// reported and counted, and processing continues with the next entry.
type Warning struct {
	Category ErrorCategory
	Stage    string // Owning stage id
	Path     string // Declared directory path
	File     string // Offending file, for pattern mismatches
	Message  string
}

// String formats the warning for the diagnostic stream.
func (w Warning) String() string {
	if w.Stage != "" {
		return fmt.Sprintf("%s (stage %s)", w.Message, w.Stage)
	}
	return w.Message
}

// CountByCategory tallies warnings per category.
func CountByCategory(warnings []Warning) map[ErrorCategory]int {
	counts := make(map[ErrorCategory]int)
	for _, w := range warnings {
		counts[w.Category]++
	}
	return counts
}
