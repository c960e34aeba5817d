// Package validator audits an existing tree against a spec's allow-patterns.
// It only reads: warnings are reported and counted, nothing is changed.
package validator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/devicelab-dev/dirspec/pkg/core"
	"github.com/devicelab-dev/dirspec/pkg/glob"
	"github.com/devicelab-dev/dirspec/pkg/logger"
	"github.com/devicelab-dev/dirspec/pkg/scaffold"
	"github.com/devicelab-dev/dirspec/pkg/spec"
	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// Result contains the validation result.
type Result struct {
	// Warnings contains every problem found, in walk order.
	Warnings []core.Warning
	// Dirs is the number of declared directories that were found and checked.
	Dirs int
	// Files is the number of files checked against allow-patterns.
	Files int
}

// Count returns the number of warnings.
func (r *Result) Count() int {
	return len(r.Warnings)
}

// IsValid returns true if there are no warnings.
func (r *Result) IsValid() bool {
	return len(r.Warnings) == 0
}

// Options configures a Validator.
type Options struct {
	Root    string // Project root, used only to print absolute paths
	DocFile string // Generated rules document, exempt from checks (default README.md)
}

// Validator checks files under each declared directory.
type Validator struct {
	fs      billy.Filesystem
	root    string
	docFile string
}

// New creates a new Validator reading from fs.
func New(fs billy.Filesystem, opts Options) *Validator {
	if opts.DocFile == "" {
		opts.DocFile = scaffold.DocFile
	}
	return &Validator{fs: fs, root: opts.Root, docFile: opts.DocFile}
}

// Validate walks every directory entry of s and returns the warnings found.
func (v *Validator) Validate(s *spec.Specification) *Result {
	result := &Result{}

	for r := range spec.Walk(s) {
		v.validateRecord(r, result)
	}

	return result
}

func (v *Validator) validateRecord(r spec.Record, result *Result) {
	for _, issue := range r.Dir.Issues {
		v.warn(result, core.Warning{
			Category: core.CategoryMalformedEntry,
			Stage:    r.StageID,
			Path:     r.Dir.Path,
			Message:  fmt.Sprintf("Malformed dir spec: %s", issue),
		})
	}

	if r.Dir.Path == "" {
		v.warn(result, core.Warning{
			Category: core.CategoryMissingPath,
			Stage:    r.StageID,
			Message:  "Dir spec without path; skipping",
		})
		return
	}

	if r.Dir.EscapesRoot() {
		v.warn(result, core.Warning{
			Category: core.CategoryMalformedEntry,
			Stage:    r.StageID,
			Path:     r.Dir.Path,
			Message:  fmt.Sprintf("Dir spec %s escapes project root; skipping", r.Dir.Path),
		})
		return
	}

	for _, p := range glob.Invalid(r.Dir.Allow) {
		v.warn(result, core.Warning{
			Category: core.CategoryInvalidPattern,
			Stage:    r.StageID,
			Path:     r.Dir.Path,
			Message:  fmt.Sprintf("Invalid allow-pattern %q for %s", p, r.Dir.Path),
		})
	}

	dir := r.Dir.CleanPath()
	info, err := v.fs.Stat(dir)
	if err != nil || !info.IsDir() {
		v.warn(result, core.Warning{
			Category: core.CategoryMissingDirectory,
			Stage:    r.StageID,
			Path:     r.Dir.Path,
			Message:  fmt.Sprintf("Missing directory: %s", v.display(dir)),
		})
		return
	}
	result.Dirs++

	files, err := v.collectFiles(dir)
	if err != nil {
		logger.Error("failed to scan %s: %v", v.display(dir), err)
	}

	// Empty allow means everything is allowed.
	if !r.Dir.HasRestrictions() {
		return
	}

	for _, f := range files {
		result.Files++
		if glob.Matches(f, r.Dir.Allow) {
			continue
		}
		v.warn(result, core.Warning{
			Category: core.CategoryPatternMismatch,
			Stage:    r.StageID,
			Path:     r.Dir.Path,
			File:     f,
			Message:  fmt.Sprintf("File does not match allow-patterns: %s (allowed: %s)", v.display(f), formatPatterns(r.Dir.Allow)),
		})
	}
}

// collectFiles lists every file beneath dir, skipping the rules document and
// symlinks to directories. A dangling link counts as a file.
// Unreadable subdirectories are logged and skipped.
func (v *Validator) collectFiles(dir string) ([]string, error) {
	var files []string

	err := util.Walk(v.fs, dir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			if p == dir {
				return err
			}
			logger.Debug("skipping %s: %v", p, err)
			return nil
		}
		if info.IsDir() {
			return nil
		}
		// Links to directories are listed, not followed, and are not files.
		if info.Mode()&os.ModeSymlink != 0 {
			if target, err := v.fs.Stat(p); err == nil && target.IsDir() {
				return nil
			}
		}
		if info.Name() == v.docFile {
			return nil
		}
		files = append(files, filepath.ToSlash(p))
		return nil
	})

	return files, err
}

func (v *Validator) warn(result *Result, w core.Warning) {
	logger.Warn("%s", w.Message)
	result.Warnings = append(result.Warnings, w)
}

// display joins p onto the root for messages.
func (v *Validator) display(p string) string {
	if v.root == "" {
		return p
	}
	return filepath.Join(v.root, filepath.FromSlash(strings.TrimPrefix(p, "/")))
}

func formatPatterns(patterns []string) string {
	quoted := make([]string, len(patterns))
	for i, p := range patterns {
		quoted[i] = fmt.Sprintf("%q", p)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
