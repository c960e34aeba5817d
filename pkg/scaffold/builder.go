// Package scaffold materializes a spec on disk: one directory per entry, each
// with a rules document, followed by the project-level standard and manifest.
package scaffold

import (
	"fmt"
	"path"

	"github.com/devicelab-dev/dirspec/pkg/core"
	"github.com/devicelab-dev/dirspec/pkg/glob"
	"github.com/devicelab-dev/dirspec/pkg/logger"
	"github.com/devicelab-dev/dirspec/pkg/report"
	"github.com/devicelab-dev/dirspec/pkg/spec"
	billy "github.com/go-git/go-billy/v5"
)

// Options configures a Builder. Zero values fall back to the defaults.
type Options struct {
	Root         string // Absolute project root, recorded in the manifest
	DocFile      string // Per-directory rules document (default README.md)
	StandardFile string // Project standard document (default DIRECTORY_STANDARD.md)
	ManifestFile string // Manifest (default DIRMANIFEST.json)
}

func (o Options) withDefaults() Options {
	if o.DocFile == "" {
		o.DocFile = DocFile
	}
	if o.StandardFile == "" {
		o.StandardFile = report.StandardFile
	}
	if o.ManifestFile == "" {
		o.ManifestFile = report.ManifestFile
	}
	return o
}

// Result describes what a build did.
type Result struct {
	Dirs     []string // Directories materialized, in walk order
	Warnings []core.Warning
}

// Builder creates directories and rules documents on a filesystem rooted at
// the project root. It never removes anything.
type Builder struct {
	fs   billy.Filesystem
	opts Options
}

// New creates a Builder writing to fs.
func New(fs billy.Filesystem, opts Options) *Builder {
	return &Builder{fs: fs, opts: opts.withDefaults()}
}

// Build creates every declared directory and writes its rules document.
// Entries without a path, or whose path leaves the root, are skipped with a
// warning. Only filesystem
// failures are returned as errors.
func (b *Builder) Build(s *spec.Specification) (*Result, error) {
	res := &Result{}

	for r := range spec.Walk(s) {
		for _, issue := range r.Dir.Issues {
			res.warn(core.Warning{
				Category: core.CategoryMalformedEntry,
				Stage:    r.StageID,
				Path:     r.Dir.Path,
				Message:  fmt.Sprintf("Malformed dir spec: %s", issue),
			})
		}

		if r.Dir.Path == "" {
			res.warn(core.Warning{
				Category: core.CategoryMissingPath,
				Stage:    r.StageID,
				Message:  fmt.Sprintf("Skipping empty path in stage %s", r.StageID),
			})
			continue
		}

		if r.Dir.EscapesRoot() {
			res.warn(core.Warning{
				Category: core.CategoryMalformedEntry,
				Stage:    r.StageID,
				Path:     r.Dir.Path,
				Message:  fmt.Sprintf("Skipping %s in stage %s: path escapes project root", r.Dir.Path, r.StageID),
			})
			continue
		}

		for _, p := range glob.Invalid(r.Dir.Allow) {
			res.warn(core.Warning{
				Category: core.CategoryInvalidPattern,
				Stage:    r.StageID,
				Path:     r.Dir.Path,
				Message:  fmt.Sprintf("Invalid allow-pattern %q for %s", p, r.Dir.Path),
			})
		}

		dir := r.Dir.CleanPath()
		if err := b.fs.MkdirAll(dir, 0o755); err != nil {
			return res, fmt.Errorf("create %s: %w", dir, err)
		}

		content, err := RenderReadme(r)
		if err != nil {
			return res, fmt.Errorf("render %s: %w", dir, err)
		}
		if err := report.WriteDocument(b.fs, path.Join(dir, b.opts.DocFile), []byte(content)); err != nil {
			return res, fmt.Errorf("write %s: %w", path.Join(dir, b.opts.DocFile), err)
		}

		logger.Debug("materialized %s", dir)
		res.Dirs = append(res.Dirs, dir)
	}

	return res, nil
}

// Generate runs the full creation workflow: Build, then the standard
// document and the manifest at the root of fs.
func (b *Builder) Generate(s *spec.Specification) (*Result, error) {
	res, err := b.Build(s)
	if err != nil {
		return res, err
	}
	if err := report.WriteStandard(b.fs, b.opts.StandardFile, s); err != nil {
		return res, err
	}
	if err := report.WriteManifest(b.fs, b.opts.ManifestFile, report.BuildManifest(b.opts.Root, s)); err != nil {
		return res, err
	}
	return res, nil
}

func (r *Result) warn(w core.Warning) {
	logger.Warn("%s", w.Message)
	r.Warnings = append(r.Warnings, w)
}
