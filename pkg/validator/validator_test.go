package validator

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/devicelab-dev/dirspec/pkg/core"
	"github.com/devicelab-dev/dirspec/pkg/logger"
	"github.com/devicelab-dev/dirspec/pkg/scaffold"
	"github.com/devicelab-dev/dirspec/pkg/spec"
	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.SetOutput(os.Stderr) })
	return &buf
}

func touch(t *testing.T, fs billy.Filesystem, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, util.WriteFile(fs, name, []byte(name), 0o644))
	}
}

func demoSpec() *spec.Specification {
	return &spec.Specification{
		Project: "Demo",
		Stages: []spec.Stage{
			{ID: "raw", Dirs: []spec.DirEntry{{Path: "data/raw", Allow: []string{"*.fastq"}}}},
		},
	}
}

func TestValidate_DemoScenario(t *testing.T) {
	logs := captureLogs(t)
	fs := memfs.New()
	touch(t, fs, "data/raw/a.fastq", "data/raw/b.txt")

	result := New(fs, Options{}).Validate(demoSpec())

	require.Equal(t, 1, result.Count())
	w := result.Warnings[0]
	assert.Equal(t, core.CategoryPatternMismatch, w.Category)
	assert.Equal(t, "data/raw/b.txt", w.File)
	assert.Equal(t, "raw", w.Stage)
	assert.Contains(t, w.Message, "b.txt")
	assert.Contains(t, w.Message, `["*.fastq"]`)
	assert.Equal(t, 2, result.Files)
	assert.Equal(t, 1, result.Dirs)
	assert.False(t, result.IsValid())
	assert.Contains(t, logs.String(), "[WARN] File does not match allow-patterns: data/raw/b.txt")
}

func TestValidate_AfterScaffoldIgnoresDocFile(t *testing.T) {
	captureLogs(t)
	fs := memfs.New()
	_, err := scaffold.New(fs, scaffold.Options{}).Generate(demoSpec())
	require.NoError(t, err)
	touch(t, fs, "data/raw/a.fastq")

	result := New(fs, Options{}).Validate(demoSpec())
	assert.True(t, result.IsValid(), "warnings: %v", result.Warnings)
	assert.Equal(t, 1, result.Files)
}

func TestValidate_EmptyAllowPassesEverything(t *testing.T) {
	captureLogs(t)
	fs := memfs.New()
	touch(t, fs, "scratch/x.bin", "scratch/y.txt", "scratch/deep/z")
	s := &spec.Specification{
		Project: "Demo",
		Stages:  []spec.Stage{{ID: "tmp", Dirs: []spec.DirEntry{{Path: "scratch"}}}},
	}

	result := New(fs, Options{}).Validate(s)
	assert.Zero(t, result.Count())
	assert.Equal(t, 1, result.Dirs)
}

func TestValidate_RecursesAndUsesBaseName(t *testing.T) {
	captureLogs(t)
	fs := memfs.New()
	touch(t, fs,
		"data/raw/a.fastq",
		"data/raw/run1/b.fastq",
		"data/raw/run1/notes.txt",
		"data/raw/run1/README.md",
	)

	result := New(fs, Options{}).Validate(demoSpec())

	require.Equal(t, 1, result.Count())
	assert.Equal(t, "data/raw/run1/notes.txt", result.Warnings[0].File)
}

func TestValidate_MultiplePatternsAreOr(t *testing.T) {
	captureLogs(t)
	fs := memfs.New()
	touch(t, fs, "logs/a.log", "logs/b.txt", "logs/c.bin")
	s := &spec.Specification{
		Project: "Demo",
		Stages:  []spec.Stage{{ID: "x", Dirs: []spec.DirEntry{{Path: "logs", Allow: []string{"*.log", "*.txt"}}}}},
	}

	result := New(fs, Options{}).Validate(s)
	require.Equal(t, 1, result.Count())
	assert.Equal(t, "logs/c.bin", result.Warnings[0].File)
}

func TestValidate_MissingPath(t *testing.T) {
	logs := captureLogs(t)
	fs := memfs.New()
	s := &spec.Specification{
		Project: "Demo",
		Stages:  []spec.Stage{{ID: "raw", Dirs: []spec.DirEntry{{Notes: "no path"}}}},
	}

	result := New(fs, Options{}).Validate(s)

	require.Equal(t, 1, result.Count())
	assert.Equal(t, core.CategoryMissingPath, result.Warnings[0].Category)
	assert.Contains(t, logs.String(), "Dir spec without path; skipping")
}

func TestValidate_MissingDirectory(t *testing.T) {
	captureLogs(t)
	fs := memfs.New()
	touch(t, fs, "data/file-not-dir")
	s := &spec.Specification{
		Project: "Demo",
		Stages: []spec.Stage{{ID: "raw", Dirs: []spec.DirEntry{
			{Path: "data/raw", Allow: []string{"*.fastq"}},
			{Path: "data/file-not-dir"},
		}}},
	}

	result := New(fs, Options{Root: "/project"}).Validate(s)

	require.Equal(t, 2, result.Count())
	for _, w := range result.Warnings {
		assert.Equal(t, core.CategoryMissingDirectory, w.Category)
	}
	assert.Equal(t, "Missing directory: "+filepath.Join("/project", "data", "raw"), result.Warnings[0].Message)
	assert.Zero(t, result.Dirs)
}

func TestValidate_InvalidPatternAndIssues(t *testing.T) {
	captureLogs(t)
	fs := memfs.New()
	touch(t, fs, "data/raw/a.fastq")
	s := &spec.Specification{
		Project: "Demo",
		Stages: []spec.Stage{{ID: "raw", Dirs: []spec.DirEntry{
			{Path: "data/raw", Allow: []string{"[bad", "*.fastq"}, Issues: []string{"line 7: notes must be a string"}},
		}}},
	}

	result := New(fs, Options{}).Validate(s)

	counts := core.CountByCategory(result.Warnings)
	assert.Equal(t, 1, counts[core.CategoryInvalidPattern])
	assert.Equal(t, 1, counts[core.CategoryMalformedEntry])
	assert.Zero(t, counts[core.CategoryPatternMismatch])
}

func TestValidate_CustomDocFile(t *testing.T) {
	captureLogs(t)
	fs := memfs.New()
	touch(t, fs, "data/raw/RULES.md", "data/raw/README.md")

	result := New(fs, Options{DocFile: "RULES.md"}).Validate(demoSpec())

	require.Equal(t, 1, result.Count())
	assert.Equal(t, "data/raw/README.md", result.Warnings[0].File)
}

func TestValidate_DoesNotMutate(t *testing.T) {
	captureLogs(t)
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "data", "raw"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "data", "raw", "b.txt"), []byte("b"), 0o644))

	before, err := os.ReadDir(filepath.Join(root, "data", "raw"))
	require.NoError(t, err)

	result := New(osfs.New(root), Options{Root: root}).Validate(demoSpec())
	require.Equal(t, 1, result.Count())
	assert.Contains(t, result.Warnings[0].Message, filepath.Join(root, "data", "raw", "b.txt"))

	after, err := os.ReadDir(filepath.Join(root, "data", "raw"))
	require.NoError(t, err)
	assert.Equal(t, len(before), len(after))
	_, err = os.Stat(filepath.Join(root, "DIRMANIFEST.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestValidate_EveryMismatchReported(t *testing.T) {
	captureLogs(t)
	fs := memfs.New()
	names := []string{"a.fastq", "b.fastq", "c.txt", "d.csv", "e.fastq.gz"}
	for _, n := range names {
		touch(t, fs, "data/raw/"+n)
	}

	result := New(fs, Options{}).Validate(demoSpec())

	var flagged []string
	for _, w := range result.Warnings {
		flagged = append(flagged, filepath.Base(w.File))
	}
	assert.ElementsMatch(t, []string{"c.txt", "d.csv", "e.fastq.gz"}, flagged)
}

func TestValidate_PathOutsideRoot(t *testing.T) {
	logs := captureLogs(t)
	parent := t.TempDir()
	root := filepath.Join(parent, "project")
	require.NoError(t, os.MkdirAll(filepath.Join(parent, "shared"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "data", "raw"), 0o755))
	s := &spec.Specification{
		Project: "project",
		Stages: []spec.Stage{
			{ID: "shared", Dirs: []spec.DirEntry{{Path: "../shared"}, {Path: "data/raw"}}},
		},
	}

	result := New(osfs.New(root), Options{Root: root}).Validate(s)

	require.Equal(t, 1, result.Count())
	assert.Equal(t, core.CategoryMalformedEntry, result.Warnings[0].Category)
	assert.Contains(t, logs.String(), "[WARN] Dir spec ../shared escapes project root; skipping")
	assert.NotContains(t, logs.String(), "Missing directory")
	assert.Equal(t, 1, result.Dirs)
}

func TestValidate_SymlinkedDirectoryIsNotAFile(t *testing.T) {
	captureLogs(t)
	root := t.TempDir()
	raw := filepath.Join(root, "data", "raw")
	require.NoError(t, os.MkdirAll(raw, 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "elsewhere"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(raw, "a.fastq"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "elsewhere", "c.txt"), []byte("c"), 0o644))
	require.NoError(t, os.Symlink(filepath.Join("..", "..", "elsewhere"), filepath.Join(raw, "linkdir")))
	require.NoError(t, os.Symlink("a.fastq", filepath.Join(raw, "b.txt")))

	result := New(osfs.New(root), Options{Root: root}).Validate(demoSpec())

	require.Equal(t, 1, result.Count(), "warnings: %v", result.Warnings)
	assert.Equal(t, "b.txt", filepath.Base(result.Warnings[0].File), "a link to a file is still a file")
	assert.Equal(t, 2, result.Files)
}
