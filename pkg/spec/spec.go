// Package spec loads DIRSPEC documents and flattens them into the record
// sequence every other component consumes.
package spec

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/devicelab-dev/dirspec/pkg/logger"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the spec file name looked up when none is given.
const DefaultFile = "DIRSPEC.yaml"

// Specification is a parsed DIRSPEC document.
type Specification struct {
	Project     string   `yaml:"project"`
	Description string   `yaml:"description"`
	Stages      []Stage  `yaml:"stages"`
	Flow        Flow     `yaml:"flow"`

	Source string `yaml:"-"` // Path the document was loaded from
}

// Stage is a named phase of the layout. Stage order drives documentation and
// diagram order.
type Stage struct {
	ID   string     `yaml:"id"`
	Desc string     `yaml:"desc"`
	Dirs []DirEntry `yaml:"dirs"`

	Line int `yaml:"-"`
}

// DirEntry is one directory to materialize or validate.
type DirEntry struct {
	Path   string   `yaml:"path"`
	Allow  []string `yaml:"allow"`  // Glob patterns for file base names; empty = unrestricted
	Notes  string   `yaml:"notes"`  // Free-text hint copied into the directory's README
	Script string   `yaml:"script"` // Companion script copied in by the CLI

	Line   int      `yaml:"-"`
	Issues []string `yaml:"-"` // Fields that were present but could not be decoded
}

// CleanPath is the entry's path in slash form without a trailing slash.
func (d DirEntry) CleanPath() string {
	return CleanPath(d.Path)
}

// EscapesRoot reports whether the entry points outside the project root.
func (d DirEntry) EscapesRoot() bool {
	return EscapesRoot(d.Path)
}

// CleanPath normalizes a declared path: backslashes become slashes and the
// result is path.Clean'ed.
func CleanPath(p string) string {
	return path.Clean(strings.ReplaceAll(p, `\`, "/"))
}

// EscapesRoot reports whether p is absolute or climbs above the directory it
// is relative to.
func EscapesRoot(p string) bool {
	c := CleanPath(p)
	if path.IsAbs(c) || filepath.IsAbs(p) || filepath.VolumeName(p) != "" {
		return true
	}
	// C:/data on a non-Windows host
	if len(c) >= 2 && c[1] == ':' {
		return true
	}
	return c == ".." || strings.HasPrefix(c, "../")
}

// HasRestrictions reports whether the entry limits which files it accepts.
func (d DirEntry) HasRestrictions() bool {
	return len(d.Allow) > 0
}

// UnmarshalYAML decodes an entry field by field so that a malformed field
// degrades that field only. A non-mapping entry decodes to an empty entry,
// which downstream components report as a missing path.
func (d *DirEntry) UnmarshalYAML(node *yaml.Node) error {
	*d = DirEntry{Line: node.Line}
	if node.Kind != yaml.MappingNode {
		d.Issues = append(d.Issues, fmt.Sprintf("line %d: directory entry is not a mapping", node.Line))
		return nil
	}

	for i := 0; i < len(node.Content)-1; i += 2 {
		key, val := node.Content[i].Value, node.Content[i+1]
		switch key {
		case "path":
			d.Path = d.scalar(key, val)
		case "notes":
			d.Notes = d.scalar(key, val)
		case "script":
			d.Script = d.scalar(key, val)
		case "allow":
			d.Allow = d.patterns(val)
		}
	}
	return nil
}

func (d *DirEntry) scalar(key string, val *yaml.Node) string {
	switch val.Kind {
	case yaml.ScalarNode:
		if val.Tag == "!!null" {
			return ""
		}
		return val.Value
	default:
		d.Issues = append(d.Issues, fmt.Sprintf("line %d: %s must be a string", val.Line, key))
		return ""
	}
}

// patterns accepts a sequence of strings or a single string.
func (d *DirEntry) patterns(val *yaml.Node) []string {
	switch val.Kind {
	case yaml.ScalarNode:
		if val.Tag == "!!null" || val.Value == "" {
			return nil
		}
		return []string{val.Value}
	case yaml.SequenceNode:
		out := make([]string, 0, len(val.Content))
		for _, item := range val.Content {
			if item.Kind != yaml.ScalarNode {
				d.Issues = append(d.Issues, fmt.Sprintf("line %d: allow pattern must be a string", item.Line))
				continue
			}
			out = append(out, item.Value)
		}
		return out
	default:
		d.Issues = append(d.Issues, fmt.Sprintf("line %d: allow must be a list of patterns", val.Line))
		return nil
	}
}

// Flow is the list of "a -> b" edge expressions. Edge syntax is checked by
// the renderer; decoding only keeps what is a string.
type Flow []string

// UnmarshalYAML accepts a sequence of strings or a single string. Anything
// else is dropped with a debug log.
func (f *Flow) UnmarshalYAML(node *yaml.Node) error {
	*f = nil
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag != "!!null" && node.Value != "" {
			*f = Flow{node.Value}
		}
	case yaml.SequenceNode:
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode || item.Tag == "!!null" {
				logger.Debug("line %d: dropping flow item that is not a string", item.Line)
				continue
			}
			*f = append(*f, item.Value)
		}
	default:
		logger.Debug("line %d: flow must be a list of edges; ignoring it", node.Line)
	}
	return nil
}
