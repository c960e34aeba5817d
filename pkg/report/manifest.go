package report

import (
	"encoding/json"
	"fmt"

	"github.com/devicelab-dev/dirspec/pkg/spec"
	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// ManifestFile is the default name of the machine-readable manifest.
const ManifestFile = "DIRMANIFEST.json"

// ManifestVersion is the manifest schema version.
const ManifestVersion = "1"

// Manifest is the JSON projection of a spec: what should exist under Root.
// It is built from the spec alone and never from a scan of the filesystem.
type Manifest struct {
	Version string        `json:"version"`
	Project string        `json:"project"`
	Root    string        `json:"root"`
	Dirs    []ManifestDir `json:"dirs"`
}

// ManifestDir is one flattened directory entry.
type ManifestDir struct {
	Stage     string   `json:"stage"`
	StageDesc string   `json:"stage_desc"`
	Path      string   `json:"path"`
	Allow     []string `json:"allow"`
	Notes     string   `json:"notes"`
	Script    string   `json:"script,omitempty"`
}

// BuildManifest flattens s in walk order. root should already be absolute.
func BuildManifest(root string, s *spec.Specification) *Manifest {
	m := &Manifest{
		Version: ManifestVersion,
		Project: s.Project,
		Root:    root,
		Dirs:    make([]ManifestDir, 0),
	}
	for r := range spec.Walk(s) {
		allow := r.Dir.Allow
		if allow == nil {
			allow = []string{}
		}
		m.Dirs = append(m.Dirs, ManifestDir{
			Stage:     r.StageID,
			StageDesc: r.StageDesc,
			Path:      r.Dir.Path,
			Allow:     allow,
			Notes:     r.Dir.Notes,
			Script:    r.Dir.Script,
		})
	}
	return m
}

// WriteManifest writes m as indented JSON to name on fs.
func WriteManifest(fs billy.Basic, name string, m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	data = append(data, '\n')
	if err := WriteDocument(fs, name, data); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// ReadManifest loads a manifest previously written by WriteManifest.
func ReadManifest(fs billy.Basic, name string) (*Manifest, error) {
	data, err := util.ReadFile(fs, name)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}
