// Package config handles workspace configuration for dirspec.
package config

import (
	"os"
	"path/filepath"

	"github.com/devicelab-dev/dirspec/pkg/report"
	"github.com/devicelab-dev/dirspec/pkg/scaffold"
	"github.com/devicelab-dev/dirspec/pkg/spec"
	"gopkg.in/yaml.v3"
)

// Config represents the workspace configuration (.dirspec.yaml).
// Command-line flags override every field.
type Config struct {
	// Inputs
	Spec string `yaml:"spec"` // Path to the DIRSPEC document
	Root string `yaml:"root"` // Project root to scaffold or validate

	// Companion scripts
	ScriptsDir string `yaml:"scriptsDir"` // Where companion scripts are looked up

	// Generated file names
	DocFile      string `yaml:"docFile"`      // Per-directory rules document
	StandardFile string `yaml:"standardFile"` // Project standard with the flow diagram
	ManifestFile string `yaml:"manifestFile"` // Machine-readable manifest
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- user-provided config file
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadFromDir looks for .dirspec.yaml or .dirspec.yml in the directory.
func LoadFromDir(dir string) (*Config, error) {
	// Try .dirspec.yaml first
	configPath := filepath.Join(dir, ".dirspec.yaml")
	if _, err := os.Stat(configPath); err == nil {
		return Load(configPath)
	}

	// Try .dirspec.yml
	configPath = filepath.Join(dir, ".dirspec.yml")
	if _, err := os.Stat(configPath); err == nil {
		return Load(configPath)
	}

	// No config file found, return empty config
	return &Config{}, nil
}

// ApplyDefaults fills every empty field with its default.
func (c *Config) ApplyDefaults() *Config {
	if c.Spec == "" {
		c.Spec = spec.DefaultFile
	}
	if c.Root == "" {
		c.Root = "."
	}
	if c.ScriptsDir == "" {
		c.ScriptsDir = GetScriptsDir()
	}
	if c.DocFile == "" {
		c.DocFile = scaffold.DocFile
	}
	if c.StandardFile == "" {
		c.StandardFile = report.StandardFile
	}
	if c.ManifestFile == "" {
		c.ManifestFile = report.ManifestFile
	}
	return c
}
