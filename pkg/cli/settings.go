package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/devicelab-dev/dirspec/pkg/config"
	"github.com/devicelab-dev/dirspec/pkg/logger"
	"github.com/devicelab-dev/dirspec/pkg/spec"
	"github.com/urfave/cli/v2"
)

// RunConfig is everything a command needs, after flags, the workspace
// config and defaults have been merged.
type RunConfig struct {
	*config.Config
	AbsRoot string
}

// resolveConfig merges flags over the workspace config over defaults.
func resolveConfig(c *cli.Context) (*RunConfig, error) {
	var (
		cfg *config.Config
		err error
	)
	if path := c.String("config"); path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadFromDir(".")
	}
	if err != nil {
		return nil, cli.Exit(fmt.Sprintf("Failed to load config: %v", err), exitLoad)
	}

	if v := c.String("spec"); v != "" {
		cfg.Spec = v
	}
	if v := c.String("root"); v != "" {
		cfg.Root = v
	}
	if v := c.String("scripts-dir"); v != "" {
		cfg.ScriptsDir = v
	}
	cfg.ApplyDefaults()

	abs, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, cli.Exit(fmt.Sprintf("Failed to resolve root %s: %v", cfg.Root, err), exitLoad)
	}
	return &RunConfig{Config: cfg, AbsRoot: abs}, nil
}

// loadSpec loads the spec or returns an exit error with status 2. It never
// touches the project root, so a bad spec cannot cause partial output.
func loadSpec(cfg *RunConfig) (*spec.Specification, error) {
	s, err := spec.Load(cfg.Spec)
	if err != nil {
		return nil, cli.Exit(fmt.Sprintf("Failed to load spec: %v", err), exitLoad)
	}
	checkProjectName(s, cfg.AbsRoot)
	return s, nil
}

// checkProjectName notes when the spec's project differs from the root's
// directory name. It is informational only.
func checkProjectName(s *spec.Specification, absRoot string) {
	if s.Project == "" {
		return
	}
	expected := filepath.Base(s.Project)
	actual := filepath.Base(absRoot)
	if expected != actual {
		logger.Info("Spec project '%s' != root basename '%s'. Proceeding anyway.", s.Project, actual)
	}
}

// ensureRoot creates the project root if it does not exist yet.
func ensureRoot(absRoot string) error {
	if err := os.MkdirAll(absRoot, 0o755); err != nil {
		return cli.Exit(fmt.Sprintf("Failed to create root %s: %v", absRoot, err), exitWarnings)
	}
	return nil
}
