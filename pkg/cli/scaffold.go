package cli

import (
	"fmt"

	"github.com/devicelab-dev/dirspec/pkg/scaffold"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/urfave/cli/v2"
)

var scaffoldCommand = &cli.Command{
	Name:  "scaffold",
	Usage: "Create directories, per-directory README.md, DIRECTORY_STANDARD.md and DIRMANIFEST.json",
	Description: `Materialize every directory declared in the spec under --root.

Existing files are never removed. Generated documents are rewritten on every
run, so running scaffold twice produces identical output. Companion scripts
named by a directory's 'script' key are copied from --scripts-dir.

Examples:
  dirspec scaffold
  dirspec --spec layouts/ont.yaml --root /data/Cell_Line_ONT scaffold`,
	Action: runScaffold,
}

func runScaffold(c *cli.Context) error {
	cfg, err := resolveConfig(c)
	if err != nil {
		return err
	}
	s, err := loadSpec(cfg)
	if err != nil {
		return err
	}
	if err := ensureRoot(cfg.AbsRoot); err != nil {
		return err
	}

	b := scaffold.New(osfs.New(cfg.AbsRoot), scaffold.Options{
		Root:         cfg.AbsRoot,
		DocFile:      cfg.DocFile,
		StandardFile: cfg.StandardFile,
		ManifestFile: cfg.ManifestFile,
	})
	res, err := b.Generate(s)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Scaffold failed: %v", err), exitWarnings)
	}

	copied, scriptWarnings := placeScripts(cfg.AbsRoot, cfg.ScriptsDir, s)

	w := c.App.Writer
	fmt.Fprintf(w, "Scaffold complete under: %s\n", cfg.AbsRoot)
	fmt.Fprintf(w, "- Wrote %s\n", cfg.StandardFile)
	fmt.Fprintf(w, "- Wrote %s\n", cfg.ManifestFile)
	fmt.Fprintf(w, "- Wrote per-directory %s (%d directories)\n", cfg.DocFile, len(res.Dirs))
	if copied > 0 {
		fmt.Fprintf(w, "- Copied %d companion script(s)\n", copied)
	}
	if n := len(res.Warnings) + len(scriptWarnings); n > 0 {
		fmt.Fprintf(w, "- %d warning(s), see above\n", n)
	}
	return nil
}
