package cli

import (
	"fmt"
	"io"

	"github.com/devicelab-dev/dirspec/pkg/spec"
	"github.com/devicelab-dev/dirspec/pkg/validator"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/urfave/cli/v2"
)

var validateCommand = &cli.Command{
	Name:  "validate",
	Usage: "Check existing files against each directory's allow patterns (creates nothing)",
	Description: `Report declared directories that are missing and files whose names match
none of their directory's allow patterns. Directories without patterns accept
any file. Entries that cannot be checked (no path, a path outside the root,
malformed fields, invalid patterns) are reported and counted too. Exits with
status 1 when any warning is reported.

Examples:
  dirspec validate
  dirspec --root /data/Cell_Line_ONT validate`,
	Action: runValidate,
}

func runValidate(c *cli.Context) error {
	cfg, err := resolveConfig(c)
	if err != nil {
		return err
	}
	s, err := loadSpec(cfg)
	if err != nil {
		return err
	}

	if validateOnce(cfg, s, c.App.Writer) > 0 {
		return cli.Exit("", exitWarnings)
	}
	return nil
}

// validateOnce validates and prints the summary line. It returns the
// warning count.
func validateOnce(cfg *RunConfig, s *spec.Specification, w io.Writer) int {
	v := validator.New(osfs.New(cfg.AbsRoot), validator.Options{
		Root:    cfg.AbsRoot,
		DocFile: cfg.DocFile,
	})
	result := v.Validate(s)

	if n := result.Count(); n > 0 {
		fmt.Fprintf(w, "Validation completed with %d warning(s).\n", n)
		return n
	}
	fmt.Fprintln(w, "Validation passed: all files match allowed patterns.")
	return 0
}
