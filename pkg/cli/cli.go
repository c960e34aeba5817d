// Package cli provides the command-line interface for dirspec.
package cli

import (
	"errors"
	"io"
	"os"

	"github.com/devicelab-dev/dirspec/pkg/logger"
	"github.com/urfave/cli/v2"
)

// Version is set at build time.
var Version = "dev"

// Exit statuses.
const (
	exitOK       = 0
	exitWarnings = 1 // Validation found problems, or a build step failed
	exitLoad     = 2 // Spec or config could not be loaded
)

// GlobalFlags are available to all commands.
var GlobalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "spec",
		Aliases: []string{"s"},
		Usage:   "Path to DIRSPEC.yaml (default: DIRSPEC.yaml)",
		EnvVars: []string{"DIRSPEC_SPEC"},
	},
	&cli.StringFlag{
		Name:    "root",
		Aliases: []string{"r"},
		Usage:   "Project root where directories are created or validated (default: .)",
		EnvVars: []string{"DIRSPEC_ROOT"},
	},
	&cli.StringFlag{
		Name:  "config",
		Usage: "Path to workspace .dirspec.yaml (default: ./.dirspec.yaml if present)",
	},
	&cli.BoolFlag{
		Name:  "validate",
		Usage: "Validate existing files against allow patterns instead of creating (same as the validate command)",
	},
	&cli.StringFlag{
		Name:    "scripts-dir",
		Usage:   "Directory companion scripts are copied from (default: $DIRSPEC_HOME/scripts)",
		EnvVars: []string{"DIRSPEC_SCRIPTS_DIR"},
	},
	&cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "Enable verbose logging",
		EnvVars: []string{"DIRSPEC_VERBOSE"},
	},
	&cli.StringFlag{
		Name:  "log-file",
		Usage: "Also append diagnostics to this file",
	},
}

// Execute runs the CLI.
func Execute() {
	os.Exit(Run(os.Args, os.Stdout))
}

// Run runs the CLI with args and returns the process exit status. Summary
// lines go to stdout; warnings and errors go to the logger's stream.
func Run(args []string, stdout io.Writer) int {
	app := newApp(stdout)

	err := app.Run(args)
	logger.Close()
	if err == nil {
		return exitOK
	}

	var ec cli.ExitCoder
	if errors.As(err, &ec) {
		if msg := ec.Error(); msg != "" {
			logger.Error("%s", msg)
		}
		return ec.ExitCode()
	}
	logger.Error("%v", err)
	return exitWarnings
}

func newApp(stdout io.Writer) *cli.App {
	return &cli.App{
		Name:    "dirspec",
		Usage:   "Scaffold and validate project directory layouts from DIRSPEC.yaml",
		Version: Version,
		Description: `dirspec reads a DIRSPEC.yaml layout and creates the declared directories,
a README.md with the rules of each directory, DIRECTORY_STANDARD.md with a
Mermaid flow diagram, and DIRMANIFEST.json for CI. The same spec can later be
used to validate that files match each directory's allow patterns.

Examples:
  dirspec --spec DIRSPEC.yaml --root /path/to/Cell_Line_ONT
  dirspec validate --root .
  dirspec watch
  dirspec diagram > flow.md`,
		Flags:  GlobalFlags,
		Writer: stdout,
		Before: setupLogging,
		Action: func(c *cli.Context) error {
			if c.Bool("validate") {
				return runValidate(c)
			}
			return runScaffold(c)
		},
		Commands: []*cli.Command{
			scaffoldCommand,
			validateCommand,
			watchCommand,
			diagramCommand,
		},
		// Exit codes are mapped by Run.
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

func setupLogging(c *cli.Context) error {
	logger.SetVerbose(c.Bool("verbose"))
	if path := c.String("log-file"); path != "" {
		if err := logger.Init(path); err != nil {
			return cli.Exit(err.Error(), exitLoad)
		}
	}
	return nil
}
