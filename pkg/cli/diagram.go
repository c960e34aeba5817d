package cli

import (
	"fmt"

	"github.com/devicelab-dev/dirspec/pkg/report"
	"github.com/urfave/cli/v2"
)

var diagramCommand = &cli.Command{
	Name:  "diagram",
	Usage: "Print the Mermaid flow diagram (or the full standard document) to stdout",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "standard",
			Usage: "Print the whole DIRECTORY_STANDARD.md instead of just the diagram",
		},
	},
	Action: runDiagram,
}

func runDiagram(c *cli.Context) error {
	cfg, err := resolveConfig(c)
	if err != nil {
		return err
	}
	s, err := loadSpec(cfg)
	if err != nil {
		return err
	}

	if c.Bool("standard") {
		doc, err := report.RenderStandard(s)
		if err != nil {
			return cli.Exit(fmt.Sprintf("Render failed: %v", err), exitWarnings)
		}
		fmt.Fprint(c.App.Writer, doc)
		return nil
	}
	fmt.Fprintln(c.App.Writer, report.RenderMermaid(s.Flow))
	return nil
}
