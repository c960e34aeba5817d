package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/devicelab-dev/dirspec/pkg/logger"
	"github.com/devicelab-dev/dirspec/pkg/spec"
	"github.com/devicelab-dev/dirspec/pkg/watcher"
	"github.com/urfave/cli/v2"
)

var watchCommand = &cli.Command{
	Name:  "watch",
	Usage: "Validate, then re-validate whenever files under the root change",
	Description: `Run validate once, then keep watching --root and validate again after
each burst of filesystem changes. The spec is reloaded before every run, so
edits to DIRSPEC.yaml take effect immediately. Stop with Ctrl-C.`,
	Flags: []cli.Flag{
		&cli.DurationFlag{
			Name:  "debounce",
			Usage: "Quiet period before re-validating",
			Value: watcher.DefaultConfig().DebounceWindow,
		},
	},
	Action: runWatch,
}

func runWatch(c *cli.Context) error {
	cfg, err := resolveConfig(c)
	if err != nil {
		return err
	}
	// Fail fast on a bad spec; later reload failures only log.
	s, err := loadSpec(cfg)
	if err != nil {
		return err
	}

	out := c.App.Writer
	validateOnce(cfg, s, out)

	wcfg := watcher.DefaultConfig()
	wcfg.DebounceWindow = c.Duration("debounce")

	w, err := watcher.New(cfg.AbsRoot, wcfg, func(paths []string) {
		logger.Debug("%d path(s) changed", len(paths))
		s, err := spec.Load(cfg.Spec)
		if err != nil {
			logger.Error("Failed to load spec: %v", err)
			return
		}
		validateOnce(cfg, s, out)
	})
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed to start watcher: %v", err), exitWarnings)
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := w.Run(ctx); err != nil {
		return cli.Exit(fmt.Sprintf("Watch failed: %v", err), exitWarnings)
	}
	return nil
}
