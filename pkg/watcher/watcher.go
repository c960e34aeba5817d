// Package watcher re-runs a callback whenever files change under a project
// root. It backs the long-running watch command.
package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/devicelab-dev/dirspec/pkg/logger"
	"github.com/fsnotify/fsnotify"
)

// Config tunes event coalescing and which paths are ignored.
type Config struct {
	DebounceWindow time.Duration
	MaxBatchSize   int
	Ignore         []string // Glob patterns matched against base names
}

// DefaultConfig returns the settings used by the watch command.
func DefaultConfig() Config {
	return Config{
		DebounceWindow: 300 * time.Millisecond,
		MaxBatchSize:   1000,
		Ignore:         []string{".git", ".*.swp", "*~"},
	}
}

// Watcher watches every directory under a root.
type Watcher struct {
	config    Config
	root      string
	fsWatcher *fsnotify.Watcher
	debouncer *Debouncer
}

// New creates a Watcher for root. onChange receives the sorted set of paths
// that changed during one debounce window; calls never overlap.
func New(root string, config Config, onChange func([]string)) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		config:    config,
		root:      root,
		fsWatcher: fsWatcher,
		debouncer: NewDebouncer(config.DebounceWindow, config.MaxBatchSize, onChange),
	}, nil
}

// Run blocks until ctx is done or the underlying watcher fails.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsWatcher.Close()
	defer w.debouncer.Stop()

	if err := w.addTree(w.root); err != nil {
		return err
	}
	logger.Info("watching %s", w.root)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handle(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				logger.Warn("watcher overflow, some events were lost")
				w.debouncer.Add(w.root)
				continue
			}
			logger.Error("watcher error: %v", err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if w.shouldIgnore(event.Name) {
		return
	}
	logger.Debug("fs event %s", event)

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				logger.Debug("failed to watch %s: %v", event.Name, err)
			}
		}
	}

	w.debouncer.Add(event.Name)
}

// addTree adds dir and every non-ignored directory beneath it.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			logger.Debug("skipping %s: %v", path, err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && w.shouldIgnore(path) {
			return filepath.SkipDir
		}
		if err := w.fsWatcher.Add(path); err != nil {
			logger.Debug("failed to watch %s: %v", path, err)
		}
		return nil
	})
}

func (w *Watcher) shouldIgnore(path string) bool {
	base := filepath.Base(path)
	for _, pattern := range w.config.Ignore {
		if match, _ := doublestar.Match(pattern, base); match {
			return true
		}
	}
	return false
}
