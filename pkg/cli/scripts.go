package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/devicelab-dev/dirspec/pkg/core"
	"github.com/devicelab-dev/dirspec/pkg/logger"
	"github.com/devicelab-dev/dirspec/pkg/scaffold"
	"github.com/devicelab-dev/dirspec/pkg/spec"
)

// placeScripts copies each declared companion script into its directory.
// Missing or uncopyable scripts are warnings; they never fail the scaffold.
func placeScripts(absRoot, scriptsDir string, s *spec.Specification) (int, []core.Warning) {
	var (
		copied   int
		warnings []core.Warning
	)
	for r := range spec.Walk(s) {
		// The builder already warned about entries it skipped.
		if r.Dir.Script == "" || r.Dir.Path == "" || r.Dir.EscapesRoot() {
			continue
		}

		src := r.Dir.Script
		if !filepath.IsAbs(src) {
			src = filepath.Join(scriptsDir, src)
		}
		dst := filepath.Join(absRoot, filepath.FromSlash(scaffold.ScriptPath(r.Dir.Path, r.Dir.Script)))

		if err := copyFile(src, dst); err != nil {
			w := core.Warning{
				Stage:   r.StageID,
				Path:    r.Dir.Path,
				File:    src,
				Message: fmt.Sprintf("Companion script %s not placed in %s: %v", r.Dir.Script, r.Dir.Path, err),
			}
			logger.Warn("%s", w.Message)
			warnings = append(warnings, w)
			continue
		}
		logger.Info("Copied script %s -> %s", src, dst)
		copied++
	}
	return copied, warnings
}

// copyFile copies src to dst, keeping the source's permission bits.
func copyFile(src, dst string) error {
	in, err := os.Open(src) //#nosec G304 -- script path comes from the spec
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", src)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	// O_CREATE leaves the mode of an existing file alone.
	return os.Chmod(dst, info.Mode().Perm())
}
