package config

import (
	"os"
	"path/filepath"
	"sync"
)

const envHome = "DIRSPEC_HOME"

var (
	homeOnce sync.Once
	homeDir  string
)

// homeSources are consulted in order; the first non-empty answer wins.
var homeSources = []func() string{
	homeFromEnv,
	homeFromBinary,
	homeFromWorkdir,
}

// GetHome returns the dirspec home directory: $DIRSPEC_HOME, else <home>
// when the binary is installed as <home>/bin/dirspec, else the working
// directory. The answer is computed once per process.
func GetHome() string {
	homeOnce.Do(func() {
		homeDir = "."
		for _, source := range homeSources {
			if dir := source(); dir != "" {
				homeDir = dir
				break
			}
		}
	})
	return homeDir
}

// GetScriptsDir returns <home>/scripts, the default companion script library.
func GetScriptsDir() string {
	return filepath.Join(GetHome(), "scripts")
}

func homeFromEnv() string {
	return os.Getenv(envHome)
}

func homeFromBinary() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	if bin := filepath.Dir(exe); filepath.Base(bin) == "bin" {
		return filepath.Dir(bin)
	}
	return ""
}

func homeFromWorkdir() string {
	cwd, _ := os.Getwd()
	return cwd
}

// ResetHome forgets the cached home so tests can change $DIRSPEC_HOME.
func ResetHome() {
	homeOnce = sync.Once{}
	homeDir = ""
}
