// Package config loads an optional syc.toml project-default file, searched
// for upward from a starting directory.
//
// Grounded on vovakirdan-surge/cmd/surge/project_manifest.go's
// findSurgeToml/loadProjectConfig pair, adapted from surge.toml's
// [package]/[run] tables to syc.toml's [build] table of compiler defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Build holds the compiler defaults a syc.toml may override.
type Build struct {
	Output   string `toml:"output"`
	Optimize bool   `toml:"optimize"`
}

// Config is the decoded contents of a syc.toml manifest.
type Config struct {
	Build Build `toml:"build"`
}

// Find walks upward from startDir looking for syc.toml, returning its path
// and true if found. A missing file is not an error.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "syc.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load finds and decodes syc.toml starting from startDir. It returns a zero
// Config and false if no manifest exists anywhere above startDir.
func Load(startDir string) (Config, bool, error) {
	path, ok, err := Find(startDir)
	if err != nil || !ok {
		return Config{}, ok, err
	}
	// Pre-populate the on/off default so an absent `optimize` key in the file
	// still means "on" — BurntSushi/toml only overwrites fields it finds.
	cfg := Config{Build: Build{Optimize: true}}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, true, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	return cfg, true, nil
}
