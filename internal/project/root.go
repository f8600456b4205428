package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the name of the optional per-directory configuration file.
const FileName = "lambda.toml"

// FindConfigFile walks up from startDir to locate lambda.toml.
func FindConfigFile(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
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

// Discover finds and loads the nearest lambda.toml above startDir.
// ok is false when there is none; defaults apply then.
func Discover(startDir string) (cfg Config, path string, ok bool, err error) {
	path, ok, err = FindConfigFile(startDir)
	if err != nil || !ok {
		return Defaults(), "", ok, err
	}
	cfg, err = Load(path)
	return cfg, path, true, err
}
