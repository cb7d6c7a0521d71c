package config

import (
	"os"
	"path/filepath"
)

const configFileName = "spreadcli.yaml"

// ConfigFilePath locates the config file: the working directory is checked
// first, then the executable's directory. An empty string means no file was
// found and defaults plus environment apply.
func ConfigFilePath() string {
	if cwd, err := os.Getwd(); err == nil {
		candidate := filepath.Join(cwd, configFileName)
		if fileExists(candidate) {
			return candidate
		}
	}
	if exe, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(exe), configFileName)
		if fileExists(candidate) {
			return candidate
		}
	}
	return ""
}

// ResolveInputPath resolves a possibly relative input file the same way:
// working directory first, then relative to the executable. A path that
// resolves nowhere is returned working-directory relative so the open error
// names the expected location.
func ResolveInputPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if fileExists(path) {
		return path
	}
	if exe, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(exe), path)
		if fileExists(candidate) {
			return candidate
		}
	}
	return path
}

// EnsureDirectories creates the configured output and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
