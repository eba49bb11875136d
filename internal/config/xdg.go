package config

import (
	"os"
	"path/filepath"
)

const appName = "practrack"

// DefaultDBPath returns the SQLite database path under the XDG data home.
func DefaultDBPath() string {
	return filepath.Join(baseDir("XDG_DATA_HOME", ".local", "share"), appName, appName+".db")
}

// DefaultConfigPath returns the TOML config path under the XDG config home.
func DefaultConfigPath() string {
	return filepath.Join(baseDir("XDG_CONFIG_HOME", ".config"), appName, "config.toml")
}

// baseDir resolves an XDG base directory. Relative values of env are ignored,
// as the base directory convention requires, and the home-relative default is
// used instead.
func baseDir(env string, homeRel ...string) string {
	if v := os.Getenv(env); v != "" && filepath.IsAbs(v) {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(append([]string{home}, homeRel...)...)
}
