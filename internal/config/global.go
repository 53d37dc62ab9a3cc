// Copyright 2026 The Tally Authors
// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"path/filepath"
)

// GlobalConfigDir returns the directory for global tally configuration.
// It uses $XDG_CONFIG_HOME/tally if set, otherwise ~/.config/tally.
func GlobalConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tally")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "tally")
}

// GlobalConfigPath returns the path to the global config file.
func GlobalConfigPath() string {
	return filepath.Join(GlobalConfigDir(), "config.yaml")
}

// LoadGlobal loads the global config file.
// If the file does not exist, it returns a zero-value Config and nil error.
func LoadGlobal() (*Config, error) {
	return LoadFile(GlobalConfigPath())
}

// Resolve loads the global config and the repo config, repo over global.
// When path is non-empty it replaces the repo config in dir.
func Resolve(dir, path string) (*Config, error) {
	global, err := LoadGlobal()
	if err != nil {
		return nil, err
	}
	var local *Config
	if path != "" {
		local, err = LoadFile(path)
	} else {
		local, err = Load(dir)
	}
	if err != nil {
		return nil, err
	}
	return Merge(global, local), nil
}
