package config

import (
	"os"
	"path/filepath"
)

// DefaultPath returns ~/.config/timegate/config.toml (or cwd fallback).
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".config", "timegate", "config.toml")
	}
	cwd, _ := os.Getwd()
	return filepath.Join(cwd, "timegate-config.toml")
}
