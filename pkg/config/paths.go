package config

import (
	"os"
	"path/filepath"
)

// DefaultPath returns $XDG_CONFIG_HOME/molcanon/config.toml
// (~/.config/molcanon/config.toml when unset).
func DefaultPath() string {
	return filepath.Join(xdgDir("XDG_CONFIG_HOME", ".config"), "config.toml")
}

// CacheDir returns the result cache directory (~/.cache/molcanon).
func CacheDir() string {
	return xdgDir("XDG_CACHE_HOME", ".cache")
}

// DataDir returns the directory for persistent data such as the badger
// registry (~/.local/share/molcanon).
func DataDir() string {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func xdgDir(env, fallback string) string {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appName)
	}
	return filepath.Join(home, fallback, appName)
}
