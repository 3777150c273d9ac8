package config

import (
	"os"
	"path/filepath"
)

const appName = "rebind"

// ConfigDir returns $XDG_CONFIG_HOME/rebind, defaulting to ~/.config/rebind.
// ENV=dev keeps everything under ./.dev/rebind.
func ConfigDir() (string, error) {
	if os.Getenv("ENV") == "dev" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		return filepath.Join(cwd, ".dev", appName), nil
	}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configHome = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configHome, appName), nil
}
