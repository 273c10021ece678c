package platform

import (
	"fmt"
	"os"
)

// ConfigDir returns the OS configuration directory, falling back to the
// conventional location under the home directory.
func ConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err == nil && configDir != "" {
		return configDir, nil
	}

	homeDir, homeErr := os.UserHomeDir()
	if homeErr != nil {
		if err != nil {
			return "", fmt.Errorf("config dir: %w", err)
		}
		return "", fmt.Errorf("config dir: %w", homeErr)
	}
	return fallbackConfigDir(homeDir), nil
}

// SetLaunchAtLogin registers or removes the running executable as a login
// item for appName.
func SetLaunchAtLogin(appName string, enabled bool) error {
	if appName == "" {
		return fmt.Errorf("launch at login: app name is empty")
	}
	if !enabled {
		if err := removeLoginItem(appName); err != nil {
			return fmt.Errorf("disable launch at login: %w", err)
		}
		return nil
	}

	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("enable launch at login: %w", err)
	}
	if err := installLoginItem(appName, execPath); err != nil {
		return fmt.Errorf("enable launch at login: %w", err)
	}
	return nil
}
