//go:build linux

package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func installLoginItem(appName, execPath string) error {
	path, err := loginItemPath(appName)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create autostart dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(desktopEntry(appName, execPath)), 0o644); err != nil {
		return fmt.Errorf("write desktop entry: %w", err)
	}
	return nil
}

func removeLoginItem(appName string) error {
	path, err := loginItemPath(appName)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove desktop entry: %w", err)
	}
	return nil
}

func loginItemPath(appName string) (string, error) {
	configDir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "autostart", slug(appName)+".desktop"), nil
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config")
}

func desktopEntry(appName, execPath string) string {
	if strings.Contains(execPath, " ") && !strings.HasPrefix(execPath, `"`) {
		execPath = `"` + execPath + `"`
	}
	return fmt.Sprintf(`[Desktop Entry]
Type=Application
Name=%s
Comment=Work day timer
Exec=%s
X-GNOME-Autostart-enabled=true
Terminal=false
`, appName, execPath)
}

func slug(appName string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(appName)), " ", "-")
}
