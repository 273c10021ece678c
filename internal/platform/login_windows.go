//go:build windows

package platform

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

const runKey = `HKCU\Software\Microsoft\Windows\CurrentVersion\Run`

func installLoginItem(appName, execPath string) error {
	quoted := fmt.Sprintf(`"%s"`, strings.Trim(execPath, `"`))
	output, err := exec.Command("reg", "add", runKey, "/v", appName, "/t", "REG_SZ", "/d", quoted, "/f").CombinedOutput()
	if err != nil {
		return fmt.Errorf("reg add: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

func removeLoginItem(appName string) error {
	output, err := exec.Command("reg", "delete", runKey, "/v", appName, "/f").CombinedOutput()
	if err != nil {
		// reg exits non-zero when the value is already absent.
		if strings.Contains(string(output), "unable to find") {
			return nil
		}
		return fmt.Errorf("reg delete: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, "AppData", "Roaming")
}
