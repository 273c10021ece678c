//go:build linux

package platform

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// xprintidle works under X11 and XWayland only.
type xprintidle struct {
	path string
}

func newIdleProvider() IdleProvider {
	path, err := exec.LookPath("xprintidle")
	if err != nil {
		return unsupportedIdle{}
	}
	return xprintidle{path: path}
}

func (provider xprintidle) IdleDuration() (time.Duration, error) {
	output, err := exec.Command(provider.path).Output()
	if err != nil {
		return 0, fmt.Errorf("xprintidle: %w", err)
	}
	return parseIdleMillis(string(output))
}

func parseIdleMillis(output string) (time.Duration, error) {
	millis, err := strconv.ParseInt(strings.TrimSpace(output), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse idle milliseconds: %w", err)
	}
	return time.Duration(max(millis, 0)) * time.Millisecond, nil
}
