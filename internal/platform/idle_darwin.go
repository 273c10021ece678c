//go:build darwin

package platform

import (
	"bufio"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

type hidIdle struct{}

func newIdleProvider() IdleProvider {
	if _, err := exec.LookPath("ioreg"); err != nil {
		return unsupportedIdle{}
	}
	return hidIdle{}
}

// IdleDuration reads HIDIdleTime (nanoseconds) from the IOHIDSystem entry.
func (hidIdle) IdleDuration() (time.Duration, error) {
	output, err := exec.Command("ioreg", "-c", "IOHIDSystem", "-d", "4").Output()
	if err != nil {
		return 0, fmt.Errorf("ioreg: %w", err)
	}
	scanner := bufio.NewScanner(strings.NewReader(string(output)))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.Contains(line, `"HIDIdleTime"`) {
			continue
		}
		_, value, ok := strings.Cut(line, "=")
		if !ok {
			break
		}
		nanos, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse HIDIdleTime: %w", err)
		}
		return time.Duration(nanos), nil
	}
	return 0, ErrIdleUnsupported
}
