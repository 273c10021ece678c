package popup

import (
	"fmt"
	"strings"
	"time"
)

// ParseClock reads an "HH:MM" wall-clock time on the day of now. An empty
// value means now.
func ParseClock(value string, now time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return now, nil
	}
	parsed, err := time.Parse("15:04", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("start time must be HH:MM")
	}
	return time.Date(now.Year(), now.Month(), now.Day(), parsed.Hour(), parsed.Minute(), 0, 0, now.Location()), nil
}

// FormatClock renders t as "HH:MM" or "--:--" when absent.
func FormatClock(t *time.Time) string {
	if t == nil {
		return "--:--"
	}
	return t.Format("15:04")
}
