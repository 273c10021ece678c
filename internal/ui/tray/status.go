package tray

import (
	"fmt"
	"time"

	"worktime/internal/core/session"
	"worktime/internal/notify"
)

// Label localizes a message id in the current language.
type Label func(id string, data map[string]any) string

// StatusLabel renders the one-line status shown at the top of the menu.
func StatusLabel(snapshot session.Snapshot, label Label) string {
	switch snapshot.Status {
	case session.StatusWorking:
		return label(notify.MsgStatusWorking, map[string]any{"Remaining": FormatDuration(snapshot.Remaining)})
	case session.StatusLunch:
		return label(notify.MsgStatusLunch, map[string]any{"Worked": FormatDuration(snapshot.Worked)})
	case session.StatusOvertime:
		return label(notify.MsgStatusOvertime, map[string]any{"Overtime": FormatDuration(-snapshot.Remaining)})
	default:
		if snapshot.StartTime != nil && snapshot.Worked > 0 {
			return label(notify.MsgStatusReadyWorked, map[string]any{"Worked": FormatDuration(snapshot.Worked)})
		}
		return label(notify.MsgStatusReady, nil)
	}
}

// FormatDuration renders a duration as "1h 05m", rounding down to minutes.
func FormatDuration(duration time.Duration) string {
	if duration < 0 {
		duration = 0
	}
	minutes := int(duration / time.Minute)
	return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
}
