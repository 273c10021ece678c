// Package notify holds the alert and badge vocabulary shared by the scheduler
// and its front ends, localized message text and headless log sinks.
package notify

import "context"

// Alert identifiers. The identifier doubles as the alarm name for reminders,
// so showing an alert with the same id replaces the previous one.
const (
	AlertPreLeave   = "preLeave"
	AlertEndTime    = "endTime"
	AlertLunchEnd   = "lunchEnd"
	AlertMicroBreak = "microBreak"
	AlertWorkEnded  = "workEnded"
	AlertOvertime   = "overtime"
)

// Priority orders alerts for front ends that can highlight them.
type Priority int

const (
	PriorityNormal Priority = 1
	PriorityHigh   Priority = 2
)

// Alert is a user-visible notification with optional action buttons.
type Alert struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	Actions  []string `json:"actions,omitempty"`
	Priority Priority `json:"priority"`
}

// Alerts shows and clears notifications.
type Alerts interface {
	Show(ctx context.Context, alert Alert) error
	Clear(ctx context.Context, id string) error
}

// Badge renders a short status string next to the tray icon.
type Badge interface {
	SetText(text string) error
	SetColor(color string) error
}

// Badge colors.
const (
	ColorNormal   = "#4facfe"
	ColorOvertime = "#ff4444"
)
