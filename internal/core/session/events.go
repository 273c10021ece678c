package session

import "time"

// Status is the user-facing condition shown by the popup and badge.
type Status string

const (
	StatusReady    Status = "ready"
	StatusWorking  Status = "working"
	StatusLunch    Status = "lunch"
	StatusOvertime Status = "overtime"
)

// Snapshot is a point-in-time view of the session for observers.
type Snapshot struct {
	SessionID string
	Phase     Phase
	Status    Status
	StartTime *time.Time
	EndTime   *time.Time
	Worked    time.Duration
	Remaining time.Duration
	Overtime  bool
	At        time.Time
}
