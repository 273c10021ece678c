package scheduler

import (
	"context"
	"fmt"
	"time"
)

// Actions accepted at the message boundary.
const (
	ActionWorkStarted  = "workStarted"
	ActionWorkEnded    = "workEnded"
	ActionLunchStarted = "lunchStarted"
	ActionLunchEnded   = "lunchEnded"
	ActionSetAlarm     = "setAlarm"
	ActionClearAlarms  = "clearAlarms"
)

// Message is a named action sent by a foreground UI.
type Message struct {
	Action    string     `json:"action"`
	StartTime *time.Time `json:"startTime,omitempty"`
	Name      string     `json:"name,omitempty"`
	// When is an absolute fire time in epoch milliseconds.
	When int64 `json:"when,omitempty"`
}

// HandleMessage runs a boundary action. Only malformed messages return an
// error; collaborator failures are logged like every other handler.
func (scheduler *Scheduler) HandleMessage(ctx context.Context, msg Message) error {
	switch msg.Action {
	case ActionWorkStarted:
		start := scheduler.deps.Now()
		if msg.StartTime != nil {
			start = *msg.StartTime
		}
		scheduler.OnWorkStarted(ctx, start)
	case ActionWorkEnded:
		scheduler.OnWorkEnded(ctx)
	case ActionLunchStarted:
		scheduler.OnLunchStarted(ctx)
	case ActionLunchEnded:
		scheduler.OnLunchEnded(ctx)
	case ActionSetAlarm:
		if msg.Name == "" || msg.When <= 0 {
			return fmt.Errorf("%w: setAlarm needs name and when", ErrInvalidMessage)
		}
		scheduler.schedule(ctx, msg.Name, time.UnixMilli(msg.When))
	case ActionClearAlarms:
		if err := scheduler.deps.Alarms.CancelAll(ctx); err != nil {
			scheduler.logger.Error().Err(err).Msg("Failed to clear alarms")
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, msg.Action)
	}
	return nil
}
