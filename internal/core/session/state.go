package session

import (
	"time"

	"worktime/internal/core/model"

	"github.com/google/uuid"
)

// Phase is the lifecycle position of the day's session.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseWorking Phase = "working"
	PhaseOnLunch Phase = "on_lunch"
)

// State is the persisted single active session.
type State struct {
	ID             string
	IsWorking      bool
	IsOnLunch      bool
	StartTime      *time.Time
	LunchStartTime *time.Time
	LunchEndTime   *time.Time
	EndedAt        *time.Time

	RequiredHours   float64
	PreLeaveMinutes int
}

// NewState returns the defaulted idle state for the given settings.
func NewState(settings model.Settings) State {
	return State{
		RequiredHours:   settings.RequiredHours,
		PreLeaveMinutes: settings.PreLeaveMinutes,
	}
}

// Phase derives exactly one of idle, working or on lunch.
func (state State) Phase() Phase {
	switch {
	case !state.IsWorking:
		return PhaseIdle
	case state.IsOnLunch:
		return PhaseOnLunch
	default:
		return PhaseWorking
	}
}

// StartWork begins a session. A duplicate start while working is ignored.
func (state *State) StartWork(start time.Time, settings model.Settings) bool {
	if state.IsWorking {
		return false
	}
	state.ID = uuid.NewString()
	state.IsWorking = true
	state.IsOnLunch = false
	state.StartTime = timePtr(start)
	state.LunchStartTime = nil
	state.LunchEndTime = nil
	state.EndedAt = nil
	state.RequiredHours = settings.RequiredHours
	state.PreLeaveMinutes = settings.PreLeaveMinutes
	return true
}

// StartLunch opens the day's single lunch interval.
func (state *State) StartLunch(now time.Time) bool {
	if !state.IsWorking || state.IsOnLunch || state.LunchEndTime != nil {
		return false
	}
	state.IsOnLunch = true
	state.LunchStartTime = timePtr(now)
	return true
}

// EndLunch closes the lunch interval.
func (state *State) EndLunch(now time.Time) bool {
	if !state.IsWorking || !state.IsOnLunch {
		return false
	}
	state.IsOnLunch = false
	state.LunchEndTime = timePtr(clampAfter(now, state.LunchStartTime))
	return true
}

// EndWork stops the session. Start and lunch fields stay for display.
func (state *State) EndWork(now time.Time) bool {
	if !state.IsWorking {
		return false
	}
	if state.IsOnLunch {
		state.LunchEndTime = timePtr(clampAfter(now, state.LunchStartTime))
	}
	state.IsWorking = false
	state.IsOnLunch = false
	state.EndedAt = timePtr(now)
	return true
}

// Reset returns to a defaulted idle state keeping only hour configuration.
func (state *State) Reset() {
	*state = State{
		RequiredHours:   state.RequiredHours,
		PreLeaveMinutes: state.PreLeaveMinutes,
	}
}

// LunchDuration is the completed lunch length, zero unless both ends are set.
func (state State) LunchDuration() time.Duration {
	if state.LunchStartTime == nil || state.LunchEndTime == nil {
		return 0
	}
	duration := state.LunchEndTime.Sub(*state.LunchStartTime)
	if duration < 0 {
		return 0
	}
	return duration
}

// EndTime is start + required hours + completed lunch duration.
func (state State) EndTime() (time.Time, bool) {
	if state.StartTime == nil {
		return time.Time{}, false
	}
	total := model.HoursToDuration(state.RequiredHours) + state.LunchDuration()
	return state.StartTime.Add(total), true
}

// ProjectedEndTime treats a lunch in progress as lasting until now.
func (state State) ProjectedEndTime(now time.Time) (time.Time, bool) {
	endTime, ok := state.EndTime()
	if !ok {
		return endTime, false
	}
	if state.IsOnLunch && state.LunchStartTime != nil && state.LunchEndTime == nil {
		if lunchSoFar := now.Sub(*state.LunchStartTime); lunchSoFar > 0 {
			endTime = endTime.Add(lunchSoFar)
		}
	}
	return endTime, true
}

// PreLeaveTime is the end time minus the warning lead.
func (state State) PreLeaveTime() (time.Time, bool) {
	endTime, ok := state.EndTime()
	if !ok {
		return endTime, false
	}
	return endTime.Add(-state.PreLeaveLead()), true
}

// PreLeaveLead is the warning lead copied into the session.
func (state State) PreLeaveLead() time.Duration {
	return time.Duration(state.PreLeaveMinutes) * time.Minute
}

// Worked is elapsed time since start minus lunch. A lunch in progress
// subtracts the time since it started.
func (state State) Worked(now time.Time) time.Duration {
	if state.StartTime == nil {
		return 0
	}
	until := now
	if !state.IsWorking && state.EndedAt != nil {
		until = *state.EndedAt
	}

	worked := until.Sub(*state.StartTime)
	switch {
	case state.IsOnLunch && state.LunchStartTime != nil:
		worked -= until.Sub(*state.LunchStartTime)
	case state.LunchStartTime != nil && state.LunchEndTime != nil:
		worked -= state.LunchDuration()
	}
	if worked < 0 {
		return 0
	}
	return worked
}

// Remaining is end time minus now; negative values mean overtime.
func (state State) Remaining(now time.Time) time.Duration {
	endTime, ok := state.EndTime()
	if !ok {
		return 0
	}
	return endTime.Sub(now)
}

// Overtime reports whether a working session has reached its end time.
func (state State) Overtime(now time.Time) bool {
	if state.Phase() != PhaseWorking {
		return false
	}
	return state.Remaining(now) <= 0
}

// Snapshot computes the display values at now.
func (state State) Snapshot(now time.Time) Snapshot {
	snapshot := Snapshot{
		SessionID: state.ID,
		Phase:     state.Phase(),
		StartTime: state.StartTime,
		Worked:    state.Worked(now),
		At:        now,
	}
	if endTime, ok := state.EndTime(); ok {
		snapshot.EndTime = &endTime
		snapshot.Remaining = endTime.Sub(now)
	}

	switch snapshot.Phase {
	case PhaseIdle:
		snapshot.Status = StatusReady
	case PhaseOnLunch:
		snapshot.Status = StatusLunch
	default:
		if state.Overtime(now) {
			snapshot.Status = StatusOvertime
			snapshot.Overtime = true
		} else {
			snapshot.Status = StatusWorking
		}
	}
	return snapshot
}

func timePtr(value time.Time) *time.Time {
	return &value
}

func clampAfter(value time.Time, floor *time.Time) time.Time {
	if floor != nil && value.Before(*floor) {
		return *floor
	}
	return value
}
