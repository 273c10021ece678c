package session

import (
	"testing"
	"time"

	"worktime/internal/core/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 10, 19, hour, minute, 0, 0, time.Local)
}

func workingState(t *testing.T, start time.Time) State {
	t.Helper()
	state := NewState(model.DefaultSettings())
	require.True(t, state.StartWork(start, model.DefaultSettings()))
	return state
}

func TestEndTimeAddsLunchToRequiredHours(t *testing.T) {
	tests := []struct {
		name       string
		start      time.Time
		lunchStart time.Time
		lunchEnd   time.Time
		required   float64
		want       time.Time
	}{
		{name: "long lunch", start: at(8, 30), lunchStart: at(12, 0), lunchEnd: at(13, 30), required: 8, want: at(18, 0)},
		{name: "standard day", start: at(8, 0), lunchStart: at(12, 0), lunchEnd: at(13, 0), required: 8, want: at(17, 0)},
		{name: "late start", start: at(9, 30), lunchStart: at(12, 30), lunchEnd: at(14, 0), required: 8, want: at(19, 0)},
		{name: "short lunch", start: at(7, 0), lunchStart: at(12, 0), lunchEnd: at(12, 30), required: 8, want: at(15, 30)},
		{name: "fractional hours", start: at(9, 0), lunchStart: at(12, 0), lunchEnd: at(12, 45), required: 7.5, want: at(17, 15)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := model.DefaultSettings()
			settings.RequiredHours = tt.required

			state := NewState(settings)
			require.True(t, state.StartWork(tt.start, settings))
			require.True(t, state.StartLunch(tt.lunchStart))
			require.True(t, state.EndLunch(tt.lunchEnd))

			endTime, ok := state.EndTime()
			require.True(t, ok)
			assert.True(t, endTime.Equal(tt.want), "end time = %s, want %s", endTime.Format("15:04"), tt.want.Format("15:04"))
		})
	}
}

func TestEndTimeIgnoresIncompleteLunch(t *testing.T) {
	state := workingState(t, at(8, 0))
	require.True(t, state.StartLunch(at(12, 0)))

	endTime, ok := state.EndTime()
	require.True(t, ok)
	assert.True(t, endTime.Equal(at(16, 0)))

	projected, ok := state.ProjectedEndTime(at(12, 40))
	require.True(t, ok)
	assert.True(t, projected.Equal(at(16, 40)))
}

func TestEndTimeTreatsNegativeLunchAsZero(t *testing.T) {
	state := workingState(t, at(8, 0))
	lunchStart := at(13, 0)
	lunchEnd := at(12, 0)
	state.LunchStartTime = &lunchStart
	state.LunchEndTime = &lunchEnd

	endTime, ok := state.EndTime()
	require.True(t, ok)
	assert.True(t, endTime.Equal(at(16, 0)))
}

func TestEndTimeWithoutStart(t *testing.T) {
	state := NewState(model.DefaultSettings())
	_, ok := state.EndTime()
	assert.False(t, ok)
	_, ok = state.PreLeaveTime()
	assert.False(t, ok)
}

func TestPreLeaveTime(t *testing.T) {
	state := workingState(t, at(8, 0))
	preLeave, ok := state.PreLeaveTime()
	require.True(t, ok)
	assert.True(t, preLeave.Equal(at(15, 50)))
	assert.Equal(t, 10*time.Minute, state.PreLeaveLead())
}

func TestStartWorkIgnoresDuplicate(t *testing.T) {
	state := workingState(t, at(8, 0))
	id := state.ID
	require.NotEmpty(t, id)

	assert.False(t, state.StartWork(at(9, 0), model.DefaultSettings()))
	assert.True(t, state.StartTime.Equal(at(8, 0)))
	assert.Equal(t, id, state.ID)
}

func TestStartWorkClearsPreviousLunch(t *testing.T) {
	state := workingState(t, at(8, 0))
	require.True(t, state.StartLunch(at(12, 0)))
	require.True(t, state.EndLunch(at(13, 0)))
	require.True(t, state.EndWork(at(17, 0)))

	require.True(t, state.StartWork(at(18, 0), model.DefaultSettings()))
	assert.Nil(t, state.LunchStartTime)
	assert.Nil(t, state.LunchEndTime)
	assert.Nil(t, state.EndedAt)
	assert.Equal(t, PhaseWorking, state.Phase())
}

func TestLunchTransitions(t *testing.T) {
	state := workingState(t, at(8, 0))

	require.True(t, state.StartLunch(at(12, 0)))
	assert.True(t, state.IsOnLunch)
	assert.True(t, state.IsWorking)
	assert.Equal(t, PhaseOnLunch, state.Phase())

	assert.False(t, state.StartLunch(at(12, 5)), "already on lunch")

	require.True(t, state.EndLunch(at(13, 0)))
	assert.False(t, state.IsOnLunch)
	assert.True(t, state.IsWorking)
	assert.Equal(t, PhaseWorking, state.Phase())

	assert.False(t, state.EndLunch(at(13, 5)), "not on lunch")
	assert.False(t, state.StartLunch(at(14, 0)), "one lunch per session")
}

func TestStartLunchRequiresWorking(t *testing.T) {
	state := NewState(model.DefaultSettings())
	assert.False(t, state.StartLunch(at(12, 0)))
	assert.False(t, state.IsOnLunch)
	assert.Nil(t, state.LunchStartTime)
}

func TestEndLunchClampsToLunchStart(t *testing.T) {
	state := workingState(t, at(8, 0))
	require.True(t, state.StartLunch(at(12, 0)))
	require.True(t, state.EndLunch(at(11, 0)))
	assert.True(t, state.LunchEndTime.Equal(at(12, 0)))
}

func TestEndWorkIsIdempotent(t *testing.T) {
	state := workingState(t, at(8, 0))
	require.True(t, state.EndWork(at(16, 0)))
	ended := state

	assert.False(t, state.EndWork(at(17, 0)))
	assert.Equal(t, ended, state)
	assert.NotNil(t, state.StartTime, "start time is kept for display")
}

func TestEndWorkDuringLunchClosesLunch(t *testing.T) {
	state := workingState(t, at(8, 0))
	require.True(t, state.StartLunch(at(12, 0)))
	require.True(t, state.EndWork(at(12, 30)))

	assert.False(t, state.IsOnLunch)
	assert.False(t, state.IsWorking)
	require.NotNil(t, state.LunchEndTime)
	assert.True(t, state.LunchEndTime.Equal(at(12, 30)))
}

func TestResetKeepsConfiguration(t *testing.T) {
	settings := model.DefaultSettings()
	settings.RequiredHours = 6
	settings.PreLeaveMinutes = 15

	state := NewState(settings)
	require.True(t, state.StartWork(at(8, 0), settings))
	require.True(t, state.StartLunch(at(12, 0)))

	state.Reset()

	assert.Equal(t, State{RequiredHours: 6, PreLeaveMinutes: 15}, state)
	assert.Equal(t, PhaseIdle, state.Phase())
}

func TestWorked(t *testing.T) {
	state := workingState(t, at(8, 0))
	assert.Equal(t, 2*time.Hour, state.Worked(at(10, 0)))

	require.True(t, state.StartLunch(at(12, 0)))
	assert.Equal(t, 4*time.Hour, state.Worked(at(12, 45)), "lunch in progress gives no credit")

	require.True(t, state.EndLunch(at(13, 0)))
	assert.Equal(t, 5*time.Hour, state.Worked(at(14, 0)))

	require.True(t, state.EndWork(at(17, 0)))
	assert.Equal(t, 8*time.Hour, state.Worked(at(20, 0)), "ended session stops counting")
}

func TestOvertimeFlipsExactlyAtEndTime(t *testing.T) {
	state := workingState(t, at(8, 0))
	endTime, _ := state.EndTime()

	assert.False(t, state.Overtime(endTime.Add(-time.Millisecond)))
	assert.True(t, state.Overtime(endTime))
	assert.Equal(t, StatusWorking, state.Snapshot(endTime.Add(-time.Millisecond)).Status)
	assert.Equal(t, StatusOvertime, state.Snapshot(endTime).Status)
}

func TestSnapshotStatus(t *testing.T) {
	idle := NewState(model.DefaultSettings())
	assert.Equal(t, StatusReady, idle.Snapshot(at(9, 0)).Status)

	state := workingState(t, at(8, 0))
	snapshot := state.Snapshot(at(9, 0))
	assert.Equal(t, StatusWorking, snapshot.Status)
	assert.Equal(t, 7*time.Hour, snapshot.Remaining)
	require.NotNil(t, snapshot.EndTime)
	assert.True(t, snapshot.EndTime.Equal(at(16, 0)))

	require.True(t, state.StartLunch(at(12, 0)))
	lunch := state.Snapshot(at(17, 0))
	assert.Equal(t, StatusLunch, lunch.Status)
	assert.False(t, lunch.Overtime, "no overtime while on lunch")
}
