package workday

import (
	"context"
	"testing"
	"time"

	"worktime/internal/core/model"
	"worktime/internal/core/scheduler"
	"worktime/internal/core/session"
	"worktime/internal/notify"
	"worktime/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingScheduler struct {
	calls    []string
	messages []scheduler.Message
	starts   []time.Time
}

func (rec *recordingScheduler) record(call string) {
	rec.calls = append(rec.calls, call)
}

func (rec *recordingScheduler) OnWorkStarted(_ context.Context, start time.Time) {
	rec.starts = append(rec.starts, start)
	rec.record("workStarted")
}

func (rec *recordingScheduler) OnWorkEnded(context.Context) {
	rec.record("workEnded")
}

func (rec *recordingScheduler) OnLunchStarted(context.Context) {
	rec.record("lunchStarted")
}

func (rec *recordingScheduler) OnLunchEnded(context.Context) {
	rec.record("lunchEnded")
}

func (rec *recordingScheduler) OnAlarmFired(_ context.Context, name string) {
	rec.record("fired:" + name)
}

func (rec *recordingScheduler) Resume(context.Context) {
	rec.record("resume")
}

func (rec *recordingScheduler) RefreshBadge(context.Context) {}

func (rec *recordingScheduler) HandleMessage(_ context.Context, msg scheduler.Message) error {
	rec.messages = append(rec.messages, msg)
	if msg.Action == "bogus" {
		return scheduler.ErrUnknownAction
	}
	return nil
}

func (rec *recordingScheduler) NotifyWorkEnded(context.Context) {
	rec.record("notifyWorkEnded")
}

func (rec *recordingScheduler) NotifyOvertime(context.Context) {
	rec.record("notifyOvertime")
}

func (rec *recordingScheduler) ClearAlert(_ context.Context, id string) {
	rec.record("clear:" + id)
}

type fixture struct {
	service  *Service
	sched    *recordingScheduler
	settings *storage.SettingsFile
	state    *storage.StateStore
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	db, err := storage.OpenDB(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	f := &fixture{
		sched:    &recordingScheduler{},
		settings: storage.NewSettingsFile(storage.SettingsPath(dir)),
		state:    storage.NewStateStore(db),
		now:      time.Date(2026, 10, 19, 8, 30, 0, 0, time.Local),
	}
	f.service = NewService(f.settings, f.state, f.sched, func() time.Time { return f.now })
	return f
}

func (f *fixture) load(t *testing.T) session.State {
	t.Helper()
	state, err := f.state.LoadState(context.Background())
	require.NoError(t, err)
	return state
}

func TestDayLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	snapshot, err := f.service.StartWork(ctx, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, session.StatusWorking, snapshot.Status)
	require.NotNil(t, snapshot.EndTime)
	assert.True(t, snapshot.EndTime.Equal(f.now.Add(8*time.Hour)))

	f.now = f.now.Add(3*time.Hour + 30*time.Minute)
	snapshot, err = f.service.StartLunch(ctx)
	require.NoError(t, err)
	assert.Equal(t, session.StatusLunch, snapshot.Status)
	state := f.load(t)
	assert.True(t, state.IsWorking)
	assert.True(t, state.IsOnLunch)

	f.now = f.now.Add(90 * time.Minute)
	snapshot, err = f.service.EndLunch(ctx)
	require.NoError(t, err)
	assert.Equal(t, session.StatusWorking, snapshot.Status)
	assert.Equal(t, "18:00", snapshot.EndTime.Format("15:04"))

	f.now = f.now.Add(4*time.Hour + 30*time.Minute)
	snapshot, err = f.service.EndWork(ctx)
	require.NoError(t, err)
	assert.Equal(t, session.StatusReady, snapshot.Status)
	assert.Equal(t, 8*time.Hour, snapshot.Worked)

	assert.Equal(t, []string{"workStarted", "lunchStarted", "lunchEnded", "workEnded"}, f.sched.calls)
}

func TestStartWorkKeepsMinutePrecision(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.now = time.Date(2026, 10, 19, 8, 30, 27, 123456789, time.Local)

	snapshot, err := f.service.StartWork(ctx, time.Time{})
	require.NoError(t, err)

	want := time.Date(2026, 10, 19, 8, 30, 0, 0, time.Local)
	require.NotNil(t, snapshot.StartTime)
	assert.True(t, snapshot.StartTime.Equal(want))
	require.Len(t, f.sched.starts, 1)
	assert.True(t, f.sched.starts[0].Equal(want))

	state := f.load(t)
	require.NotNil(t, state.StartTime)
	assert.True(t, state.StartTime.Equal(f.sched.starts[0]), "announced start matches the stored one")
}

func TestNoopTransitionsTouchNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.service.EndWork(ctx)
	require.NoError(t, err)
	_, err = f.service.StartLunch(ctx)
	require.NoError(t, err)
	assert.Empty(t, f.sched.calls)

	_, err = f.service.StartWork(ctx, f.now)
	require.NoError(t, err)
	first := f.load(t)

	_, err = f.service.StartWork(ctx, f.now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, first, f.load(t), "duplicate start is ignored")
	assert.Equal(t, []string{"workStarted"}, f.sched.calls)
}

func TestStartWorkCopiesSettings(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	settings := model.DefaultSettings()
	settings.RequiredHours = 7.5
	settings.PreLeaveMinutes = 20
	require.NoError(t, f.settings.Save(settings))

	_, err := f.service.StartWork(ctx, time.Date(2026, 10, 19, 7, 45, 0, 0, time.Local))
	require.NoError(t, err)

	state := f.load(t)
	assert.Equal(t, 7.5, state.RequiredHours)
	assert.Equal(t, 20, state.PreLeaveMinutes)
	endTime, ok := state.EndTime()
	require.True(t, ok)
	assert.Equal(t, "15:15", endTime.Format("15:04"))
}

func TestResetKeepsConfigurationInStore(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	settings := model.DefaultSettings()
	settings.RequiredHours = 6
	require.NoError(t, f.settings.Save(settings))

	_, err := f.service.StartWork(ctx, f.now)
	require.NoError(t, err)
	_, err = f.service.Reset(ctx)
	require.NoError(t, err)

	assert.Equal(t, session.State{RequiredHours: 6, PreLeaveMinutes: 10}, f.load(t))
	persisted, err := storage.LoadSettings(f.settings.Path())
	require.NoError(t, err)
	assert.Equal(t, 6.0, persisted.RequiredHours, "reset leaves settings alone")
	assert.Contains(t, f.sched.calls, "workEnded")
}

func TestResetAllRestoresDefaultsInStore(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	settings := model.DefaultSettings()
	settings.RequiredHours = 6
	settings.MicroBreakEnabled = true
	settings.NotificationStyle = model.StyleSimple
	require.NoError(t, f.settings.Save(settings))
	_, err := f.service.StartWork(ctx, f.now)
	require.NoError(t, err)

	require.NoError(t, f.service.ResetAll(ctx))

	persisted, err := storage.LoadSettings(f.settings.Path())
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSettings(), persisted)
	cached, err := f.service.Settings()
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSettings(), cached)
	assert.Equal(t, session.NewState(model.DefaultSettings()), f.load(t))
}

func TestHandleAlertAction(t *testing.T) {
	ctx := context.Background()

	t.Run("end work from pre-leave", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.StartWork(ctx, f.now)
		require.NoError(t, err)

		require.NoError(t, f.service.HandleAlertAction(ctx, notify.AlertPreLeave, 0))

		assert.False(t, f.load(t).IsWorking)
		assert.Equal(t, []string{"workStarted", "workEnded", "notifyWorkEnded", "clear:preLeave"}, f.sched.calls)
	})

	t.Run("continue overtime", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.StartWork(ctx, f.now)
		require.NoError(t, err)

		require.NoError(t, f.service.HandleAlertAction(ctx, notify.AlertEndTime, 1))

		assert.True(t, f.load(t).IsWorking)
		assert.Equal(t, []string{"workStarted", "notifyOvertime", "clear:endTime"}, f.sched.calls)
	})

	t.Run("end lunch", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.StartWork(ctx, f.now)
		require.NoError(t, err)
		_, err = f.service.StartLunch(ctx)
		require.NoError(t, err)

		require.NoError(t, f.service.HandleAlertAction(ctx, notify.AlertLunchEnd, 0))

		state := f.load(t)
		assert.False(t, state.IsOnLunch)
		assert.NotNil(t, state.LunchEndTime)
	})

	t.Run("dismiss only clears", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.service.HandleAlertAction(ctx, notify.AlertLunchEnd, 1))
		assert.Equal(t, []string{"clear:lunchEnd"}, f.sched.calls)
	})

	t.Run("unknown button", func(t *testing.T) {
		f := newFixture(t)
		err := f.service.HandleAlertAction(ctx, notify.AlertMicroBreak, 3)
		assert.ErrorIs(t, err, ErrAlertAction)
	})
}

func TestHandleAlertClick(t *testing.T) {
	f := newFixture(t)
	f.service.HandleAlertClick(context.Background(), notify.AlertEndTime)
	assert.Equal(t, []string{"clear:endTime"}, f.sched.calls)
}

func TestDispatch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	start := f.now.Add(-time.Hour)
	snapshot, err := f.service.Dispatch(ctx, scheduler.Message{Action: ActionStartWork, StartTime: &start})
	require.NoError(t, err)
	assert.True(t, snapshot.StartTime.Equal(start))

	_, err = f.service.Dispatch(ctx, scheduler.Message{Action: scheduler.ActionClearAlarms})
	require.NoError(t, err)
	require.Len(t, f.sched.messages, 1)
	assert.Equal(t, scheduler.ActionClearAlarms, f.sched.messages[0].Action)

	_, err = f.service.Dispatch(ctx, scheduler.Message{Action: "bogus"})
	assert.ErrorIs(t, err, scheduler.ErrUnknownAction)
}

func TestAlarmFiredAndSettingsChanged(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.service.AlarmFired(ctx, scheduler.AlarmEndTime)
	f.service.SettingsChanged(ctx)
	updated, err := f.service.UpdateSettings(ctx, model.Settings{RequiredHours: 9})
	require.NoError(t, err)

	assert.Equal(t, 9.0, updated.RequiredHours)
	assert.Equal(t, 10, updated.PreLeaveMinutes, "invalid fields fall back to defaults")
	assert.Equal(t, []string{"fired:endTime", "resume", "resume"}, f.sched.calls)
}
