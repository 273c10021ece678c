// Package scheduler keeps the pending alarm set consistent with the persisted
// session and reacts when alarms fire.
//
// Every handler reloads settings and state from storage instead of trusting
// memory, because an alarm may be delivered after the process or machine was
// asleep for an arbitrary time. Failures are logged and the handler returns
// normally; the next event re-derives a consistent alarm set.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"worktime/internal/core/model"
	"worktime/internal/core/session"
	"worktime/internal/notify"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Alarm names.
const (
	AlarmPreLeave   = "preLeave"
	AlarmEndTime    = "endTime"
	AlarmLunchEnd   = "lunchEnd"
	AlarmMicroBreak = "microBreak"
)

// rearmSlack tolerates alarm delivery a little earlier than the recomputed
// due time without re-arming.
const rearmSlack = time.Second

// Errors returned by HandleMessage.
var (
	ErrUnknownAction  = errors.New("unknown action")
	ErrInvalidMessage = errors.New("invalid message")
)

// SettingsSource returns the current user settings.
type SettingsSource interface {
	Settings() (model.Settings, error)
}

// StateStore persists the session state.
type StateStore interface {
	LoadState(ctx context.Context) (session.State, error)
	SaveState(ctx context.Context, state session.State) error
}

// Alarms is the absolute-time one-shot alarm primitive.
type Alarms interface {
	Schedule(ctx context.Context, name string, when time.Time) error
	Cancel(ctx context.Context, name string) error
	CancelAll(ctx context.Context) error
	Get(name string) (time.Time, bool)
}

// Translator localizes alert text.
type Translator interface {
	Message(lang, id string, data map[string]any) string
}

// Deps are the collaborators of a Scheduler.
type Deps struct {
	Settings   SettingsSource
	State      StateStore
	Alarms     Alarms
	Alerts     notify.Alerts
	Badge      notify.Badge
	Translator Translator
	// Idle is optional. When set, micro-break alerts are skipped while the
	// user has been away for at least one interval.
	Idle IdleChecker
	Now  func() time.Time
}

// IdleChecker reports the time since the last user input.
type IdleChecker interface {
	IdleDuration() (time.Duration, error)
}

// Scheduler turns session transitions into alarms and fired alarms into alerts.
type Scheduler struct {
	deps   Deps
	logger zerolog.Logger
}

// New creates a Scheduler.
func New(deps Deps) *Scheduler {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Scheduler{
		deps:   deps,
		logger: log.With().Str("component", "scheduler").Logger(),
	}
}

// OnWorkStarted replaces the alarm set with the day's reminders.
func (scheduler *Scheduler) OnWorkStarted(ctx context.Context, start time.Time) {
	settings := scheduler.settings()
	state, err := scheduler.deps.State.LoadState(ctx)
	if err != nil {
		scheduler.logger.Error().Err(err).Msg("Failed to load state")
		state = session.NewState(settings)
	}
	// Stored times have millisecond precision.
	if state.StartTime == nil || !state.StartTime.Equal(start.Truncate(time.Millisecond)) {
		// Announced start without a persisted session: derive from settings.
		state = session.NewState(settings)
		state.StartTime = &start
	}

	if err := scheduler.deps.Alarms.CancelAll(ctx); err != nil {
		scheduler.logger.Error().Err(err).Msg("Failed to clear alarms")
		return
	}
	scheduler.installDayAlarms(ctx, state, scheduler.deps.Now(), false)

	if settings.MicroBreakEnabled {
		scheduler.schedule(ctx, AlarmMicroBreak, scheduler.deps.Now().Add(settings.MicroBreakInterval()))
	}
	scheduler.logger.Info().Str("session", state.ID).Time("start", start).Msg("Work started")
}

// OnWorkEnded clears every alarm and the badge.
func (scheduler *Scheduler) OnWorkEnded(ctx context.Context) {
	if err := scheduler.deps.Alarms.CancelAll(ctx); err != nil {
		scheduler.logger.Error().Err(err).Msg("Failed to clear alarms")
	}
	scheduler.setBadge("", "")
	scheduler.logger.Info().Msg("Work ended")
}

// OnLunchStarted arms the lunch-end reminder a fixed duration from now.
func (scheduler *Scheduler) OnLunchStarted(ctx context.Context) {
	settings := scheduler.settings()
	scheduler.schedule(ctx, AlarmLunchEnd, scheduler.deps.Now().Add(settings.LunchReminder()))
	scheduler.logger.Info().Msg("Lunch started")
}

// OnLunchEnded cancels the lunch-end reminder only. Day alarms that are now
// early re-arm themselves when they fire.
func (scheduler *Scheduler) OnLunchEnded(ctx context.Context) {
	if err := scheduler.deps.Alarms.Cancel(ctx, AlarmLunchEnd); err != nil {
		scheduler.logger.Error().Err(err).Msg("Failed to cancel lunch alarm")
	}
	scheduler.logger.Info().Msg("Lunch ended")
}

// OnAlarmFired dispatches a fired alarm by name.
func (scheduler *Scheduler) OnAlarmFired(ctx context.Context, name string) {
	settings := scheduler.settings()
	state, err := scheduler.deps.State.LoadState(ctx)
	if err != nil {
		scheduler.logger.Error().Err(err).Str("alarm", name).Msg("Failed to load state")
		return
	}
	now := scheduler.deps.Now()

	switch name {
	case AlarmPreLeave, AlarmEndTime:
		scheduler.onDayAlarm(ctx, name, settings, state, now)
	case AlarmLunchEnd:
		if !state.IsOnLunch {
			scheduler.logger.Debug().Msg("Stale lunch alarm ignored")
			return
		}
		if settings.Notifications.LunchEnd {
			scheduler.show(ctx, scheduler.lunchEndAlert(settings))
		}
	case AlarmMicroBreak:
		scheduler.onMicroBreak(ctx, settings, state, now)
	default:
		scheduler.logger.Warn().Str("alarm", name).Msg("Unknown alarm ignored")
	}
}

func (scheduler *Scheduler) onDayAlarm(ctx context.Context, name string, settings model.Settings, state session.State, now time.Time) {
	if !state.IsWorking {
		scheduler.logger.Debug().Str("alarm", name).Msg("Stale alarm ignored")
		return
	}
	due, ok := state.ProjectedEndTime(now)
	if !ok {
		return
	}
	if name == AlarmPreLeave {
		due = due.Add(-state.PreLeaveLead())
	}
	if due.Sub(now) > rearmSlack {
		scheduler.logger.Info().Str("alarm", name).Time("due", due).Msg("End time moved, re-arming")
		scheduler.schedule(ctx, name, due)
		return
	}

	switch name {
	case AlarmPreLeave:
		if settings.Notifications.PreLeave {
			scheduler.show(ctx, scheduler.preLeaveAlert(settings, state.PreLeaveMinutes))
		}
	case AlarmEndTime:
		if settings.Notifications.EndTime {
			scheduler.show(ctx, scheduler.endTimeAlert(settings))
		}
	}
}

func (scheduler *Scheduler) onMicroBreak(ctx context.Context, settings model.Settings, state session.State, now time.Time) {
	if !settings.MicroBreakEnabled || !state.IsWorking {
		return
	}
	if state.Phase() == session.PhaseWorking && settings.IsWorkday(now) && !scheduler.away(settings.MicroBreakInterval()) {
		scheduler.show(ctx, notify.Alert{
			ID:       notify.AlertMicroBreak,
			Title:    scheduler.text(settings, notify.MsgTitle, nil),
			Message:  scheduler.text(settings, notify.MsgMicroBreak, nil),
			Priority: notify.PriorityNormal,
		})
	}
	// Keep the chain alive through lunch and days off so breaks resume
	// afterwards.
	scheduler.schedule(ctx, AlarmMicroBreak, now.Add(settings.MicroBreakInterval()))
}

func (scheduler *Scheduler) away(threshold time.Duration) bool {
	if scheduler.deps.Idle == nil {
		return false
	}
	idle, err := scheduler.deps.Idle.IdleDuration()
	if err != nil {
		return false
	}
	if idle >= threshold {
		scheduler.logger.Debug().Dur("idle", idle).Msg("User away, micro-break skipped")
		return true
	}
	return false
}

// Resume repairs the alarm set at process start. Alarms persisted by a
// previous run are kept; missing ones are reinstalled from the session.
func (scheduler *Scheduler) Resume(ctx context.Context) {
	settings := scheduler.settings()
	state, err := scheduler.deps.State.LoadState(ctx)
	if err != nil {
		scheduler.logger.Error().Err(err).Msg("Failed to load state")
		return
	}
	now := scheduler.deps.Now()

	if !state.IsWorking {
		if err := scheduler.deps.Alarms.CancelAll(ctx); err != nil {
			scheduler.logger.Error().Err(err).Msg("Failed to clear alarms")
		}
		scheduler.RefreshBadge(ctx)
		return
	}

	if _, ok := scheduler.deps.Alarms.Get(AlarmEndTime); !ok {
		if endTime, ok := state.EndTime(); ok && endTime.After(now) {
			scheduler.installDayAlarms(ctx, state, now, true)
		}
	}
	if settings.MicroBreakEnabled {
		if _, ok := scheduler.deps.Alarms.Get(AlarmMicroBreak); !ok {
			scheduler.schedule(ctx, AlarmMicroBreak, now.Add(settings.MicroBreakInterval()))
		}
	}
	if state.IsOnLunch && state.LunchStartTime != nil {
		// A reminder in the past has already fired.
		when := state.LunchStartTime.Add(settings.LunchReminder())
		if _, ok := scheduler.deps.Alarms.Get(AlarmLunchEnd); !ok && when.After(now) {
			scheduler.schedule(ctx, AlarmLunchEnd, when)
		}
	}

	scheduler.logger.Info().Str("session", state.ID).Msg("Session resumed")
	scheduler.RefreshBadge(ctx)
}

// installDayAlarms installs endTime then preLeave. A failed endTime install
// leaves the set without preLeave. With skipPast a pre-leave time already
// behind now is not installed; otherwise it fires on the next poll.
func (scheduler *Scheduler) installDayAlarms(ctx context.Context, state session.State, now time.Time, skipPast bool) {
	endTime, ok := state.EndTime()
	if !ok {
		return
	}
	if !scheduler.schedule(ctx, AlarmEndTime, endTime) {
		return
	}
	preLeave, _ := state.PreLeaveTime()
	if skipPast && !preLeave.After(now) {
		return
	}
	scheduler.schedule(ctx, AlarmPreLeave, preLeave)
}

// RefreshBadge redraws the badge from the persisted session.
func (scheduler *Scheduler) RefreshBadge(ctx context.Context) {
	state, err := scheduler.deps.State.LoadState(ctx)
	if err != nil {
		scheduler.logger.Error().Err(err).Msg("Failed to load state")
		return
	}
	scheduler.UpdateBadge(state.Snapshot(scheduler.deps.Now()))
}

// UpdateBadge redraws the badge from a snapshot.
func (scheduler *Scheduler) UpdateBadge(snapshot session.Snapshot) {
	text, color := BadgeText(scheduler.settings().BadgeMode, snapshot)
	scheduler.setBadge(text, color)
}

// BadgeText renders the badge for a snapshot: empty when not working, "OT"
// in overtime, otherwise the remaining time rounded up to whole minutes.
func BadgeText(mode string, snapshot session.Snapshot) (string, string) {
	if mode == model.BadgeOff || snapshot.Phase == session.PhaseIdle || snapshot.EndTime == nil {
		return "", ""
	}
	if snapshot.Remaining <= 0 {
		return "OT", notify.ColorOvertime
	}
	minutes := int(math.Ceil(snapshot.Remaining.Minutes()))
	if mode == model.BadgeClock {
		return fmt.Sprintf("%d:%02d", minutes/60, minutes%60), notify.ColorNormal
	}
	return fmt.Sprintf("%d", minutes), notify.ColorNormal
}

func (scheduler *Scheduler) setBadge(text, color string) {
	if scheduler.deps.Badge == nil {
		return
	}
	if err := scheduler.deps.Badge.SetText(text); err != nil {
		scheduler.logger.Warn().Err(err).Msg("Failed to set badge text")
	}
	// An empty color marks the idle badge.
	if err := scheduler.deps.Badge.SetColor(color); err != nil {
		scheduler.logger.Warn().Err(err).Msg("Failed to set badge color")
	}
}

func (scheduler *Scheduler) schedule(ctx context.Context, name string, when time.Time) bool {
	if err := scheduler.deps.Alarms.Schedule(ctx, name, when); err != nil {
		scheduler.logger.Error().Err(err).Str("alarm", name).Msg("Failed to set alarm")
		return false
	}
	return true
}

func (scheduler *Scheduler) show(ctx context.Context, alert notify.Alert) {
	if err := scheduler.deps.Alerts.Show(ctx, alert); err != nil {
		scheduler.logger.Error().Err(err).Str("alert", alert.ID).Msg("Failed to show alert")
	}
}

func (scheduler *Scheduler) settings() model.Settings {
	settings, err := scheduler.deps.Settings.Settings()
	if err != nil {
		scheduler.logger.Warn().Err(err).Msg("Failed to load settings, using defaults")
		return model.DefaultSettings()
	}
	return settings
}

func (scheduler *Scheduler) text(settings model.Settings, id string, data map[string]any) string {
	return scheduler.deps.Translator.Message(settings.Language, id, data)
}
