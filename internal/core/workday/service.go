// Package workday is the single entry point for everything that changes the
// day's session: popup and tray actions, HTTP requests, notification buttons
// and fired alarms. Calls are serialized by one mutex so a fired alarm never
// observes a half-applied transition.
package workday

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"worktime/internal/core/model"
	"worktime/internal/core/scheduler"
	"worktime/internal/core/session"
	"worktime/internal/notify"

	"github.com/rs/zerolog/log"
)

// Session actions accepted by Dispatch in addition to the scheduler's
// boundary actions.
const (
	ActionStartWork  = "startWork"
	ActionStartLunch = "startLunch"
	ActionEndLunch   = "endLunch"
	ActionEndWork    = "endWork"
	ActionReset      = "reset"
)

// ErrAlertAction is returned for a button index the alert does not have.
var ErrAlertAction = errors.New("unknown alert action")

// SettingsStore reads and writes the user settings.
type SettingsStore interface {
	Settings() (model.Settings, error)
	Save(settings model.Settings) error
	Clear() error
}

// StateStore persists the session state.
type StateStore interface {
	LoadState(ctx context.Context) (session.State, error)
	SaveState(ctx context.Context, state session.State) error
	ClearState(ctx context.Context) error
}

// Scheduler reacts to session transitions.
type Scheduler interface {
	OnWorkStarted(ctx context.Context, start time.Time)
	OnWorkEnded(ctx context.Context)
	OnLunchStarted(ctx context.Context)
	OnLunchEnded(ctx context.Context)
	OnAlarmFired(ctx context.Context, name string)
	Resume(ctx context.Context)
	RefreshBadge(ctx context.Context)
	HandleMessage(ctx context.Context, msg scheduler.Message) error
	NotifyWorkEnded(ctx context.Context)
	NotifyOvertime(ctx context.Context)
	ClearAlert(ctx context.Context, id string)
}

// Service applies session transitions and keeps alarms in step.
type Service struct {
	mu        sync.Mutex
	settings  SettingsStore
	state     StateStore
	scheduler Scheduler
	now       func() time.Time
}

// NewService creates a Service. now defaults to time.Now.
func NewService(settings SettingsStore, state StateStore, sched Scheduler, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		settings:  settings,
		state:     state,
		scheduler: sched,
		now:       now,
	}
}

// StartWork begins the day's session at start. A zero start means now.
// Starts are kept to the minute, as they are entered.
func (service *Service) StartWork(ctx context.Context, start time.Time) (session.Snapshot, error) {
	service.mu.Lock()
	defer service.mu.Unlock()

	if start.IsZero() {
		start = service.now()
	}
	start = start.Truncate(time.Minute)
	settings, err := service.settings.Settings()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load settings, using defaults")
		settings = model.DefaultSettings()
	}
	return service.transition(ctx, func(state *session.State) bool {
		return state.StartWork(start, settings)
	}, func(ctx context.Context) {
		service.scheduler.OnWorkStarted(ctx, start)
	})
}

// StartLunch opens the lunch interval.
func (service *Service) StartLunch(ctx context.Context) (session.Snapshot, error) {
	service.mu.Lock()
	defer service.mu.Unlock()

	now := service.now()
	return service.transition(ctx, func(state *session.State) bool {
		return state.StartLunch(now)
	}, service.scheduler.OnLunchStarted)
}

// EndLunch closes the lunch interval.
func (service *Service) EndLunch(ctx context.Context) (session.Snapshot, error) {
	service.mu.Lock()
	defer service.mu.Unlock()
	return service.endLunchLocked(ctx)
}

func (service *Service) endLunchLocked(ctx context.Context) (session.Snapshot, error) {
	now := service.now()
	return service.transition(ctx, func(state *session.State) bool {
		return state.EndLunch(now)
	}, service.scheduler.OnLunchEnded)
}

// EndWork stops the session.
func (service *Service) EndWork(ctx context.Context) (session.Snapshot, error) {
	service.mu.Lock()
	defer service.mu.Unlock()
	return service.endWorkLocked(ctx)
}

func (service *Service) endWorkLocked(ctx context.Context) (session.Snapshot, error) {
	now := service.now()
	return service.transition(ctx, func(state *session.State) bool {
		return state.EndWork(now)
	}, service.scheduler.OnWorkEnded)
}

// Reset discards the session but keeps the hour configuration.
func (service *Service) Reset(ctx context.Context) (session.Snapshot, error) {
	service.mu.Lock()
	defer service.mu.Unlock()

	return service.transition(ctx, func(state *session.State) bool {
		state.Reset()
		return true
	}, service.scheduler.OnWorkEnded)
}

// ResetAll removes the settings file and the session and starts over with
// defaults.
func (service *Service) ResetAll(ctx context.Context) error {
	service.mu.Lock()
	defer service.mu.Unlock()

	if err := service.settings.Clear(); err != nil {
		return fmt.Errorf("clear settings: %w", err)
	}
	if err := service.state.ClearState(ctx); err != nil {
		return fmt.Errorf("clear state: %w", err)
	}
	service.scheduler.OnWorkEnded(ctx)
	log.Info().Msg("All data reset to defaults")
	return nil
}

// Snapshot returns the current session view.
func (service *Service) Snapshot(ctx context.Context) (session.Snapshot, error) {
	state, err := service.state.LoadState(ctx)
	if err != nil {
		return session.Snapshot{}, fmt.Errorf("load state: %w", err)
	}
	return state.Snapshot(service.now()), nil
}

// Settings returns the current user settings.
func (service *Service) Settings() (model.Settings, error) {
	return service.settings.Settings()
}

// UpdateSettings saves settings and applies them to the running session.
// Hours already copied into a running session are kept.
func (service *Service) UpdateSettings(ctx context.Context, settings model.Settings) (model.Settings, error) {
	service.mu.Lock()
	defer service.mu.Unlock()

	settings = settings.Normalize()
	if err := service.settings.Save(settings); err != nil {
		return settings, fmt.Errorf("save settings: %w", err)
	}
	service.settingsChangedLocked(ctx)
	return settings, nil
}

// SettingsChanged reacts to settings edited outside the process.
func (service *Service) SettingsChanged(ctx context.Context) {
	service.mu.Lock()
	defer service.mu.Unlock()
	service.settingsChangedLocked(ctx)
}

func (service *Service) settingsChangedLocked(ctx context.Context) {
	// Resume arms alarms a new setting calls for, such as micro-breaks.
	service.scheduler.Resume(ctx)
}

// Resume restores alarms and the badge after a restart.
func (service *Service) Resume(ctx context.Context) {
	service.mu.Lock()
	defer service.mu.Unlock()
	service.scheduler.Resume(ctx)
}

// AlarmFired is the alarm primitive's fire callback.
func (service *Service) AlarmFired(ctx context.Context, name string) {
	service.mu.Lock()
	defer service.mu.Unlock()
	service.scheduler.OnAlarmFired(ctx, name)
	service.scheduler.RefreshBadge(ctx)
}

// Dispatch runs a named action from the message boundary.
func (service *Service) Dispatch(ctx context.Context, msg scheduler.Message) (session.Snapshot, error) {
	switch msg.Action {
	case ActionStartWork:
		var start time.Time
		if msg.StartTime != nil {
			start = *msg.StartTime
		}
		return service.StartWork(ctx, start)
	case ActionStartLunch:
		return service.StartLunch(ctx)
	case ActionEndLunch:
		return service.EndLunch(ctx)
	case ActionEndWork:
		return service.EndWork(ctx)
	case ActionReset:
		return service.Reset(ctx)
	}

	service.mu.Lock()
	err := service.scheduler.HandleMessage(ctx, msg)
	service.mu.Unlock()
	if err != nil {
		return session.Snapshot{}, err
	}
	return service.Snapshot(ctx)
}

// HandleAlertClick clears an alert whose body was clicked.
func (service *Service) HandleAlertClick(ctx context.Context, id string) {
	service.mu.Lock()
	defer service.mu.Unlock()
	service.scheduler.ClearAlert(ctx, id)
}

// HandleAlertAction runs the action behind button index of alert id and
// clears the alert.
func (service *Service) HandleAlertAction(ctx context.Context, id string, index int) error {
	service.mu.Lock()
	defer service.mu.Unlock()
	defer service.scheduler.ClearAlert(ctx, id)

	switch {
	case id == notify.AlertPreLeave && index == 0,
		id == notify.AlertEndTime && index == 0:
		return service.endWorkFromAlertLocked(ctx)
	case id == notify.AlertEndTime && index == 1:
		service.scheduler.NotifyOvertime(ctx)
		return nil
	case id == notify.AlertLunchEnd && index == 0:
		_, err := service.endLunchLocked(ctx)
		return err
	case (id == notify.AlertPreLeave || id == notify.AlertLunchEnd) && index == 1:
		// Dismiss.
		return nil
	}
	return fmt.Errorf("%w: %s[%d]", ErrAlertAction, id, index)
}

func (service *Service) endWorkFromAlertLocked(ctx context.Context) error {
	if _, err := service.endWorkLocked(ctx); err != nil {
		return err
	}
	service.scheduler.NotifyWorkEnded(ctx)
	return nil
}

// transition loads the state, applies change and, when it changed anything,
// saves it and runs the scheduler hook. A no-op touches nothing.
func (service *Service) transition(ctx context.Context, change func(*session.State) bool, hook func(context.Context)) (session.Snapshot, error) {
	state, err := service.state.LoadState(ctx)
	if err != nil {
		return session.Snapshot{}, fmt.Errorf("load state: %w", err)
	}
	if !change(&state) {
		return state.Snapshot(service.now()), nil
	}
	if err := service.state.SaveState(ctx, state); err != nil {
		return session.Snapshot{}, fmt.Errorf("save state: %w", err)
	}

	hook(ctx)
	service.scheduler.RefreshBadge(ctx)

	log.Info().
		Str("session", state.ID).
		Str("phase", string(state.Phase())).
		Msg("Session updated")
	return state.Snapshot(service.now()), nil
}
