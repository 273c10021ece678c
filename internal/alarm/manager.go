// Package alarm provides absolute-time one-shot alarms that survive process
// restarts and machine suspend.
//
// Pending alarms are kept in a Store and checked against the wall clock on a
// short poll interval instead of relying on monotonic timers, which stop
// while the machine sleeps. An alarm whose time passed while the process was
// not running fires once on the next poll.
package alarm

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Store persists pending alarms.
type Store interface {
	PutAlarm(ctx context.Context, name string, when time.Time) error
	DeleteAlarm(ctx context.Context, name string) error
	DeleteAllAlarms(ctx context.Context) error
	ListAlarms(ctx context.Context) (map[string]time.Time, error)
}

// FireFunc is invoked once per due alarm.
type FireFunc func(ctx context.Context, name string)

// Config contains runtime options for Manager.
type Config struct {
	PollInterval time.Duration
	Now          func() time.Time
}

// Pending is a scheduled alarm.
type Pending struct {
	Name string
	When time.Time
}

// Manager keeps at most one pending alarm per name.
type Manager struct {
	mu      sync.Mutex
	store   Store
	options Config
	pending map[string]time.Time
	onFire  FireFunc
	loaded  bool
}

// NewManager creates a Manager backed by store.
func NewManager(store Store, options Config) *Manager {
	if options.PollInterval <= 0 {
		options.PollInterval = time.Second
	}
	if options.Now == nil {
		options.Now = time.Now
	}
	return &Manager{
		store:   store,
		options: options,
		pending: make(map[string]time.Time),
	}
}

// OnFire sets the fire callback. Call it once before Run.
func (manager *Manager) OnFire(fn FireFunc) {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	manager.onFire = fn
}

// Load restores pending alarms from the store.
func (manager *Manager) Load(ctx context.Context) error {
	alarms, err := manager.store.ListAlarms(ctx)
	if err != nil {
		return fmt.Errorf("load alarms: %w", err)
	}
	manager.mu.Lock()
	defer manager.mu.Unlock()
	for name, when := range alarms {
		manager.pending[name] = when
	}
	manager.loaded = true
	return nil
}

// Schedule installs or replaces the alarm name at when.
func (manager *Manager) Schedule(ctx context.Context, name string, when time.Time) error {
	if err := manager.store.PutAlarm(ctx, name, when); err != nil {
		return err
	}
	manager.mu.Lock()
	manager.pending[name] = when
	manager.mu.Unlock()

	log.Debug().Str("alarm", name).Time("when", when).Msg("Alarm set")
	return nil
}

// Cancel removes the alarm name if present.
func (manager *Manager) Cancel(ctx context.Context, name string) error {
	if err := manager.store.DeleteAlarm(ctx, name); err != nil {
		return err
	}
	manager.mu.Lock()
	delete(manager.pending, name)
	manager.mu.Unlock()
	return nil
}

// CancelAll removes every pending alarm.
func (manager *Manager) CancelAll(ctx context.Context) error {
	if err := manager.store.DeleteAllAlarms(ctx); err != nil {
		return err
	}
	manager.mu.Lock()
	manager.pending = make(map[string]time.Time)
	manager.mu.Unlock()

	log.Debug().Msg("All alarms cleared")
	return nil
}

// Get returns the fire time of name.
func (manager *Manager) Get(name string) (time.Time, bool) {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	when, ok := manager.pending[name]
	return when, ok
}

// Pending lists alarms ordered by fire time.
func (manager *Manager) Pending() []Pending {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	alarms := make([]Pending, 0, len(manager.pending))
	for name, when := range manager.pending {
		alarms = append(alarms, Pending{Name: name, When: when})
	}
	sort.Slice(alarms, func(i, j int) bool {
		if alarms[i].When.Equal(alarms[j].When) {
			return alarms[i].Name < alarms[j].Name
		}
		return alarms[i].When.Before(alarms[j].When)
	})
	return alarms
}

// Run fires due alarms until ctx is cancelled.
func (manager *Manager) Run(ctx context.Context) error {
	manager.mu.Lock()
	loaded := manager.loaded
	manager.mu.Unlock()
	if !loaded {
		if err := manager.Load(ctx); err != nil {
			return err
		}
	}

	ticker := time.NewTicker(manager.options.PollInterval)
	defer ticker.Stop()

	manager.FireDue(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			manager.FireDue(ctx)
		}
	}
}

// FireDue fires every alarm whose time has passed, earliest first. Each
// alarm is removed before its callback runs so the callback may re-arm it.
func (manager *Manager) FireDue(ctx context.Context) {
	// Round(0) strips the monotonic reading so comparisons use wall time.
	now := manager.options.Now().Round(0)

	for _, alarm := range manager.Pending() {
		if alarm.When.After(now) {
			break
		}

		manager.mu.Lock()
		current, ok := manager.pending[alarm.Name]
		if !ok || !current.Equal(alarm.When) {
			manager.mu.Unlock()
			continue
		}
		delete(manager.pending, alarm.Name)
		onFire := manager.onFire
		manager.mu.Unlock()

		if err := manager.store.DeleteAlarm(ctx, alarm.Name); err != nil {
			log.Warn().Err(err).Str("alarm", alarm.Name).Msg("Failed to remove fired alarm")
		}

		log.Info().
			Str("alarm", alarm.Name).
			Time("scheduled", alarm.When).
			Dur("late", now.Sub(alarm.When)).
			Msg("Alarm fired")

		if onFire != nil {
			onFire(ctx, alarm.Name)
		}
	}
}
