package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Loader reads the persisted session state.
type Loader interface {
	LoadState(ctx context.Context) (State, error)
}

// Config contains runtime options for Tracker.
type Config struct {
	TickInterval time.Duration
	Now          func() time.Time
	// OnTick runs after every successful poll, before observers are notified.
	OnTick func(ctx context.Context, snapshot Snapshot)
}

// Tracker polls the persisted state and publishes snapshots. Wall-clock
// progression has no natural event, so remaining time is recomputed on a
// fixed tick.
type Tracker struct {
	mu      sync.Mutex
	loader  Loader
	options Config
	events  []chan Snapshot
	last    Snapshot
	hasLast bool
}

// NewTracker creates a Tracker reading from loader.
func NewTracker(loader Loader, options Config) *Tracker {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	if options.Now == nil {
		options.Now = time.Now
	}
	return &Tracker{
		loader:  loader,
		options: options,
	}
}

// Subscribe registers a new observer channel.
func (tracker *Tracker) Subscribe(buffer int) <-chan Snapshot {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Snapshot, buffer)
	tracker.mu.Lock()
	tracker.events = append(tracker.events, ch)
	tracker.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes an observer channel.
func (tracker *Tracker) Unsubscribe(events <-chan Snapshot) {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	for index, ch := range tracker.events {
		if ch == events {
			tracker.events = append(tracker.events[:index], tracker.events[index+1:]...)
			close(ch)
			return
		}
	}
}

// Last returns the most recent snapshot.
func (tracker *Tracker) Last() (Snapshot, bool) {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	return tracker.last, tracker.hasLast
}

// Run polls until ctx is cancelled, then closes all observers.
func (tracker *Tracker) Run(ctx context.Context) error {
	ticker := time.NewTicker(tracker.options.TickInterval)
	defer ticker.Stop()
	defer tracker.closeAll()

	tracker.Poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			tracker.Poll(ctx)
		}
	}
}

// Poll reads the state once and publishes a snapshot.
func (tracker *Tracker) Poll(ctx context.Context) {
	state, err := tracker.loader.LoadState(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("tracker: load state")
		return
	}
	snapshot := state.Snapshot(tracker.options.Now())

	if tracker.options.OnTick != nil {
		tracker.options.OnTick(ctx, snapshot)
	}

	tracker.mu.Lock()
	tracker.last = snapshot
	tracker.hasLast = true
	tracker.emitLocked(snapshot)
	tracker.mu.Unlock()
}

func (tracker *Tracker) emitLocked(snapshot Snapshot) {
	for _, ch := range tracker.events {
		select {
		case ch <- snapshot:
		default:
		}
	}
}

func (tracker *Tracker) closeAll() {
	tracker.mu.Lock()
	events := tracker.events
	tracker.events = nil
	tracker.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}
