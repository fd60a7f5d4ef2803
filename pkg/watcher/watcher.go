package watcher

import (
	"context"
	"sync"
	"time"

	"fundwatch/pkg/models"
)

// FundSource defines the interface for fetching fund state.
type FundSource interface {
	FetchSnapshot(ctx context.Context) models.FundSnapshot
}

// Watcher re-fetches the full fund state on a fixed interval and
// broadcasts each completed snapshot to subscribers. Ticks run in
// their own goroutines: a hung fetch stalls only itself, later ticks
// fire on schedule, and completions apply in completion order. After
// Stop, late results are discarded so nothing updates a torn-down
// view.
type Watcher struct {
	source   FundSource
	interval time.Duration

	mu          sync.RWMutex
	snapshot    models.FundSnapshot
	subscribers []Subscriber
	stopped     bool
	stopChan    chan struct{}
}

// NewWatcher creates a new Watcher polling source every interval.
func NewWatcher(source FundSource, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = time.Second
	}
	return &Watcher{
		source:   source,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// SetSource overrides the fund source (useful for testing).
func (w *Watcher) SetSource(source FundSource) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.source = source
}

// Subscribe adds a new subscriber and returns a channel to receive events.
func (w *Watcher) Subscribe() Subscriber {
	w.mu.Lock()
	defer w.mu.Unlock()
	ch := make(Subscriber, 100)
	w.subscribers = append(w.subscribers, ch)
	return ch
}

// Unsubscribe removes a subscriber.
func (w *Watcher) Unsubscribe(ch Subscriber) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, sub := range w.subscribers {
		if sub == ch {
			w.subscribers = append(w.subscribers[:i], w.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

func (w *Watcher) notify(event Event) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, sub := range w.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber is slow, drop the event; the next tick
			// carries a full snapshot anyway.
		}
	}
}

// Start begins the polling loop: one tick immediately, then one per
// interval for the lifetime of the watcher.
func (w *Watcher) Start(ctx context.Context) {
	go w.pollingLoop(ctx)
}

// Stop cancels the polling loop. In-flight fetches are not aborted;
// their results are dropped when they land.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.stopped {
		w.stopped = true
		close(w.stopChan)
	}
}

func (w *Watcher) pollingLoop(ctx context.Context) {
	w.tick(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.tick(ctx)
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

// tick launches one full re-fetch without waiting for it, so the
// schedule never depends on how long a fetch takes.
func (w *Watcher) tick(ctx context.Context) {
	w.mu.RLock()
	source := w.source
	w.mu.RUnlock()

	w.notify(Event{Type: EventSyncStarted})
	go func() {
		snap := source.FetchSnapshot(ctx)
		w.apply(snap)
	}()
}

func (w *Watcher) apply(snap models.FundSnapshot) {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.snapshot = snap
	w.mu.Unlock()
	w.notify(Event{Type: EventSnapshotUpdated, Data: snap})
}

// Snapshot returns the most recently applied fund snapshot.
func (w *Watcher) Snapshot() models.FundSnapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.snapshot
}
