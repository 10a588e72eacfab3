// Package progress reconstructs a consistent view of batch state from the
// scheduler's unordered, interleaved event stream.
package progress

import (
	"fmt"
	"sync"
	"time"

	"gauntlet/internal/runner"
)

// Aggregator consumes batch lifecycle events and exposes a throttled snapshot.
// It implements runner.BatchObserver. Events for different items arrive from
// concurrent worker goroutines, so every state transition happens under one
// mutex and the published snapshot is an immutable copy swapped as a whole.
type Aggregator struct {
	mu        sync.Mutex
	total     int
	startedAt time.Time
	active    map[runKey]ActiveRun
	results   []runner.RunResult
	seen      map[runKey]struct{}
	errors    []string
	done      bool
	seq       uint64

	publishMu sync.Mutex
	published Snapshot

	listenerMu sync.Mutex
	listeners  []func()

	flusher *flusher
	now     func() time.Time
}

// Config carries optional Aggregator settings.
type Config struct {
	MaxLatency time.Duration
	Now        func() time.Time
}

// NewAggregator builds an empty aggregator.
func NewAggregator(cfg Config) *Aggregator {
	a := &Aggregator{
		active: map[runKey]ActiveRun{},
		seen:   map[runKey]struct{}{},
		now:    cfg.Now,
	}
	if a.now == nil {
		a.now = time.Now
	}
	a.flusher = newFlusher(cfg.MaxLatency, a.publish)
	return a
}

// Snapshot returns the most recently published snapshot.
func (a *Aggregator) Snapshot() Snapshot {
	a.publishMu.Lock()
	defer a.publishMu.Unlock()
	return a.published
}

// OnChange registers a callback invoked after each snapshot publication.
func (a *Aggregator) OnChange(fn func()) {
	if fn == nil {
		return
	}
	a.listenerMu.Lock()
	a.listeners = append(a.listeners, fn)
	a.listenerMu.Unlock()
}

// OnBatchEvent applies one lifecycle event. Critical events (item start,
// terminal events, batch lifecycle) publish the snapshot immediately;
// non-critical ticks are coalesced behind the flush timer.
func (a *Aggregator) OnBatchEvent(event runner.Event) {
	critical := a.apply(event)
	if critical {
		a.flusher.MarkCritical()
		return
	}
	a.flusher.Mark()
}

// apply performs the state transition for one event and reports whether it is
// correctness-critical for observers.
func (a *Aggregator) apply(event runner.Event) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch event.Kind {
	case runner.EventBatchStarted:
		a.total = event.Total
		a.startedAt = event.EmittedAt
		return true
	case runner.EventItemStarted:
		key := runKey{test: event.Item.Test, model: event.Item.Model, runIndex: event.Item.RunIndex}
		a.active[key] = ActiveRun{
			Test:      event.Item.Test,
			Model:     event.Item.Model,
			RunIndex:  event.Item.RunIndex,
			StartedAt: event.StartedAt,
		}
		return true
	case runner.EventItemErrored:
		a.errors = append(a.errors, fmt.Sprintf("%s: %s", event.Item.Key(), event.Err))
		return true
	case runner.EventItemCompleted:
		key := runKey{test: event.Result.TestName, model: event.Result.ModelName, runIndex: event.Result.RunIndex}
		delete(a.active, key)
		if _, dup := a.seen[key]; !dup {
			a.seen[key] = struct{}{}
			a.results = append(a.results, event.Result)
		}
		return true
	case runner.EventBatchCompleted:
		a.done = true
		return true
	case runner.EventTick:
		return false
	default:
		return false
	}
}

// publish builds an immutable snapshot copy and installs it as the latest.
func (a *Aggregator) publish() {
	a.install(a.buildSnapshot())
}

// install swaps the snapshot in, then notifies listeners outside all locks.
// Snapshots are built under the state mutex but installed under a separate
// one, so two concurrent flushes can arrive here out of order; the sequence
// check keeps the older snapshot from replacing the newer.
func (a *Aggregator) install(snapshot Snapshot) {
	a.publishMu.Lock()
	if snapshot.seq <= a.published.seq {
		a.publishMu.Unlock()
		return
	}
	a.published = snapshot
	a.publishMu.Unlock()

	a.listenerMu.Lock()
	listeners := make([]func(), len(a.listeners))
	copy(listeners, a.listeners)
	a.listenerMu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}

// buildSnapshot copies the authoritative collections into a fresh snapshot
// stamped with the next sequence number.
func (a *Aggregator) buildSnapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.seq++
	snapshot := Snapshot{
		Total:     a.total,
		StartedAt: a.startedAt,
		Done:      a.done,
		Active:    make([]ActiveRun, 0, len(a.active)),
		Results:   make([]runner.RunResult, len(a.results)),
		Errors:    make([]string, len(a.errors)),
		seq:       a.seq,
	}
	for _, run := range a.active {
		snapshot.Active = append(snapshot.Active, run)
	}
	sortActive(snapshot.Active)
	copy(snapshot.Results, a.results)
	copy(snapshot.Errors, a.errors)
	if !a.startedAt.IsZero() {
		snapshot.Elapsed = a.now().Sub(a.startedAt)
	}
	snapshot.recount()
	return snapshot
}
