package progress

import (
	"sync"
	"time"
)

// flushState tracks where a coalescing flusher is in its cycle.
type flushState int

const (
	flushIdle flushState = iota
	flushDirty
	flushScheduled
)

// DefaultMaxLatency bounds how long a coalesced update may be delayed.
const DefaultMaxLatency = 50 * time.Millisecond

// flusher coalesces non-critical updates behind a single timer while letting
// critical updates flush synchronously. State moves Idle -> Dirty ->
// FlushScheduled -> Idle; a critical flush short-circuits back to Idle.
type flusher struct {
	mu         sync.Mutex
	state      flushState
	timer      *time.Timer
	maxLatency time.Duration
	flush      func()
}

// newFlusher builds a flusher invoking flush at most once per maxLatency
// window for coalesced marks.
func newFlusher(maxLatency time.Duration, flush func()) *flusher {
	if maxLatency <= 0 {
		maxLatency = DefaultMaxLatency
	}
	return &flusher{maxLatency: maxLatency, flush: flush}
}

// MarkCritical flushes immediately, cancelling any scheduled flush.
func (f *flusher) MarkCritical() {
	f.mu.Lock()
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	f.state = flushIdle
	f.mu.Unlock()
	f.flush()
}

// Mark records a non-critical update; updates within one latency window
// collapse into a single flush.
func (f *flusher) Mark() {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch f.state {
	case flushIdle:
		f.state = flushDirty
		f.schedule()
	case flushDirty, flushScheduled:
		// Already pending; coalesce.
	}
}

// schedule arms the flush timer. Caller holds f.mu.
func (f *flusher) schedule() {
	f.state = flushScheduled
	f.timer = time.AfterFunc(f.maxLatency, func() {
		f.mu.Lock()
		if f.state != flushScheduled {
			f.mu.Unlock()
			return
		}
		f.state = flushIdle
		f.timer = nil
		f.mu.Unlock()
		f.flush()
	})
}
