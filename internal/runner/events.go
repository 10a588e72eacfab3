package runner

import (
	"time"

	"gauntlet/internal/matrix"
)

// EventKind identifies a batch lifecycle event.
type EventKind int

const (
	// EventBatchStarted is emitted once before any item is dispatched.
	EventBatchStarted EventKind = iota
	// EventItemStarted is emitted synchronously before an item's remote call begins.
	EventItemStarted
	// EventItemErrored is emitted when an item's execution failed; the matching
	// EventItemCompleted still follows, so completion accounting never skips
	// errored items.
	EventItemErrored
	// EventItemCompleted is emitted after an item's terminal result has been
	// durably persisted.
	EventItemCompleted
	// EventBatchCompleted is emitted once after every dispatched item reached a
	// terminal state.
	EventBatchCompleted
	// EventTick is a periodic elapsed-time pulse; observers may coalesce it.
	EventTick
)

// Event is a tagged batch lifecycle event. Kind selects which payload fields
// are meaningful.
type Event struct {
	Kind      EventKind
	Total     int             // EventBatchStarted
	Item      matrix.WorkItem // item events
	StartedAt time.Time       // EventItemStarted
	Result    RunResult       // EventItemCompleted
	Err       string          // EventItemErrored
	EmittedAt time.Time
}

// BatchObserver receives batch lifecycle events. Events for concurrently
// active items arrive in arbitrary interleaving; the only guaranteed ordering
// is started-before-completed per item and batch-started before any item event
// before batch-completed.
type BatchObserver interface {
	OnBatchEvent(event Event)
}

// multiObserver fans one event stream out to several observers.
type multiObserver struct {
	observers []BatchObserver
}

// MultiObserver combines observers into one; nil entries are dropped.
func MultiObserver(observers ...BatchObserver) BatchObserver {
	kept := make([]BatchObserver, 0, len(observers))
	for _, observer := range observers {
		if observer != nil {
			kept = append(kept, observer)
		}
	}
	if len(kept) == 1 {
		return kept[0]
	}
	return &multiObserver{observers: kept}
}

// OnBatchEvent forwards the event to every observer in order.
func (m *multiObserver) OnBatchEvent(event Event) {
	for _, observer := range m.observers {
		observer.OnBatchEvent(event)
	}
}
