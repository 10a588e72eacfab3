package runner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gauntlet/internal/matrix"
)

// Scheduler timing defaults.
const (
	DefaultItemTimeout  = 5 * time.Minute
	DefaultTickInterval = time.Second
)

// ExecuteFunc runs one work item to a terminal outcome. The context carries
// the item's absolute deadline; implementations should honor it but a callback
// that never returns is abandoned once the deadline passes.
type ExecuteFunc func(ctx context.Context, item matrix.WorkItem) (RunResult, error)

// ResultWriter durably persists one terminal result.
type ResultWriter interface {
	Persist(result RunResult) (string, error)
}

// Scheduler fans a batch of work items out to a bounded worker pool. Item
// failures are isolated: an error, timeout, or persistence failure on one item
// never affects the scheduling or accounting of any other.
type Scheduler struct {
	store        ResultWriter
	observer     BatchObserver
	itemTimeout  time.Duration
	tickInterval time.Duration
	now          func() time.Time
}

// SchedulerConfig carries optional Scheduler settings.
type SchedulerConfig struct {
	ItemTimeout  time.Duration
	TickInterval time.Duration
	Now          func() time.Time
}

// NewScheduler builds a Scheduler that persists through store and reports to
// observer. Both may be nil (no persistence / no observation) in tests.
func NewScheduler(store ResultWriter, observer BatchObserver, cfg SchedulerConfig) *Scheduler {
	if cfg.ItemTimeout <= 0 {
		cfg.ItemTimeout = DefaultItemTimeout
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultTickInterval
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Scheduler{
		store:        store,
		observer:     observer,
		itemTimeout:  cfg.ItemTimeout,
		tickInterval: cfg.TickInterval,
		now:          cfg.Now,
	}
}

// Run executes every item under a global concurrency cap of workers and blocks
// until all of them reached a terminal state. It returns one terminal result
// per dispatched item, in completion order.
func (s *Scheduler) Run(ctx context.Context, items []matrix.WorkItem, execute ExecuteFunc, workers int) []RunResult {
	if workers < 1 {
		workers = 1
	}
	s.emit(Event{Kind: EventBatchStarted, Total: len(items)})
	stopTicks := s.startTicker()

	workCh := make(chan matrix.WorkItem)
	resultCh := make(chan RunResult, len(items))
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range workCh {
				resultCh <- s.runItem(ctx, item, execute)
			}
		}()
	}
	for _, item := range items {
		workCh <- item
	}
	close(workCh)
	wg.Wait()
	close(resultCh)

	results := make([]RunResult, 0, len(items))
	for result := range resultCh {
		results = append(results, result)
	}
	stopTicks()
	s.emit(Event{Kind: EventBatchCompleted})
	return results
}

// runItem drives one item from dispatch to its terminal, persisted result.
func (s *Scheduler) runItem(ctx context.Context, item matrix.WorkItem, execute ExecuteFunc) RunResult {
	startedAt := s.now()
	s.emit(Event{Kind: EventItemStarted, Item: item, StartedAt: startedAt})

	result, execErr := s.executeWithDeadline(ctx, item, execute)
	if execErr != nil {
		result = s.failureResult(item, startedAt, execErr.Error())
	}
	result.TestName = item.Test
	result.ModelName = item.Model
	result.RunIndex = item.RunIndex
	if result.Timestamp.IsZero() {
		result.Timestamp = startedAt
	}

	var persistErr error
	if s.store != nil {
		if _, err := s.store.Persist(result); err != nil {
			persistErr = fmt.Errorf("persist result: %w", err)
			result.Success = false
			result.Reason = persistErr.Error()
		}
	}

	switch {
	case execErr != nil:
		s.emit(Event{Kind: EventItemErrored, Item: item, Err: execErr.Error()})
	case persistErr != nil:
		s.emit(Event{Kind: EventItemErrored, Item: item, Err: persistErr.Error()})
	}
	s.emit(Event{Kind: EventItemCompleted, Item: item, Result: result})
	return result
}

// executeWithDeadline runs the callback under the item's absolute deadline.
// A callback that has not returned by the deadline is abandoned; the buffered
// outcome channel lets its goroutine finish without blocking.
func (s *Scheduler) executeWithDeadline(ctx context.Context, item matrix.WorkItem, execute ExecuteFunc) (RunResult, error) {
	itemCtx, cancel := context.WithTimeout(ctx, s.itemTimeout)
	defer cancel()

	type outcome struct {
		result RunResult
		err    error
	}
	outCh := make(chan outcome, 1)
	go func() {
		result, err := execute(itemCtx, item)
		outCh <- outcome{result: result, err: err}
	}()

	select {
	case out := <-outCh:
		return out.result, out.err
	case <-itemCtx.Done():
		return RunResult{}, fmt.Errorf("timed out after %s: %w", s.itemTimeout, itemCtx.Err())
	}
}

// failureResult synthesizes a terminal failed result for an errored item.
func (s *Scheduler) failureResult(item matrix.WorkItem, startedAt time.Time, reason string) RunResult {
	return RunResult{
		TestName:   item.Test,
		ModelName:  item.Model,
		RunIndex:   item.RunIndex,
		Timestamp:  startedAt,
		Success:    false,
		Reason:     reason,
		DurationMs: s.now().Sub(startedAt).Milliseconds(),
	}
}

// startTicker emits periodic elapsed-time pulses until the returned stop
// function is called.
func (s *Scheduler) startTicker() func() {
	if s.observer == nil {
		return func() {}
	}
	stopCh := make(chan struct{})
	doneCh := make(chan struct{})
	go func() {
		defer close(doneCh)
		ticker := time.NewTicker(s.tickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stopCh:
				return
			case <-ticker.C:
				s.emit(Event{Kind: EventTick})
			}
		}
	}()
	return func() {
		close(stopCh)
		<-doneCh
	}
}

// emit delivers an event to the observer, stamping the emission time.
func (s *Scheduler) emit(event Event) {
	if s.observer == nil {
		return
	}
	event.EmittedAt = s.now()
	s.observer.OnBatchEvent(event)
}
