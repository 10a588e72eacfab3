package cucumber

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cucumber/godog"

	"gauntlet/internal/bench"
	"gauntlet/internal/invoke"
	"gauntlet/internal/runner"
	"gauntlet/internal/spec"
	"gauntlet/internal/summary"
)

// batchState holds scenario state for one benchmark batch execution.
type batchState struct {
	def         spec.Definition
	workDir     string
	failingTest string

	mu     sync.Mutex
	events []runner.Event

	inFlight    atomic.Int64
	maxInFlight atomic.Int64

	outcome bench.RunOutcome
	sum     summary.BenchmarkSummary
	runErr  error
}

// InitializeScenario wires the benchmark steps to fresh scenario state.
func InitializeScenario(ctx *godog.ScenarioContext) {
	state := &batchState{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		dir, err := os.MkdirTemp("", "gauntlet-cucumber-*")
		if err != nil {
			return ctx, err
		}
		*state = batchState{workDir: dir}
		return ctx, nil
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if state.workDir != "" {
			_ = os.RemoveAll(state.workDir)
		}
		return ctx, nil
	})

	ctx.Step(`^a benchmark with (\d+) models, (\d+) tests and (\d+) runs per test$`, state.aBenchmark)
	ctx.Step(`^a concurrency limit of (\d+)$`, state.aConcurrencyLimit)
	ctx.Step(`^the test "([^"]+)" always fails$`, state.theTestAlwaysFails)
	ctx.Step(`^a benchmark definition without any models$`, state.aDefinitionWithoutModels)
	ctx.Step(`^the benchmark batch is executed$`, state.theBatchIsExecuted)
	ctx.Step(`^(\d+) item started events are observed$`, state.itemStartedEventsObserved)
	ctx.Step(`^(\d+) item completed events are observed$`, state.itemCompletedEventsObserved)
	ctx.Step(`^at most (\d+) items ran concurrently$`, state.atMostItemsRanConcurrently)
	ctx.Step(`^every outcome is persisted in the run directory$`, state.everyOutcomePersisted)
	ctx.Step(`^the combined summary reports (\d+) models, (\d+) tests and (\d+) runs$`, state.summaryReports)
	ctx.Step(`^the summary counts (\d+) passed and (\d+) failed runs$`, state.summaryCounts)
	ctx.Step(`^the run fails validation$`, state.theRunFailsValidation)
	ctx.Step(`^no item started events are observed$`, state.noItemStartedEvents)
}

// OnBatchEvent records every lifecycle event.
func (s *batchState) OnBatchEvent(event runner.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *batchState) countKind(kind runner.EventKind) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, event := range s.events {
		if event.Kind == kind {
			count++
		}
	}
	return count
}

// Invoke tracks in-flight calls and returns a fixed structured response.
func (s *batchState) Invoke(_ context.Context, req invoke.Request) (invoke.Response, error) {
	current := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		observed := s.maxInFlight.Load()
		if current <= observed || s.maxInFlight.CompareAndSwap(observed, current) {
			break
		}
	}
	time.Sleep(2 * time.Millisecond)
	if s.failingTest != "" && strings.Contains(req.Prompt, "["+s.failingTest+"]") {
		return invoke.Response{}, errors.New("simulated provider failure")
	}
	return invoke.Response{
		Output: `{"answer": 4}`,
		Usage:  invoke.Usage{Input: 10, Output: 5, Total: 15},
	}, nil
}

func (s *batchState) aBenchmark(models, tests, runsPerTest int) error {
	def := spec.Definition{
		Version:     1,
		Name:        "cucumber",
		RunsPerTest: runsPerTest,
		Output: spec.OutputConfig{
			RunsDir:    filepath.Join(s.workDir, "runs"),
			ResultsDir: filepath.Join(s.workDir, "results"),
		},
	}
	for i := 1; i <= models; i++ {
		def.Models = append(def.Models, fmt.Sprintf("model-%d", i))
	}
	for i := 1; i <= tests; i++ {
		name := fmt.Sprintf("t%d", i)
		def.Tests = append(def.Tests, spec.TestCase{
			Name:   name,
			Type:   spec.TestTypeStructured,
			Prompt: fmt.Sprintf("[%s] emit a JSON object", name),
			Schema: `{"type":"object"}`,
		})
	}
	spec.Normalize(&def)
	s.def = def
	return nil
}

func (s *batchState) aConcurrencyLimit(workers int) error {
	s.def.Concurrency = workers
	return nil
}

func (s *batchState) theTestAlwaysFails(name string) error {
	s.failingTest = name
	return nil
}

func (s *batchState) aDefinitionWithoutModels() error {
	if err := s.aBenchmark(0, 1, 1); err != nil {
		return err
	}
	s.def.Models = nil
	return nil
}

func (s *batchState) theBatchIsExecuted() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	deps := bench.RunDependencies{
		InvokerFactory: func() (invoke.Invoker, error) { return s, nil },
	}
	s.outcome, s.runErr = bench.Run(ctx, s.def, bench.RunParams{Observer: s, Deps: deps})
	if s.runErr != nil {
		return nil
	}

	combiner := summary.NewCombiner(nil, nil)
	sum, err := combiner.Combine(s.outcome.RunDir)
	if err != nil {
		return fmt.Errorf("combine: %w", err)
	}
	s.sum = sum
	return nil
}

func (s *batchState) itemStartedEventsObserved(want int) error {
	if got := s.countKind(runner.EventItemStarted); got != want {
		return fmt.Errorf("started events = %d, want %d", got, want)
	}
	return nil
}

func (s *batchState) itemCompletedEventsObserved(want int) error {
	if got := s.countKind(runner.EventItemCompleted); got != want {
		return fmt.Errorf("completed events = %d, want %d", got, want)
	}
	return nil
}

func (s *batchState) atMostItemsRanConcurrently(limit int) error {
	if got := s.maxInFlight.Load(); got > int64(limit) {
		return fmt.Errorf("max in-flight = %d, want at most %d", got, limit)
	}
	return nil
}

func (s *batchState) everyOutcomePersisted() error {
	want := len(s.def.Models) * len(s.def.Tests) * s.def.RunsPerTest
	count := 0
	err := filepath.WalkDir(s.outcome.RunDir, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() && strings.HasSuffix(path, ".json") {
			count++
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk run dir: %w", err)
	}
	if count != want {
		return fmt.Errorf("persisted files = %d, want %d", count, want)
	}
	return nil
}

func (s *batchState) summaryReports(models, tests, runs int) error {
	overall := s.sum.Overall
	if overall.TotalModels != models || overall.TotalTests != tests || overall.Stats.TotalRuns != runs {
		return fmt.Errorf("overall = %+v, want %d models, %d tests, %d runs", overall, models, tests, runs)
	}
	return nil
}

func (s *batchState) summaryCounts(passed, failed int) error {
	stats := s.sum.Overall.Stats
	if stats.Succeeded != passed || stats.Failed != failed {
		return fmt.Errorf("stats = %+v, want %d passed, %d failed", stats, passed, failed)
	}
	return nil
}

func (s *batchState) theRunFailsValidation() error {
	if s.runErr == nil {
		return errors.New("expected a validation error")
	}
	if !strings.Contains(s.runErr.Error(), "invalid benchmark definition") {
		return fmt.Errorf("error = %v", s.runErr)
	}
	return nil
}

func (s *batchState) noItemStartedEvents() error {
	return s.itemStartedEventsObserved(0)
}
