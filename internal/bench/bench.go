// Package bench is the harness entry point: it turns a validated benchmark
// definition into a fully executed, fully persisted run.
package bench

import (
	"context"
	"fmt"
	"time"

	"gauntlet/internal/invoke"
	"gauntlet/internal/matrix"
	"gauntlet/internal/runner"
	"gauntlet/internal/spec"
	"gauntlet/internal/store"
)

// RunDependencies carries the injectable collaborators of a benchmark run.
// Zero fields fall back to production defaults.
type RunDependencies struct {
	InvokerFactory func() (invoke.Invoker, error)
	JudgeFactory   func(invoker invoke.Invoker, model string) invoke.Judge
	StoreFactory   func(runDir string) runner.ResultWriter
	RunID          func() string
	Now            func() time.Time
}

// RunParams configures one benchmark run.
type RunParams struct {
	Observer runner.BatchObserver
	Deps     RunDependencies
}

// RunOutcome reports where a completed run landed on disk.
type RunOutcome struct {
	RunID   string
	RunDir  string
	Layout  store.Layout
	Results []runner.RunResult
}

// Run executes a validated benchmark definition end to end: it expands the
// work matrix, dispatches it through the scheduler, and persists every outcome
// under a fresh run directory. Validation is the only hard failure; once
// dispatch begins every item runs to a terminal state.
func Run(ctx context.Context, def spec.Definition, params RunParams) (RunOutcome, error) {
	if err := spec.Validate(&def); err != nil {
		return RunOutcome{}, fmt.Errorf("invalid benchmark definition: %w", err)
	}

	deps := params.Deps
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.RunID == nil {
		deps.RunID = NewRunID
	}
	if deps.InvokerFactory == nil {
		deps.InvokerFactory = func() (invoke.Invoker, error) {
			return invoke.FromEnv(nil)
		}
	}
	if deps.JudgeFactory == nil {
		deps.JudgeFactory = func(invoker invoke.Invoker, model string) invoke.Judge {
			return invoke.NewJudgeEvaluator(invoker, model)
		}
	}
	if deps.StoreFactory == nil {
		deps.StoreFactory = func(runDir string) runner.ResultWriter {
			return store.New(runDir)
		}
	}

	invoker, err := deps.InvokerFactory()
	if err != nil {
		return RunOutcome{}, fmt.Errorf("build invoker: %w", err)
	}
	var judge invoke.Judge
	if def.Judge.Model != "" {
		judge = deps.JudgeFactory(invoker, def.Judge.Model)
	}
	executor := runner.NewExecutor(invoker, judge, def.Tests)

	runID := deps.RunID()
	startedAt := deps.Now()
	layout := store.Layout{
		RunsRoot:    def.Output.RunsDir,
		ResultsRoot: def.Output.ResultsDir,
		Benchmark:   def.Name,
		StartedAt:   startedAt,
	}
	resultStore := deps.StoreFactory(layout.RunDir())

	scheduler := runner.NewScheduler(resultStore, params.Observer, runner.SchedulerConfig{
		ItemTimeout: time.Duration(def.Timeout.PerItemSeconds) * time.Second,
		Now:         deps.Now,
	})
	items := matrix.Items(def.Models, def.TestNames(), def.RunsPerTest)
	results := scheduler.Run(ctx, items, executor.Execute, def.Concurrency)

	return RunOutcome{
		RunID:   runID,
		RunDir:  layout.RunDir(),
		Layout:  layout,
		Results: results,
	}, nil
}
