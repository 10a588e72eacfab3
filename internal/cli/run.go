package cli

import (
	"context"
	"flag"
	"fmt"
	"io"

	"gauntlet/internal/bench"
	"gauntlet/internal/progress"
	"gauntlet/internal/runner"
	"gauntlet/internal/spec"
	"gauntlet/internal/summary"
	"gauntlet/internal/ui/live"
)

// runBenchmark is stubbed in tests.
var runBenchmark = bench.Run

// runRun builds the handler for the run command.
func runRun(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		specPath := flags.String("spec", "gauntlet.yml", "Path to the benchmark definition")
		uiMode := flags.String("ui", "auto", "UI mode: auto, live or plain")
		summaryOut := flags.String("out", "", "Override the summary artifact path")
		if err := flags.Parse(args); err != nil {
			return ExitUsage
		}

		def, err := spec.Load(*specPath)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load definition: %v\n", err)
			return ExitError
		}

		decision, err := resolveUIMode(*uiMode, stdout)
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return ExitUsage
		}
		if decision.warning != "" {
			fmt.Fprintln(stderr, decision.warning)
		}

		aggregator := progress.NewAggregator(progress.Config{})
		var observer runner.BatchObserver = aggregator
		var controller *live.Controller
		if decision.useLive {
			controller = live.Start(stdout, aggregator, live.Options{Benchmark: def.Name})
		} else {
			observer = runner.MultiObserver(aggregator, newPlainPrinter(stdout))
		}

		outcome, err := runBenchmark(context.Background(), def, bench.RunParams{Observer: observer})
		if controller != nil {
			controller.Close()
			controller.Wait()
		}
		if err != nil {
			fmt.Fprintf(stderr, "Run failed: %v\n", err)
			return ExitError
		}

		combiner := summary.NewCombiner(stderr, nil)
		combined, err := combiner.Combine(outcome.RunDir)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to combine results: %v\n", err)
			return ExitError
		}
		summaryPath := outcome.Layout.SummaryPath(*summaryOut)
		if err := summary.Write(combined, summaryPath); err != nil {
			fmt.Fprintf(stderr, "Failed to write summary: %v\n", err)
			return ExitError
		}

		fmt.Fprintf(stdout, "Run %s completed\n", outcome.RunID)
		fmt.Fprintf(stdout, "Results: %s\n", outcome.RunDir)
		fmt.Fprintf(stdout, "Summary: %s\n", summaryPath)
		return ExitOK
	}
}
