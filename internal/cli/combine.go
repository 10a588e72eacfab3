package cli

import (
	"flag"
	"fmt"
	"io"
	"path/filepath"

	"gauntlet/internal/summary"
)

// runCombine builds the handler for the combine command.
func runCombine(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		latest := flags.Bool("latest", false, "Combine the most recent run directory")
		runsDir := flags.String("runs-dir", "runs", "Root directory holding run directories")
		out := flags.String("out", "", "Summary output path")
		if err := flags.Parse(args); err != nil {
			return ExitUsage
		}

		combiner := summary.NewCombiner(stderr, nil)
		var combined summary.BenchmarkSummary
		var err error
		switch {
		case *latest:
			if flags.NArg() > 0 {
				fmt.Fprintln(stderr, "--latest does not take a run directory argument")
				return ExitUsage
			}
			combined, err = combiner.CombineLatest(*runsDir)
		case flags.NArg() == 1:
			combined, err = combiner.Combine(flags.Arg(0))
		default:
			fmt.Fprintln(stderr, "expected exactly one run directory, or --latest")
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}
		if err != nil {
			fmt.Fprintf(stderr, "Combine failed: %v\n", err)
			return ExitError
		}

		outPath := *out
		if outPath == "" {
			outPath = filepath.Base(combined.RunDir) + "-summary.json"
		}
		if err := summary.Write(combined, outPath); err != nil {
			fmt.Fprintf(stderr, "Failed to write summary: %v\n", err)
			return ExitError
		}

		fmt.Fprintf(stdout, "Combined %d runs across %d models\n",
			combined.Overall.Stats.TotalRuns, combined.Overall.TotalModels)
		fmt.Fprintf(stdout, "Summary: %s\n", outPath)
		return ExitOK
	}
}
