package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gauntlet/internal/duckdb"
	"gauntlet/internal/summary"
)

// runIngest builds the handler for the ingest command.
func runIngest(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		summaryPath := flags.String("summary", "", "Path to a combined summary JSON file")
		dbPath := flags.String("db", "gauntlet.duckdb", "DuckDB database path")
		runID := flags.String("run-id", "", "Run identifier (default: derived from the summary's run directory)")
		if err := flags.Parse(args); err != nil {
			return ExitUsage
		}
		if *summaryPath == "" {
			fmt.Fprintln(stderr, "--summary is required")
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}

		sum, err := readSummary(*summaryPath)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to read summary: %v\n", err)
			return ExitError
		}
		id := *runID
		if id == "" {
			id = filepath.Base(sum.RunDir)
		}
		if strings.TrimSpace(id) == "" || id == "." {
			fmt.Fprintln(stderr, "summary has no run directory; pass --run-id")
			return ExitUsage
		}

		db, err := duckdb.Open(*dbPath)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to open database: %v\n", err)
			return ExitError
		}
		defer func() { _ = db.Close() }()

		stats, err := duckdb.Ingest(context.Background(), db, id, sum)
		if err != nil {
			fmt.Fprintf(stderr, "Ingest failed: %v\n", err)
			return ExitError
		}

		fmt.Fprintf(stdout, "Ingested run %s: %d results inserted, %d already present\n",
			stats.RunID, stats.ResultsInserted, stats.ResultsSkipped)
		return ExitOK
	}
}

// readSummary parses a combined summary artifact.
func readSummary(path string) (summary.BenchmarkSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return summary.BenchmarkSummary{}, err
	}
	var sum summary.BenchmarkSummary
	if err := json.Unmarshal(data, &sum); err != nil {
		return summary.BenchmarkSummary{}, fmt.Errorf("parse summary: %w", err)
	}
	return sum, nil
}
