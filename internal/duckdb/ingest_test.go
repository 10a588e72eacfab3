package duckdb

import (
	"testing"
	"time"

	"gauntlet/internal/runner"
	"gauntlet/internal/summary"
	"gauntlet/internal/testutil"
)

func sampleSummary() summary.BenchmarkSummary {
	ts := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	results := []runner.RunResult{
		{
			TestName:   "sum",
			ModelName:  "model-a",
			RunIndex:   1,
			Timestamp:  ts,
			Success:    true,
			Reason:     "correct",
			DurationMs: 120,
			TokenUsage: runner.TokenUsage{Input: 10, Output: 20, Total: 30},
			RawOutput:  "4",
		},
		{
			TestName:   "sum",
			ModelName:  "model-a",
			RunIndex:   2,
			Timestamp:  ts.Add(time.Second),
			Success:    false,
			Reason:     "wrong answer",
			DurationMs: 80,
			TokenUsage: runner.TokenUsage{Input: 10, Output: 15, Total: 25},
			RawOutput:  "5",
		},
	}
	return summary.BenchmarkSummary{
		RunDir:      "runs/smoke-20260501T120000Z",
		GeneratedAt: ts.Add(time.Minute),
		Overall: summary.Overall{
			TotalModels: 1,
			TotalTests:  1,
			Stats:       summary.Stats{TotalRuns: 2, Succeeded: 1, Failed: 1, SuccessRate: 0.5, AvgDurationMs: 100},
		},
		Models: []summary.ModelSummary{{
			ModelName: "model-a",
			Tests:     []summary.TestSummary{{TestName: "sum", Results: results}},
		}},
	}
}

func TestIngestWritesRunAndResults(t *testing.T) {
	ctx := testutil.Context(t, 30*time.Second)
	db, err := Open("")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = db.Close() }()

	stats, err := Ingest(ctx, db, "run-1", sampleSummary())
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if stats.ResultsInserted != 2 || stats.ResultsSkipped != 0 {
		t.Fatalf("stats = %+v", stats)
	}

	var runCount int
	if err := db.QueryRowContext(ctx, `SELECT count(*) FROM runs WHERE run_id = ?`, "run-1").Scan(&runCount); err != nil {
		t.Fatalf("query runs: %v", err)
	}
	if runCount != 1 {
		t.Fatalf("runs = %d, want 1", runCount)
	}

	var succeeded int
	query := `SELECT count(*) FROM results WHERE run_id = ? AND success`
	if err := db.QueryRowContext(ctx, query, "run-1").Scan(&succeeded); err != nil {
		t.Fatalf("query results: %v", err)
	}
	if succeeded != 1 {
		t.Fatalf("succeeded rows = %d, want 1", succeeded)
	}
}

func TestIngestIsIdempotent(t *testing.T) {
	ctx := testutil.Context(t, 30*time.Second)
	db, err := Open("")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = db.Close() }()

	sum := sampleSummary()
	if _, err := Ingest(ctx, db, "run-1", sum); err != nil {
		t.Fatalf("first ingest: %v", err)
	}
	stats, err := Ingest(ctx, db, "run-1", sum)
	if err != nil {
		t.Fatalf("second ingest: %v", err)
	}
	if stats.ResultsInserted != 0 || stats.ResultsSkipped != 2 {
		t.Fatalf("stats = %+v", stats)
	}

	var total int
	if err := db.QueryRowContext(ctx, `SELECT count(*) FROM results`).Scan(&total); err != nil {
		t.Fatalf("query results: %v", err)
	}
	if total != 2 {
		t.Fatalf("results = %d, want 2", total)
	}
}

func TestIngestRejectsEmptyRunID(t *testing.T) {
	ctx := testutil.Context(t, 30*time.Second)
	db, err := Open("")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := Ingest(ctx, db, "", sampleSummary()); err == nil {
		t.Fatal("expected error for empty run id")
	}
}
