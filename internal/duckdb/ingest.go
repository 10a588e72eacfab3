package duckdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gauntlet/internal/runner"
	"gauntlet/internal/summary"
)

// IngestStats reports what one ingestion wrote.
type IngestStats struct {
	RunID           string
	ResultsInserted int
	ResultsSkipped  int
}

// Ingest loads a combined summary into the database: one row in runs and one
// row per run result. Re-ingesting the same summary is a no-op for result
// rows already present, keyed by (run, model, test, run index).
func Ingest(ctx context.Context, db *sql.DB, runID string, sum summary.BenchmarkSummary) (IngestStats, error) {
	if db == nil {
		return IngestStats{}, errors.New("duckdb: db is nil")
	}
	if runID == "" {
		return IngestStats{}, errors.New("duckdb: run id is empty")
	}

	if _, err := db.ExecContext(
		ctx,
		`INSERT INTO runs (run_id, benchmark_dir, generated_at, ingested_at,
		                   total_models, total_tests, total_runs, succeeded, failed,
		                   success_rate, avg_duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (run_id) DO NOTHING`,
		runID,
		sum.RunDir,
		sum.GeneratedAt,
		time.Now().UTC(),
		sum.Overall.TotalModels,
		sum.Overall.TotalTests,
		sum.Overall.Stats.TotalRuns,
		sum.Overall.Stats.Succeeded,
		sum.Overall.Stats.Failed,
		sum.Overall.Stats.SuccessRate,
		sum.Overall.Stats.AvgDurationMs,
	); err != nil {
		return IngestStats{}, fmt.Errorf("insert run: %w", err)
	}

	stats := IngestStats{RunID: runID}
	for _, model := range sum.Models {
		for _, test := range model.Tests {
			for _, result := range test.Results {
				inserted, err := insertResult(ctx, db, runID, result)
				if err != nil {
					return stats, err
				}
				if inserted {
					stats.ResultsInserted++
				} else {
					stats.ResultsSkipped++
				}
			}
		}
	}
	return stats, nil
}

// insertResult writes one result row, reporting whether it was new.
func insertResult(ctx context.Context, db *sql.DB, runID string, result runner.RunResult) (bool, error) {
	key := resultKey(runID, result)
	res, err := db.ExecContext(
		ctx,
		`INSERT INTO results (result_id, run_id, model_name, test_name, run_index,
		                      result_key, recorded_at, success, reason, duration_ms,
		                      input_tokens, output_tokens, reasoning_tokens, total_tokens,
		                      raw_output, judge_output)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (result_key) DO NOTHING`,
		uuid.NewString(),
		runID,
		result.ModelName,
		result.TestName,
		result.RunIndex,
		key,
		result.Timestamp.UTC(),
		result.Success,
		result.Reason,
		result.DurationMs,
		result.TokenUsage.Input,
		result.TokenUsage.Output,
		result.TokenUsage.Reasoning,
		result.TokenUsage.Total,
		result.RawOutput,
		result.JudgeOutput,
	)
	if err != nil {
		return false, fmt.Errorf("insert result %s: %w", key, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// resultKey identifies one result row across re-ingestions.
func resultKey(runID string, result runner.RunResult) string {
	return fmt.Sprintf("%s|%s|%s|%d", runID, result.ModelName, result.TestName, result.RunIndex)
}
