package summary

import (
	"time"

	"gauntlet/internal/runner"
)

// TokenAverages holds mean token usage across a group of runs.
type TokenAverages struct {
	Input     float64 `json:"input"`
	Output    float64 `json:"output"`
	Reasoning float64 `json:"reasoning"`
	Total     float64 `json:"total"`
}

// Stats aggregates a group of run results. Averages are zero when the group
// is empty.
type Stats struct {
	TotalRuns     int           `json:"totalRuns"`
	Succeeded     int           `json:"succeeded"`
	Failed        int           `json:"failed"`
	SuccessRate   float64       `json:"successRate"`
	AvgDurationMs float64       `json:"avgDurationMs"`
	AvgTokenUsage TokenAverages `json:"avgTokenUsage"`
}

// TestSummary aggregates all runs of one test under one model.
type TestSummary struct {
	TestName string             `json:"testName"`
	Stats    Stats              `json:"stats"`
	Results  []runner.RunResult `json:"results"`
}

// ModelSummary aggregates all runs of one model across its tests.
type ModelSummary struct {
	ModelName string        `json:"modelName"`
	Stats     Stats         `json:"stats"`
	Tests     []TestSummary `json:"tests"`
}

// Overall aggregates the whole run directory.
type Overall struct {
	TotalModels int   `json:"totalModels"`
	TotalTests  int   `json:"totalTests"`
	Stats       Stats `json:"stats"`
}

// BenchmarkSummary is the aggregation tree built purely from persisted result
// files; it is never mutated incrementally.
type BenchmarkSummary struct {
	RunDir      string         `json:"runDir"`
	GeneratedAt time.Time      `json:"generatedAt"`
	Overall     Overall        `json:"overall"`
	Models      []ModelSummary `json:"models"`
}
