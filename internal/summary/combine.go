// Package summary rebuilds aggregate statistics purely from persisted result
// files, so a crashed or still-running session can always be summarized
// without any in-memory state from the run itself.
package summary

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gauntlet/internal/runner"
)

// Combiner scans run directories and aggregates their result files. Files
// that fail to parse or validate are skipped with a warning; combination
// always proceeds over the remaining files.
type Combiner struct {
	warn io.Writer
	now  func() time.Time
}

// NewCombiner builds a Combiner writing warnings to warn. A nil warn discards
// warnings; a nil now uses the wall clock.
func NewCombiner(warn io.Writer, now func() time.Time) *Combiner {
	if warn == nil {
		warn = io.Discard
	}
	if now == nil {
		now = time.Now
	}
	return &Combiner{warn: warn, now: now}
}

// Combine aggregates every valid result file under runDir into a summary.
func (c *Combiner) Combine(runDir string) (BenchmarkSummary, error) {
	byModel, err := c.loadResults(runDir)
	if err != nil {
		return BenchmarkSummary{}, err
	}

	modelNames := make([]string, 0, len(byModel))
	for name := range byModel {
		modelNames = append(modelNames, name)
	}
	sort.Strings(modelNames)

	testNames := map[string]struct{}{}
	var all []runner.RunResult
	models := make([]ModelSummary, 0, len(modelNames))
	for _, modelName := range modelNames {
		results := byModel[modelName]
		models = append(models, summarizeModel(modelName, results))
		for _, result := range results {
			testNames[result.TestName] = struct{}{}
		}
		all = append(all, results...)
	}

	return BenchmarkSummary{
		RunDir:      runDir,
		GeneratedAt: c.now().UTC(),
		Overall: Overall{
			TotalModels: len(models),
			TotalTests:  len(testNames),
			Stats:       computeStats(all),
		},
		Models: models,
	}, nil
}

// CombineLatest locates the most recent run directory under runsRoot and
// combines it.
func (c *Combiner) CombineLatest(runsRoot string) (BenchmarkSummary, error) {
	runDir, err := LatestRunDir(runsRoot)
	if err != nil {
		return BenchmarkSummary{}, err
	}
	return c.Combine(runDir)
}

// Write serializes the summary to path, creating parent directories.
func Write(summary BenchmarkSummary, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create summary dir: %w", err)
	}
	payload, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

// LatestRunDir returns the lexically-latest run directory under runsRoot.
// Run directory names embed a sortable UTC timestamp, so lexical order is
// chronological order.
func LatestRunDir(runsRoot string) (string, error) {
	entries, err := os.ReadDir(runsRoot)
	if err != nil {
		return "", fmt.Errorf("read runs dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	if len(names) == 0 {
		return "", fmt.Errorf("no runs found in %s", runsRoot)
	}
	sort.Strings(names)
	return filepath.Join(runsRoot, names[len(names)-1]), nil
}

// loadResults reads every result file grouped by its model directory.
func (c *Combiner) loadResults(runDir string) (map[string][]runner.RunResult, error) {
	entries, err := os.ReadDir(runDir)
	if err != nil {
		return nil, fmt.Errorf("read run dir: %w", err)
	}
	byModel := map[string][]runner.RunResult{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		modelDir := filepath.Join(runDir, entry.Name())
		files, err := os.ReadDir(modelDir)
		if err != nil {
			fmt.Fprintf(c.warn, "Warning: skipping model dir %s: %v\n", modelDir, err)
			continue
		}
		for _, file := range files {
			if file.IsDir() || !strings.HasSuffix(file.Name(), ".json") {
				continue
			}
			path := filepath.Join(modelDir, file.Name())
			result, err := readResult(path)
			if err != nil {
				fmt.Fprintf(c.warn, "Warning: skipping %s: %v\n", path, err)
				continue
			}
			byModel[result.ModelName] = append(byModel[result.ModelName], result)
		}
	}
	return byModel, nil
}

// readResult parses and validates one persisted result file.
func readResult(path string) (runner.RunResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return runner.RunResult{}, err
	}
	var result runner.RunResult
	if err := json.Unmarshal(data, &result); err != nil {
		return runner.RunResult{}, fmt.Errorf("parse result: %w", err)
	}
	if err := validateResult(result); err != nil {
		return runner.RunResult{}, err
	}
	return result, nil
}

// validateResult checks the persisted schema invariants.
func validateResult(result runner.RunResult) error {
	switch {
	case strings.TrimSpace(result.TestName) == "":
		return fmt.Errorf("invalid result: testName is empty")
	case strings.TrimSpace(result.ModelName) == "":
		return fmt.Errorf("invalid result: modelName is empty")
	case result.RunIndex < 1:
		return fmt.Errorf("invalid result: runIndex %d", result.RunIndex)
	case result.Timestamp.IsZero():
		return fmt.Errorf("invalid result: timestamp is zero")
	case result.DurationMs < 0:
		return fmt.Errorf("invalid result: negative duration")
	case result.TokenUsage.Input < 0 || result.TokenUsage.Output < 0 || result.TokenUsage.Total < 0:
		return fmt.Errorf("invalid result: negative token usage")
	default:
		return nil
	}
}

// summarizeModel groups one model's results by test, sorted by test name for
// deterministic output.
func summarizeModel(modelName string, results []runner.RunResult) ModelSummary {
	byTest := map[string][]runner.RunResult{}
	for _, result := range results {
		byTest[result.TestName] = append(byTest[result.TestName], result)
	}
	testNames := make([]string, 0, len(byTest))
	for name := range byTest {
		testNames = append(testNames, name)
	}
	sort.Strings(testNames)

	tests := make([]TestSummary, 0, len(testNames))
	for _, testName := range testNames {
		group := byTest[testName]
		sort.Slice(group, func(i, j int) bool {
			if group[i].RunIndex != group[j].RunIndex {
				return group[i].RunIndex < group[j].RunIndex
			}
			return group[i].Timestamp.Before(group[j].Timestamp)
		})
		tests = append(tests, TestSummary{
			TestName: testName,
			Stats:    computeStats(group),
			Results:  group,
		})
	}
	return ModelSummary{
		ModelName: modelName,
		Stats:     computeStats(results),
		Tests:     tests,
	}
}
