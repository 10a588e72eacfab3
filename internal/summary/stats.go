package summary

import "gauntlet/internal/runner"

// computeStats aggregates a group of results. Safe for empty groups: all
// averages and rates are zero, never a division error.
func computeStats(results []runner.RunResult) Stats {
	stats := Stats{TotalRuns: len(results)}
	if len(results) == 0 {
		return stats
	}
	var durationSum int64
	var inputSum, outputSum, reasoningSum, totalSum int
	for _, result := range results {
		if result.Success {
			stats.Succeeded++
		} else {
			stats.Failed++
		}
		durationSum += result.DurationMs
		inputSum += result.TokenUsage.Input
		outputSum += result.TokenUsage.Output
		reasoningSum += result.TokenUsage.Reasoning
		totalSum += result.TokenUsage.Total
	}
	n := float64(len(results))
	stats.SuccessRate = float64(stats.Succeeded) / n
	stats.AvgDurationMs = float64(durationSum) / n
	stats.AvgTokenUsage = TokenAverages{
		Input:     float64(inputSum) / n,
		Output:    float64(outputSum) / n,
		Reasoning: float64(reasoningSum) / n,
		Total:     float64(totalSum) / n,
	}
	return stats
}
