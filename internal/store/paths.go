package store

import (
	"fmt"
	"path/filepath"
	"time"
)

// Timestamp layouts for path segments. Colons are avoided so the ISO-style
// stamps are valid segments on every platform.
const (
	runStampLayout    = "20060102T150405Z"
	resultStampLayout = "20060102T150405.000Z"
)

// Layout derives the filesystem locations for one benchmark run.
type Layout struct {
	RunsRoot    string
	ResultsRoot string
	Benchmark   string
	StartedAt   time.Time
}

// RunStamp returns the run's timestamp segment.
func (l Layout) RunStamp() string {
	return l.StartedAt.UTC().Format(runStampLayout)
}

// RunDir returns the directory holding this run's per-item result files.
func (l Layout) RunDir() string {
	segment := fmt.Sprintf("%s-%s", Sanitize(l.Benchmark), l.RunStamp())
	return filepath.Join(l.RunsRoot, segment)
}

// SummaryPath returns the summary artifact path, honoring an explicit
// override when one is given.
func (l Layout) SummaryPath(override string) string {
	if override != "" {
		return override
	}
	name := fmt.Sprintf("%s-%s-summary.json", Sanitize(l.Benchmark), l.RunStamp())
	return filepath.Join(l.ResultsRoot, name)
}

// resultFileName builds the per-item file name segment.
func resultFileName(timestamp time.Time, test string, runIndex int) string {
	stamp := Sanitize(timestamp.UTC().Format(resultStampLayout))
	return fmt.Sprintf("%s-%s-run%d.json", stamp, Sanitize(test), runIndex)
}
