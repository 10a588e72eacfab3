package progress

import (
	"sort"
	"time"

	"gauntlet/internal/runner"
)

// ActiveRun is one item currently executing. Two active runs may share any two
// of the three key fields, so membership always uses the full composite key.
type ActiveRun struct {
	Test      string
	Model     string
	RunIndex  int
	StartedAt time.Time
}

// runKey is the composite identity of a work item within a batch.
type runKey struct {
	test     string
	model    string
	runIndex int
}

// Snapshot is an immutable, point-in-time view of batch progress. Counts are
// always derived from the results list and active set, never maintained as
// separate counters.
type Snapshot struct {
	Total       int
	Completed   int
	Succeeded   int
	Failed      int
	Elapsed     time.Duration
	TotalTokens int
	Active      []ActiveRun
	Results     []runner.RunResult
	Errors      []string
	Done        bool
	StartedAt   time.Time

	// seq orders snapshots so a stale one never replaces a newer one.
	seq uint64
}

// sortActive orders active runs by start time, then by composite key, so
// renderers see a stable row order between frames.
func sortActive(active []ActiveRun) {
	sort.Slice(active, func(i, j int) bool {
		left, right := active[i], active[j]
		if !left.StartedAt.Equal(right.StartedAt) {
			return left.StartedAt.Before(right.StartedAt)
		}
		if left.Model != right.Model {
			return left.Model < right.Model
		}
		if left.Test != right.Test {
			return left.Test < right.Test
		}
		return left.RunIndex < right.RunIndex
	})
}

// recount derives the snapshot's aggregate counters from its collections.
func (s *Snapshot) recount() {
	s.Completed = len(s.Results)
	s.Succeeded = 0
	s.Failed = 0
	s.TotalTokens = 0
	for _, result := range s.Results {
		if result.Success {
			s.Succeeded++
		} else {
			s.Failed++
		}
		s.TotalTokens += result.TokenUsage.Total
	}
}
