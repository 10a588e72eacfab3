package matrix

import "fmt"

// WorkItem is one schedulable (model, test, run-index) unit of a batch.
// Immutable once generated; the triple is its identity within a batch.
type WorkItem struct {
	Model    string
	Test     string
	RunIndex int
}

// Key returns the composite identity key for the item.
func (w WorkItem) Key() string {
	return fmt.Sprintf("%s/%s#%d", w.Model, w.Test, w.RunIndex)
}

// Items expands models x tests x runsPerTest into the full ordered work list.
// Run indices are 1-based. A runsPerTest below 1 is treated as 1.
func Items(models []string, tests []string, runsPerTest int) []WorkItem {
	if runsPerTest < 1 {
		runsPerTest = 1
	}
	items := make([]WorkItem, 0, len(models)*len(tests)*runsPerTest)
	for _, model := range models {
		for _, test := range tests {
			for run := 1; run <= runsPerTest; run++ {
				items = append(items, WorkItem{Model: model, Test: test, RunIndex: run})
			}
		}
	}
	return items
}
