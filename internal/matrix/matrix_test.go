package matrix

import "testing"

// TestItemsExpandsFullMatrix verifies the generated item count and ordering.
func TestItemsExpandsFullMatrix(t *testing.T) {
	items := Items([]string{"m1", "m2"}, []string{"t1", "t2", "t3"}, 2)
	if len(items) != 12 {
		t.Fatalf("expected 12 items, got %d", len(items))
	}
	first := WorkItem{Model: "m1", Test: "t1", RunIndex: 1}
	if items[0] != first {
		t.Fatalf("unexpected first item: %+v", items[0])
	}
	last := WorkItem{Model: "m2", Test: "t3", RunIndex: 2}
	if items[len(items)-1] != last {
		t.Fatalf("unexpected last item: %+v", items[len(items)-1])
	}
}

// TestItemsKeysAreUnique verifies every item carries a distinct key.
func TestItemsKeysAreUnique(t *testing.T) {
	items := Items([]string{"m1", "m2"}, []string{"t1", "t2"}, 3)
	seen := map[string]struct{}{}
	for _, item := range items {
		key := item.Key()
		if _, dup := seen[key]; dup {
			t.Fatalf("duplicate key %q", key)
		}
		seen[key] = struct{}{}
	}
}

// TestItemsClampsRunsPerTest verifies runsPerTest below one yields one run.
func TestItemsClampsRunsPerTest(t *testing.T) {
	items := Items([]string{"m"}, []string{"t"}, 0)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].RunIndex != 1 {
		t.Fatalf("expected run index 1, got %d", items[0].RunIndex)
	}
}
