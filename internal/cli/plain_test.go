package cli

import (
	"bytes"
	"strings"
	"testing"

	"gauntlet/internal/matrix"
	"gauntlet/internal/runner"
)

func TestPlainPrinterLifecycle(t *testing.T) {
	var buf bytes.Buffer
	printer := newPlainPrinter(&buf)
	item := matrix.WorkItem{Model: "m", Test: "t", RunIndex: 1}

	printer.OnBatchEvent(runner.Event{Kind: runner.EventBatchStarted, Total: 2})
	printer.OnBatchEvent(runner.Event{Kind: runner.EventItemStarted, Item: item})
	printer.OnBatchEvent(runner.Event{Kind: runner.EventTick})
	printer.OnBatchEvent(runner.Event{
		Kind:   runner.EventItemCompleted,
		Item:   item,
		Result: runner.RunResult{Success: true, DurationMs: 120},
	})
	printer.OnBatchEvent(runner.Event{Kind: runner.EventItemErrored, Item: item, Err: "boom"})
	printer.OnBatchEvent(runner.Event{Kind: runner.EventBatchCompleted})

	out := buf.String()
	for _, want := range []string{
		"Dispatching 2 runs",
		"started   m/t#1",
		"[1/2] pass m/t#1 (120ms)",
		"error     m/t#1: boom",
		"Batch complete: 1 runs",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "tick") {
		t.Fatalf("ticks must not be printed:\n%s", out)
	}
}
