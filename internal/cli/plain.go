package cli

import (
	"fmt"
	"io"
	"sync"

	"gauntlet/internal/runner"
)

// plainPrinter reports batch progress as plain lines. It is the non-TTY
// fallback for the live UI and is safe for concurrent events.
type plainPrinter struct {
	mu        sync.Mutex
	w         io.Writer
	total     int
	completed int
}

func newPlainPrinter(w io.Writer) *plainPrinter {
	return &plainPrinter{w: w}
}

// OnBatchEvent prints one line per lifecycle event; ticks are ignored.
func (p *plainPrinter) OnBatchEvent(event runner.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch event.Kind {
	case runner.EventBatchStarted:
		p.total = event.Total
		fmt.Fprintf(p.w, "Dispatching %d runs\n", event.Total)
	case runner.EventItemStarted:
		fmt.Fprintf(p.w, "started   %s\n", event.Item.Key())
	case runner.EventItemErrored:
		fmt.Fprintf(p.w, "error     %s: %s\n", event.Item.Key(), event.Err)
	case runner.EventItemCompleted:
		p.completed++
		status := "fail"
		if event.Result.Success {
			status = "pass"
		}
		fmt.Fprintf(p.w, "[%d/%d] %s %s (%dms)\n",
			p.completed, p.total, status, event.Item.Key(), event.Result.DurationMs)
	case runner.EventBatchCompleted:
		fmt.Fprintf(p.w, "Batch complete: %d runs\n", p.completed)
	}
}
