package live

import (
	"io"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"gauntlet/internal/progress"
)

// Controller runs the live UI over an aggregator's snapshot stream.
type Controller struct {
	snapshots chan progress.Snapshot
	program   *tea.Program
	done      chan struct{}

	// mu guards closed so a late publication never sends on the closed channel.
	mu     sync.Mutex
	closed bool
}

// Start launches a live UI fed by agg's snapshot publications. The returned
// controller must be closed once the batch finishes.
func Start(stdout io.Writer, agg *progress.Aggregator, opts Options) *Controller {
	if stdout == nil {
		stdout = os.Stdout
	}
	snapshots := make(chan progress.Snapshot, 256)
	model := NewModel(snapshots, opts)
	program := tea.NewProgram(model, tea.WithOutput(stdout), tea.WithAltScreen())
	controller := &Controller{
		snapshots: snapshots,
		program:   program,
		done:      make(chan struct{}),
	}
	agg.OnChange(func() {
		controller.send(agg.Snapshot())
	})
	go func() {
		_, _ = program.Run()
		close(controller.done)
	}()
	return controller
}

// Close signals the UI to stop after draining queued snapshots.
func (c *Controller) Close() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.snapshots)
}

// Wait blocks until the UI has exited.
func (c *Controller) Wait() {
	if c == nil {
		return
	}
	<-c.done
}

// send enqueues a snapshot without ever blocking the aggregator. A full queue
// drops the snapshot; a later one supersedes it. Sends after Close are dropped.
func (c *Controller) send(snapshot progress.Snapshot) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.snapshots <- snapshot:
	default:
	}
}
