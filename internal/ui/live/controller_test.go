package live

import (
	"sync"
	"testing"

	"gauntlet/internal/progress"
)

func newTestController(buffer int) *Controller {
	return &Controller{
		snapshots: make(chan progress.Snapshot, buffer),
		done:      make(chan struct{}),
	}
}

// TestControllerDropsSendsAfterClose verifies a late publication after Close
// is dropped instead of panicking on the closed channel.
func TestControllerDropsSendsAfterClose(t *testing.T) {
	c := newTestController(2)
	c.send(progress.Snapshot{Total: 1})
	c.Close()
	c.Close()
	c.send(progress.Snapshot{Total: 2})

	first, ok := <-c.snapshots
	if !ok || first.Total != 1 {
		t.Fatalf("expected the pre-close snapshot, got %+v (ok=%v)", first, ok)
	}
	if extra, ok := <-c.snapshots; ok {
		t.Fatalf("unexpected snapshot after close: %+v", extra)
	}
}

// TestControllerCloseRacesWithSend verifies concurrent senders and Close never
// panic and every delivered snapshot precedes the channel close.
func TestControllerCloseRacesWithSend(t *testing.T) {
	for i := 0; i < 100; i++ {
		c := newTestController(4)
		var wg sync.WaitGroup
		for g := 0; g < 4; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for n := 0; n < 50; n++ {
					c.send(progress.Snapshot{Total: n})
				}
			}()
		}
		c.Close()
		wg.Wait()
		for range c.snapshots {
		}
	}
}
