package testutil

import (
	"context"
	"testing"
	"time"
)

// DefaultTimeout bounds blocking operations in unit tests.
const DefaultTimeout = 5 * time.Second

// Context returns a context that expires after timeout and is canceled when
// the test finishes. The timeout is clamped to leave a second of slack before
// the test binary's own deadline so failures surface as test errors, not as a
// panic from the harness.
func Context(t *testing.T, timeout time.Duration) context.Context {
	t.Helper()
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if deadline, ok := t.Deadline(); ok {
		if slack := time.Until(deadline) - time.Second; slack > 0 && slack < timeout {
			timeout = slack
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}
