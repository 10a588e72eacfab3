package testutil

import (
	"testing"
	"time"
)

// Eventually polls fn every interval and fails the test if it has not
// returned true before timeout elapses.
func Eventually(t *testing.T, timeout, interval time.Duration, fn func() bool, msg string) {
	t.Helper()
	stop := time.Now().Add(timeout)
	for {
		if fn() {
			return
		}
		if time.Now().After(stop) {
			if msg == "" {
				msg = "condition not met before timeout"
			}
			t.Fatal(msg)
		}
		time.Sleep(interval)
	}
}
