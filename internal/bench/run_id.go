package bench

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// runIDSuffixLength bounds the random segment of a run ID.
const runIDSuffixLength = 12

// NewRunID returns a sortable run identifier: a UTC timestamp followed by a
// random suffix to disambiguate runs started in the same second.
func NewRunID() string {
	return NewRunIDAt(time.Now())
}

// NewRunIDAt builds a run ID for a fixed instant.
func NewRunIDAt(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:runIDSuffixLength]
	return FormatRunID(now, suffix)
}

// FormatRunID joins a timestamp and suffix into the canonical ID form.
func FormatRunID(now time.Time, suffix string) string {
	return now.UTC().Format("20060102T150405Z") + "-" + suffix
}
