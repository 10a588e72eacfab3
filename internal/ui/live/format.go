package live

import (
	"strconv"
	"time"
)

// fmtInt converts an int to string.
func fmtInt(value int) string {
	return strconv.Itoa(value)
}

// formatRunIndex renders a run index column value.
func formatRunIndex(index int) string {
	return "#" + fmtInt(index)
}

// formatOutcome maps a terminal outcome to its status label.
func formatOutcome(success bool) string {
	if success {
		return "pass"
	}
	return "fail"
}

// formatDuration renders durations compactly: sub-second in milliseconds,
// longer ones rounded to tenths of a second.
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	if d < time.Second {
		return fmtInt(int(d.Milliseconds())) + "ms"
	}
	return d.Round(100 * time.Millisecond).String()
}

// formatTokens renders a token count, blank when unknown.
func formatTokens(total int) string {
	if total <= 0 {
		return ""
	}
	return fmtInt(total)
}
