package live

import (
	"time"

	"github.com/charmbracelet/lipgloss"

	"gauntlet/internal/progress"
)

// renderHeader renders the benchmark header line.
func renderHeader(benchmark string, snapshot progress.Snapshot, now time.Time, noColor bool) string {
	line := "Benchmark " + benchmark
	if !snapshot.StartedAt.IsZero() {
		elapsed := now.Sub(snapshot.StartedAt).Round(100 * time.Millisecond)
		line += " | Elapsed: " + elapsed.String()
	}
	return stylize(line, noColor, lipgloss.Color("33"))
}

// renderCounts renders the progress counts line.
func renderCounts(snapshot progress.Snapshot, noColor bool) string {
	line := "Completed: " + fmtInt(snapshot.Completed) + "/" + fmtInt(snapshot.Total) +
		" Running: " + fmtInt(len(snapshot.Active)) +
		" Passed: " + fmtInt(snapshot.Succeeded) +
		" Failed: " + fmtInt(snapshot.Failed) +
		" Tokens: " + fmtInt(snapshot.TotalTokens)
	return stylize(line, noColor, lipgloss.Color("242"))
}

// renderFooter renders the completion line once the batch is done.
func renderFooter(snapshot progress.Snapshot, noColor bool) string {
	if !snapshot.Done {
		return ""
	}
	line := "Batch complete: " + fmtInt(snapshot.Succeeded) + " passed, " + fmtInt(snapshot.Failed) + " failed"
	if len(snapshot.Errors) > 0 {
		line += " (" + fmtInt(len(snapshot.Errors)) + " errors)"
	}
	return stylize(line, noColor, lipgloss.Color("244"))
}

// stylize applies optional color styling.
func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}
