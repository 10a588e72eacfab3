package live

import (
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"gauntlet/internal/progress"
)

// tableStyles returns table styles for the UI.
func tableStyles(noColor bool) table.Styles {
	if noColor {
		return table.DefaultStyles()
	}
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(lipgloss.Color("252"))
	return styles
}

// defaultColumns returns the table layout before the first resize.
func defaultColumns() []table.Column {
	return columnsForWidth(100)
}

// columnsForWidth sizes the columns to the terminal width.
func columnsForWidth(width int) []table.Column {
	model := max(width/4, 16)
	test := max(width/4, 16)
	return []table.Column{
		{Title: "Model", Width: model},
		{Title: "Test", Width: test},
		{Title: "Run", Width: 5},
		{Title: "Status", Width: 10},
		{Title: "Elapsed", Width: 10},
		{Title: "Tokens", Width: 8},
	}
}

// rowsForSnapshot converts a snapshot into table rows: active items first,
// then completed results in completion order, newest last.
func rowsForSnapshot(snapshot progress.Snapshot, now time.Time) []table.Row {
	rows := make([]table.Row, 0, len(snapshot.Active)+len(snapshot.Results))
	for _, active := range snapshot.Active {
		rows = append(rows, table.Row{
			active.Model,
			active.Test,
			formatRunIndex(active.RunIndex),
			"running",
			formatDuration(now.Sub(active.StartedAt)),
			"",
		})
	}
	for _, result := range snapshot.Results {
		rows = append(rows, table.Row{
			result.ModelName,
			result.TestName,
			formatRunIndex(result.RunIndex),
			formatOutcome(result.Success),
			formatDuration(time.Duration(result.DurationMs) * time.Millisecond),
			formatTokens(result.TokenUsage.Total),
		})
	}
	return rows
}
