// Package live renders batch progress as a live console UI using Bubble Tea.
// It consumes aggregator snapshots and never touches runner internals.
package live

import (
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gauntlet/internal/progress"
)

// Model renders progress snapshots.
type Model struct {
	benchmark    string
	snapshot     progress.Snapshot
	table        table.Model
	snapshots    <-chan progress.Snapshot
	tickInterval time.Duration
	now          time.Time
	noColor      bool
}

// Options configures the live UI model.
type Options struct {
	Benchmark    string
	NoColor      bool
	TickInterval time.Duration
}

// NewModel constructs a live UI model over a snapshot stream.
func NewModel(snapshots <-chan progress.Snapshot, opts Options) Model {
	tickInterval := opts.TickInterval
	if tickInterval <= 0 {
		tickInterval = 200 * time.Millisecond
	}
	t := table.New(
		table.WithColumns(defaultColumns()),
		table.WithRows([]table.Row{}),
		table.WithFocused(false),
	)
	t.SetStyles(tableStyles(opts.NoColor))
	return Model{
		benchmark:    opts.Benchmark,
		table:        t,
		snapshots:    snapshots,
		tickInterval: tickInterval,
		now:          time.Now(),
		noColor:      opts.NoColor,
	}
}

// Init starts ticking and waits for the first snapshot.
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForSnapshot(m.snapshots), tick(m.tickInterval))
}

// Update consumes snapshots and timer ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.table.SetWidth(typed.Width)
		m.table.SetHeight(max(typed.Height-4, 1))
		m.table.SetColumns(columnsForWidth(typed.Width))
		return m, nil
	case SnapshotMsg:
		m.snapshot = typed.Snapshot
		m.table.SetRows(rowsForSnapshot(m.snapshot, m.now))
		return m, waitForSnapshot(m.snapshots)
	case tickMsg:
		m.now = time.Time(typed)
		m.table.SetRows(rowsForSnapshot(m.snapshot, m.now))
		return m, tick(m.tickInterval)
	}
	return m, nil
}

// View renders the live UI.
func (m Model) View() string {
	header := renderHeader(m.benchmark, m.snapshot, m.now, m.noColor)
	counts := renderCounts(m.snapshot, m.noColor)
	tableView := m.table.View()
	footer := renderFooter(m.snapshot, m.noColor)
	return lipgloss.JoinVertical(lipgloss.Left, header, counts, tableView, footer)
}

// SnapshotMsg wraps a progress snapshot for Bubble Tea.
type SnapshotMsg struct {
	Snapshot progress.Snapshot
}

// tickMsg carries a clock tick for elapsed-time updates.
type tickMsg time.Time

// waitForSnapshot blocks until the next snapshot is available.
func waitForSnapshot(snapshots <-chan progress.Snapshot) tea.Cmd {
	return func() tea.Msg {
		if snapshots == nil {
			return nil
		}
		snapshot, ok := <-snapshots
		if !ok {
			return tea.Quit()
		}
		return SnapshotMsg{Snapshot: snapshot}
	}
}

// tick emits a periodic tick message.
func tick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}
