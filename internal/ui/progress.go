// Package ui renders the live view of `mmdcheck check` on a terminal.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"mmdcheck/internal/driver"
)

// maxRows bounds the file list; finished files scroll off the top first.
const maxRows = 12

type fileState uint8

const (
	stateQueued fileState = iota
	stateReading
	stateChecking
	stateValid
	stateInvalid
	stateUnreadable
	stateCached
)

func (s fileState) String() string {
	switch s {
	case stateReading:
		return "reading"
	case stateChecking:
		return "checking"
	case stateValid:
		return "valid"
	case stateInvalid:
		return "invalid"
	case stateUnreadable:
		return "unreadable"
	case stateCached:
		return "cached"
	default:
		return "queued"
	}
}

func (s fileState) finished() bool {
	return s >= stateValid
}

var stateStyles = map[fileState]lipgloss.Style{
	stateQueued:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	stateReading:    lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	stateChecking:   lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	stateValid:      lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	stateCached:     lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Faint(true),
	stateInvalid:    lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	stateUnreadable: lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
}

type diagramRow struct {
	path    string
	state   fileState
	elapsed time.Duration
}

type checkModel struct {
	title    string
	events   <-chan driver.Event
	spinner  spinner.Model
	bar      progress.Model
	rows     []diagramRow
	byPath   map[string]int
	finished int
	width    int
	done     bool
}

type eventMsg driver.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders check progress.
// It quits when events is closed.
func NewProgressModel(title string, files []string, events <-chan driver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = stateStyles[stateChecking]

	bar := progress.New(progress.WithSolidFill("2"), progress.WithoutPercentage())
	bar.Width = 60

	m := &checkModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     bar,
		rows:    make([]diagramRow, len(files)),
		byPath:  make(map[string]int, len(files)),
		width:   80,
	}
	for i, file := range files {
		m.rows[i] = diagramRow{path: file}
		m.byPath[file] = i
	}
	return m
}

func (m *checkModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m *checkModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(driver.Event(msg)), m.next())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = min(msg.Width-4, 60)
		}
		return m, nil
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

// next waits for one driver event.
func (m *checkModel) next() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *checkModel) apply(ev driver.Event) tea.Cmd {
	idx, ok := m.byPath[ev.File]
	if !ok {
		return nil
	}
	row := &m.rows[idx]
	if row.state.finished() {
		return nil
	}
	row.state = stateFor(ev)
	if row.state.finished() {
		m.finished++
		row.elapsed = ev.Elapsed
	}
	return m.bar.SetPercent(float64(m.finished) / float64(len(m.rows)))
}

func stateFor(ev driver.Event) fileState {
	switch ev.Status {
	case driver.StatusWorking:
		if ev.Stage == driver.StageRead {
			return stateReading
		}
		return stateChecking
	case driver.StatusDone:
		return stateValid
	case driver.StatusCached:
		return stateCached
	case driver.StatusError:
		if ev.Stage == driver.StageRead {
			return stateUnreadable
		}
		return stateInvalid
	default:
		return stateQueued
	}
}

func (m *checkModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	var b strings.Builder

	head := fmt.Sprintf("%s %s  %d/%d", m.spinner.View(), m.title, m.finished, len(m.rows))
	if m.done {
		head = fmt.Sprintf("✓ %s  %d/%d", m.title, m.finished, len(m.rows))
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(head))
	b.WriteString("\n\n")

	nameWidth := max(m.width-24, 20)
	for _, row := range m.visibleRows() {
		state := stateStyles[row.state].Render(fmt.Sprintf("%-10s", row.state))
		fmt.Fprintf(&b, "  %s %s", state, truncate(row.path, nameWidth))
		if row.elapsed > 0 {
			fmt.Fprintf(&b, " %s", row.elapsed.Round(time.Millisecond))
		}
		b.WriteString("\n")
	}

	t := m.tally()
	fmt.Fprintf(&b, "\n  %d valid, %d invalid, %d cached\n\n", t.valid, t.invalid, t.cached)
	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}

// visibleRows keeps failures and running files on screen and lets the oldest
// successes scroll away once the list is longer than maxRows.
func (m *checkModel) visibleRows() []diagramRow {
	if len(m.rows) <= maxRows {
		return m.rows
	}
	hide := len(m.rows) - maxRows
	out := make([]diagramRow, 0, maxRows)
	for _, row := range m.rows {
		passed := row.state == stateValid || row.state == stateCached
		if hide > 0 && passed {
			hide--
			continue
		}
		out = append(out, row)
	}
	if len(out) > maxRows {
		out = out[:maxRows]
	}
	return out
}

type tally struct {
	valid, invalid, cached int
}

func (m *checkModel) tally() tally {
	var t tally
	for _, row := range m.rows {
		switch row.state {
		case stateValid:
			t.valid++
		case stateInvalid, stateUnreadable:
			t.invalid++
		case stateCached:
			t.cached++
		}
	}
	return t
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
