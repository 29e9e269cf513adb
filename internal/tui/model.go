// Package tui renders a live view of a phonebook file.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/phonebook/internal/record"
	"github.com/Iron-Ham/phonebook/internal/rwlock"
	"github.com/Iron-Ham/phonebook/internal/watch"
)

// chromeHeight is the number of lines View spends outside the record list:
// title, status, box borders, help.
const chromeHeight = 6

// SnapshotMsg carries a watcher snapshot into the program.
type SnapshotMsg watch.Snapshot

// Model is the bubbletea model for the watch view
type Model struct {
	path     string
	records  []record.Record
	lock     rwlock.Stats
	err      error
	updated  time.Time
	changes  int
	offset   int
	width    int
	height   int
	quitting bool
}

// NewModel creates a Model for the file at path
func NewModel(path string) Model {
	return Model{path: path}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.offset = m.clampOffset(m.offset)
		return m, nil

	case SnapshotMsg:
		m.records = msg.Records
		m.lock = msg.Lock
		m.err = msg.Err
		m.updated = msg.At
		m.changes++
		m.offset = m.clampOffset(m.offset)
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "j", "down":
		m.offset = m.clampOffset(m.offset + 1)
	case "k", "up":
		m.offset = m.clampOffset(m.offset - 1)
	case "g", "home":
		m.offset = 0
	case "G", "end":
		m.offset = m.clampOffset(len(m.records))
	}
	return m, nil
}

// visibleRows is how many records fit; zero height means unbounded.
func (m Model) visibleRows() int {
	if m.height <= 0 {
		return len(m.records)
	}
	return max(m.height-chromeHeight, 1)
}

func (m Model) clampOffset(off int) int {
	maxOff := max(len(m.records)-m.visibleRows(), 0)
	return min(max(off, 0), maxOff)
}

// View implements tea.Model
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(Title.Render("Phonebook"))
	b.WriteString("  ")
	b.WriteString(Subtitle.Render(m.path))
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")

	b.WriteString(ContentBox.Render(m.renderRecords()))
	b.WriteString("\n")
	b.WriteString(Muted.Render("q quit  ↑/↓ scroll  g/G top/bottom"))

	return b.String()
}

func (m Model) renderStatus() string {
	state := m.lock.State()
	badge := StatusBadge.Background(LockColor(state)).Render(state.String())

	parts := []string{
		badge,
		fmt.Sprintf("%d records", len(m.records)),
	}
	if !m.updated.IsZero() {
		parts = append(parts, "updated "+m.updated.Format("15:04:05"))
	}
	status := strings.Join(parts, Muted.Render(" · "))

	if m.err != nil {
		status += "\n" + Error.Render("error: "+m.err.Error())
	}
	return status
}

func (m Model) renderRecords() string {
	if len(m.records) == 0 {
		return Muted.Render("(no records)")
	}

	nameWidth := 0
	for _, r := range m.records {
		nameWidth = max(nameWidth, lipgloss.Width(r.Name))
	}

	end := min(m.offset+m.visibleRows(), len(m.records))
	lines := make([]string, 0, end-m.offset)
	for _, r := range m.records[m.offset:end] {
		name := r.Name + strings.Repeat(" ", nameWidth-lipgloss.Width(r.Name))
		lines = append(lines, NameStyle.Render(name)+Muted.Render(record.Delimiter)+PhoneStyle.Render(r.Phone))
	}
	return strings.Join(lines, "\n")
}
