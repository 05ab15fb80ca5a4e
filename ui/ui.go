// Package ui renders the cue display as a full screen terminal program.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/RockBacon9922/theatremix-remote-display/cue"
	"github.com/RockBacon9922/theatremix-remote-display/receiver"
)

// refreshInterval is how often the view polls the shared state.
const refreshInterval = 100 * time.Millisecond

// placeholder stands in for fields no cue has filled yet.
const placeholder = "—"

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Padding(0, 1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	cueStyle    = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).MarginTop(1)
)

// StatsSource reports ingest counters for the status line. Both receiver
// flavors satisfy it.
type StatsSource interface {
	Stats() receiver.Stats
}

// Model is the bubbletea model for the display. Construct it with New.
type Model struct {
	state *cue.State
	stats StatsSource
	port  int

	snapshot  cue.DisplayState
	counters  receiver.Stats
	showStats bool
	width     int
	height    int
}

// New returns a model reading from state. src may be nil, the status line
// then omits the counters.
func New(state *cue.State, src StatsSource, port int) Model {
	return Model{state: state, stats: src, port: port}
}

type tickMsg time.Time

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tickCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "s":
			m.showStats = !m.showStats
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		m.snapshot = m.state.Snapshot()
		if m.stats != nil {
			m.counters = m.stats.Stats()
		}
		return m, m.tickCmd()
	}
	return m, nil
}

func (m Model) View() string {
	snap := m.snapshot

	var b strings.Builder
	b.WriteString(titleStyle.Render("TheatreMix"))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Current Cue"))
	b.WriteString("\n")

	style := cueStyle
	if !snap.Color.IsZero() {
		style = style.Foreground(lipgloss.Color(snap.Color.Hex()))
	}
	cueLine := style.Render("Cue " + orPlaceholder(snap.Cue))
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cueLine, "  ", orPlaceholder(snap.Description)))
	b.WriteString("\n\n")

	b.WriteString(m.colorLine(snap.Color))
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("q quit  s stats"))

	if m.width > 0 {
		return lipgloss.NewStyle().MaxWidth(m.width).Render(b.String())
	}
	return b.String()
}

func (m Model) colorLine(c cue.Color) string {
	if c.IsZero() {
		return mutedStyle.Render("Color: " + placeholder)
	}
	swatch := lipgloss.NewStyle().Background(lipgloss.Color(c.Hex())).Render("  ")
	return mutedStyle.Render("Color: ") + swatch + mutedStyle.Render(" "+c.Hex())
}

func (m Model) statusLine() string {
	if m.stats == nil {
		return statusStyle.Render(fmt.Sprintf("Port: %d", m.port))
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("Port: %d", m.port))

	if m.counters.LastPacket.IsZero() {
		parts = append(parts, "Last OSC: n/a")
	} else {
		age := time.Since(m.counters.LastPacket).Seconds()
		parts = append(parts, fmt.Sprintf("Last OSC: %.1fs ago", age))
	}

	if m.showStats {
		s := m.counters
		parts = append(parts, fmt.Sprintf("rx %d applied %d malformed %d unsupported %d ignored %d",
			s.Received, s.Applied, s.Malformed, s.Unsupported, s.Ignored))
	}

	return statusStyle.Render(strings.Join(parts, "  |  "))
}

func orPlaceholder(s string) string {
	if s == "" {
		return placeholder
	}
	return s
}
