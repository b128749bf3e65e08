// Package tui renders the optional day-stepping progress display for long
// simulations.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DayMsg reports simulation progress in completed days.
type DayMsg struct {
	Done  int
	Total int
}

// DoneMsg tells the display the run has finished.
type DoneMsg struct{}

var labelStyle = lipgloss.NewStyle().Bold(true)
var countStyle = lipgloss.NewStyle().Faint(true)

// ProgressModel is a bubbletea model showing a single progress bar over the
// simulated date range.
type ProgressModel struct {
	bar      progress.Model
	done     int
	total    int
	finished bool
}

// NewProgressModel builds the display for a run of total days.
func NewProgressModel(total int) ProgressModel {
	return ProgressModel{
		bar:   progress.New(progress.WithDefaultGradient()),
		total: total,
	}
}

func (m ProgressModel) Init() tea.Cmd {
	return nil
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		width := msg.Width - 20
		if width > 60 {
			width = 60
		}
		if width > 0 {
			m.bar.Width = width
		}
		return m, nil

	case DayMsg:
		m.done = msg.Done
		m.total = msg.Total
		if m.total == 0 {
			return m, nil
		}
		return m, m.bar.SetPercent(float64(m.done) / float64(m.total))

	case DoneMsg:
		m.finished = true
		return m, tea.Quit

	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m ProgressModel) View() string {
	if m.finished {
		return ""
	}
	label := labelStyle.Render("Simulating")
	count := countStyle.Render(fmt.Sprintf("%d/%d days", m.done, m.total))
	return fmt.Sprintf("\n  %s %s %s\n", label, m.bar.View(), count)
}
