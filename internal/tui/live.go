// Package tui shows a live terminal view of a running contact scene: normal
// and tangential force traces, overlap, and the stored tangential
// displacement of the tracked pair.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/granular/internal/sim"
	"github.com/san-kum/granular/internal/vec3"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	pausedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

const traceLen = 120

type model struct {
	world    *sim.World
	stepsPer int
	paused   bool
	width    int

	fnTrace      []float64
	overlapTrace []float64
}

// NewProgram wraps a world in a bubbletea program stepping stepsPerFrame
// world steps per frame.
func NewProgram(w *sim.World, stepsPerFrame int) *tea.Program {
	if stepsPerFrame < 1 {
		stepsPerFrame = 1
	}
	return tea.NewProgram(model{
		world:    w,
		stepsPer: stepsPerFrame,
		width:    80,
	})
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(33*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Init() tea.Cmd { return tick() }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "p":
			m.paused = !m.paused
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tickMsg:
		if !m.paused {
			for i := 0; i < m.stepsPer; i++ {
				m.world.Step()
			}
			m.fnTrace = push(m.fnTrace, forceMag(m.world))
			m.overlapTrace = push(m.overlapTrace, m.world.MaxOverlap())
		}
		return m, tick()
	}
	return m, nil
}

func push(trace []float64, v float64) []float64 {
	trace = append(trace, v)
	if len(trace) > traceLen {
		trace = trace[len(trace)-traceLen:]
	}
	return trace
}

func forceMag(w *sim.World) float64 {
	if len(w.Bodies) == 0 {
		return 0
	}
	return vec3.Len(w.Bodies[0].Force)
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("granular contact scene"))
	if m.paused {
		b.WriteString("  " + pausedStyle.Render("[paused]"))
	}
	b.WriteString("\n\n")

	stat := func(label string, format string, v float64) {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-12s", label)))
		b.WriteString(valueStyle.Render(fmt.Sprintf(format, v)))
		b.WriteString("\n")
	}
	stat("time", "%.4f", m.world.Time())
	stat("contacts", "%.0f", float64(m.world.Contacts()))
	stat("kinetic", "%.6g", m.world.KineticEnergy())
	stat("overlap", "%.6g", m.world.MaxOverlap())
	stat("|F(body0)|", "%.6g", forceMag(m.world))
	b.WriteString("\n")

	plotWidth := m.width - 10
	if plotWidth < 20 {
		plotWidth = 20
	}
	if len(m.fnTrace) > 1 {
		b.WriteString(asciigraph.Plot(m.fnTrace,
			asciigraph.Height(8),
			asciigraph.Width(plotWidth),
			asciigraph.Caption("force on body 0"),
		))
		b.WriteString("\n\n")
	}
	if len(m.overlapTrace) > 1 {
		b.WriteString(asciigraph.Plot(m.overlapTrace,
			asciigraph.Height(6),
			asciigraph.Width(plotWidth),
			asciigraph.Caption("max overlap"),
		))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("space pause · q quit"))
	b.WriteString("\n")
	return b.String()
}
