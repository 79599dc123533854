// Package live renders an interactive terminal view of a propagation in
// flight: elapsed time, step sizes, and local error estimates per accepted
// step.
package live

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/expmv/internal/krylov"
)

const (
	barWidth        = 40
	historyCapacity = 512
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	barStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("49"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type stepMsg krylov.Step

type doneMsg struct {
	err error
}

// Model is the bubbletea model for one propagation.
type Model struct {
	tf    float64
	steps []krylov.Step
	done  bool
	err   error
}

func newModel(tf float64) Model {
	return Model{
		tf:    tf,
		steps: make([]krylov.Step, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	case stepMsg:
		if len(m.steps) == historyCapacity {
			copy(m.steps, m.steps[1:])
			m.steps = m.steps[:historyCapacity-1]
		}
		m.steps = append(m.steps, krylov.Step(msg))
	case doneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("expmv — Krylov propagation"))
	b.WriteString("\n")

	tk := 0.0
	if len(m.steps) > 0 {
		tk = m.steps[len(m.steps)-1].Time
	}
	frac := 0.0
	if m.tf > 0 {
		frac = math.Min(tk/m.tf, 1)
	}
	filled := int(frac * barWidth)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	b.WriteString(barStyle.Render(bar))
	b.WriteString(fmt.Sprintf(" %5.1f%%\n\n", frac*100))

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(valueStyle.Render(value))
		b.WriteString("\n")
	}
	row("time", fmt.Sprintf("%.6g / %.6g", tk, m.tf))
	row("steps", fmt.Sprintf("%d", len(m.steps)))
	if len(m.steps) > 0 {
		last := m.steps[len(m.steps)-1]
		row("tau", fmt.Sprintf("%.3e", last.Tau))
		row("local err", fmt.Sprintf("%.3e", last.Err))
		row("basis", fmt.Sprintf("%d", last.BasisSize))
		row("|w|", fmt.Sprintf("%.6g", last.Norm))
	}

	if len(m.steps) >= 2 {
		taus := make([]float64, len(m.steps))
		for i, s := range m.steps {
			taus[i] = s.Tau
		}
		graph := asciigraph.Plot(taus,
			asciigraph.Height(6),
			asciigraph.Width(60),
			asciigraph.Caption("accepted step size"),
		)
		b.WriteString(graphStyle.Render(graph))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("error: %v", m.err)))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("q: quit"))
	b.WriteString("\n")
	return b.String()
}

type sender struct {
	p *tea.Program
}

func (s sender) OnStep(step krylov.Step) {
	s.p.Send(stepMsg(step))
}

// Run propagates e^(tA)v with a live terminal view and returns the result
// once the propagation (and the view) have finished.
func Run(t float64, a krylov.Operator, v []float64, o *krylov.Options) ([]float64, krylov.Stats, error) {
	opts := krylov.Options{}
	if o != nil {
		opts = *o
	}

	p := tea.NewProgram(newModel(math.Abs(t)))
	opts.Observer = sender{p: p}

	w := make([]float64, len(v))
	var stats krylov.Stats
	var perr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		stats, perr = krylov.ExpmvTo(w, t, a, v, &opts)
		p.Send(doneMsg{err: perr})
	}()

	if _, err := p.Run(); err != nil {
		<-done
		return nil, stats, err
	}
	<-done
	if perr != nil {
		return nil, stats, perr
	}
	return w, stats, nil
}
