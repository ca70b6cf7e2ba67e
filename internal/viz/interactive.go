package viz

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/odelab/internal/config"
	"github.com/san-kum/odelab/internal/solver"
)

const (
	stateMenu = iota
	stateResult
)

type solveDoneMsg struct {
	output string
}

type interactiveModel struct {
	state   int
	cursor  int
	presets []string
	running bool
	output  string
}

// NewInteractive builds the preset browser model for bubbletea.
func NewInteractive() tea.Model {
	return interactiveModel{presets: config.ListPresets()}
}

// RunInteractive starts the interactive preset browser.
func RunInteractive() error {
	_, err := tea.NewProgram(NewInteractive()).Run()
	return err
}

func (m interactiveModel) Init() tea.Cmd { return nil }

func (m interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case solveDoneMsg:
		m.running = false
		m.state = stateResult
		m.output = msg.output
		return m, nil
	}
	return m, nil
}

func (m interactiveModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.state == stateMenu && m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.state == stateMenu && m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "esc":
		if m.state == stateResult {
			m.state = stateMenu
		}
	case "enter", " ":
		if m.state == stateMenu && !m.running {
			m.running = true
			name := m.presets[m.cursor]
			return m, func() tea.Msg {
				return solveDoneMsg{output: runPreset(name)}
			}
		}
	}
	return m, nil
}

func runPreset(name string) string {
	cfg := config.GetPreset(name)
	if cfg == nil {
		return ErrorStyle.Render("unknown preset: " + name)
	}

	ctx := context.Background()
	if cfg.IsSystem() {
		sol := solver.SolveSystem(ctx, cfg.Equations, solver.SystemOptions{
			T0: cfg.T0, Y0: cfg.Y0Vec, TEnd: cfg.TEnd,
			StepSize: cfg.StepSize, Method: cfg.Method,
		})
		return PlotSystem(cfg.Equations, sol)
	}
	sol := solver.Solve(ctx, cfg.Equation, solver.Options{
		T0: cfg.T0, Y0: cfg.Y0, TEnd: cfg.TEnd,
		StepSize: cfg.StepSize, Method: cfg.Method,
	})
	return PlotSolution(cfg.Equation, sol)
}

func (m interactiveModel) View() string {
	var b strings.Builder

	switch m.state {
	case stateMenu:
		b.WriteString(TitleStyle.Render("odelab"))
		b.WriteString("  ")
		b.WriteString(SubtleStyle.Render("pick a preset"))
		b.WriteString("\n\n")
		for i, name := range m.presets {
			cursor := "  "
			line := name
			if i == m.cursor {
				cursor = "> "
				line = SelectedStyle.Render(name)
			}
			cfg := config.GetPreset(name)
			desc := cfg.Equation
			if cfg.IsSystem() {
				desc = strings.Join(cfg.Equations, ", ")
			}
			b.WriteString(fmt.Sprintf("%s%s  %s\n", cursor, line, SubtleStyle.Render(desc)))
		}
		b.WriteString("\n")
		if m.running {
			b.WriteString(SubtleStyle.Render("solving..."))
			b.WriteString("\n")
		}
		b.WriteString(KeyHintStyle.Render("j/k move · enter solve · q quit"))
	case stateResult:
		b.WriteString(m.output)
		b.WriteString("\n")
		b.WriteString(KeyHintStyle.Render("esc back · q quit"))
	}
	b.WriteString("\n")
	return b.String()
}
