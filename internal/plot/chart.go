package plot

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

type keyMap struct {
	Quit key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// Chart is an interactive, scrollable view of an amplitude bar chart.
type Chart struct {
	labels   []string
	values   []float64
	viewport viewport.Model
	ready    bool
}

// NewChart returns a chart over the given states and amplitudes.
func NewChart(labels []string, values []float64) Chart {
	return Chart{labels: labels, values: values}
}

func (m Chart) Init() tea.Cmd {
	return nil
}

func (m Chart) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		height := max(msg.Height-footerLines, 1)
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
		m.viewport.SetContent(Render(m.labels, m.values, msg.Width))
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			return m, tea.Quit
		}
	}

	if !m.ready {
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Chart) View() string {
	if !m.ready {
		return "Initializing..."
	}
	return m.viewport.View() + "\n" + dimStyle.Render(" ↑↓ Scroll  PgUp/PgDn Page  q Quit")
}
