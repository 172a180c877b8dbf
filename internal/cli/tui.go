package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// demoListModel is the bubbletea model for interactive demo selection.
type demoListModel struct {
	Demos    []demo
	Cursor   int
	Selected *demo
}

// newDemoListModel creates a new demo list model.
func newDemoListModel(demos []demo) demoListModel {
	return demoListModel{Demos: demos}
}

func (m demoListModel) Init() tea.Cmd {
	return nil
}

func (m demoListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Demos)-1 {
				m.Cursor++
			}
		case "enter":
			m.Selected = &m.Demos[m.Cursor]
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m demoListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Demo"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	for i, d := range m.Demos {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		line := fmt.Sprintf("%s%-8s  %s", cursor, d.name, listDimStyle.Render(d.description))
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Demos))))

	return b.String()
}
