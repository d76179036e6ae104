package prompt

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	questionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "63", Dark: "205"})

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "250"})

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "9"}).
			Bold(true)
)

func (m model) View() string {
	if m.outcome != outcomePending {
		return ""
	}

	s := questionStyle.Render("? "+m.message) + "\n" + m.input.View() + "\n"
	if m.errorMsg != "" {
		s += errorStyle.Render(m.errorMsg) + "\n"
	}
	return s + helpStyle.Render("enter submit • esc skip • ctrl+c abort") + "\n"
}
