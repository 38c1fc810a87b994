package shell

import "github.com/charmbracelet/lipgloss"

var (
	navBarStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(lipgloss.Color("240"))
	brandStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213")).Padding(0, 2, 0, 1)
	tabStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Padding(0, 1)
	activeTabStyle = tabStyle.Bold(true).Underline(true).Foreground(lipgloss.Color("231")).Background(lipgloss.Color("62"))
	headingStyle   = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	containerStyle = lipgloss.NewStyle().Padding(0, 1)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)
