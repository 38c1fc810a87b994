package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Background(lipgloss.Color("62"))
	negativeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	positiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
	pickerStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("62")).Padding(0, 1)
	chartStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("216"))
	axisStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func amountStyle(cents int64) lipgloss.Style {
	if cents < 0 {
		return negativeStyle
	}
	return positiveStyle
}
