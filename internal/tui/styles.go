package tui

import "github.com/charmbracelet/lipgloss"

var (
	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(lipgloss.Color("236")).
			Padding(0, 1).
			Bold(true)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 1)

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	dateStyle = lipgloss.NewStyle().Bold(true)

	dangerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)
