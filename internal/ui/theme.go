package ui

import "github.com/charmbracelet/lipgloss"

var (
	hnOrange = lipgloss.Color("#FF6600")

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(hnOrange).
			Padding(1, 2)

	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Padding(0, 2)

	helpBodyStyle = lipgloss.NewStyle().Padding(0, 2)
)
