package report

import "github.com/charmbracelet/lipgloss"

var (
	positiveColor = lipgloss.Color("#34D399")
	negativeColor = lipgloss.Color("#F87171")
	accentColor   = lipgloss.Color("#60A5FA")
	subtleColor   = lipgloss.Color("#6B7280")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			MarginTop(1)

	subtleStyle = lipgloss.NewStyle().
			Foreground(subtleColor)

	positiveStyle = lipgloss.NewStyle().Foreground(positiveColor)
	negativeStyle = lipgloss.NewStyle().Foreground(negativeColor)

	kpiBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(subtleColor).
			Padding(0, 1).
			MarginRight(1).
			Width(20)

	kpiLabelStyle = lipgloss.NewStyle().Foreground(subtleColor)
	kpiValueStyle = lipgloss.NewStyle().Bold(true)
)
