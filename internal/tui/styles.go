package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/numfmt/internal/ui"
)

// Styles of the interactive converter, rebuilt from the ui theme by
// initTUIStyles.
var (
	headerStyle  lipgloss.Style
	titleStyle   lipgloss.Style
	dimStyle     lipgloss.Style
	inputStyle   lipgloss.Style
	opStyle      lipgloss.Style
	resultStyle  lipgloss.Style
	errorStyle   lipgloss.Style
	historyStyle lipgloss.Style
)

func init() {
	initTUIStyles()
}

// initTUIStyles rebuilds all styles from the current ui theme. Run calls it
// again after the theme has been initialized from the configuration.
func initTUIStyles() {
	t := ui.GetCurrentTUITheme()

	headerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent).
		Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent)

	dimStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	inputStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)

	opStyle = lipgloss.NewStyle().
		Foreground(t.Accent).
		Width(20)

	resultStyle = lipgloss.NewStyle().
		Foreground(t.Success)

	errorStyle = lipgloss.NewStyle().
		Foreground(t.Error)

	historyStyle = lipgloss.NewStyle().
		Foreground(t.Text).
		Bold(true)
}
