package settingspanel

import "github.com/charmbracelet/lipgloss"

// Style controls how the form is drawn.
type Style struct {
	Label        lipgloss.Style
	LabelFocused lipgloss.Style
	Value        lipgloss.Style
	Cell         lipgloss.Style
	CellCursor   lipgloss.Style
	Button       lipgloss.Style
	ButtonActive lipgloss.Style
	Error        lipgloss.Style
	Help         lipgloss.Style
}

func DefaultStyle() Style {
	return Style{
		Label:        lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(labelWidth),
		LabelFocused: lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true).Width(labelWidth),
		Value:        lipgloss.NewStyle(),
		Cell:         lipgloss.NewStyle(),
		CellCursor:   lipgloss.NewStyle().Reverse(true),
		Button:       lipgloss.NewStyle().Padding(0, 2).Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")),
		ButtonActive: lipgloss.NewStyle().Padding(0, 2).Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("212")).Bold(true),
		Error:        lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Help:         lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}
