package workbench

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/iw2rmb/flourish-confetti/notify"
)

type Style struct {
	Tab       lipgloss.Style
	TabActive lipgloss.Style
	TabBar    lipgloss.Style

	Pane        lipgloss.Style
	PaneFocused lipgloss.Style
	PaneTitle   lipgloss.Style

	Empty lipgloss.Style

	StatusInfo  lipgloss.Style
	StatusWarn  lipgloss.Style
	StatusError lipgloss.Style
}

func DefaultStyle() Style {
	pane := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238"))
	return Style{
		Tab:       lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("245")),
		TabActive: lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("231")).Background(lipgloss.Color("62")),
		TabBar:    lipgloss.NewStyle(),

		Pane:        pane,
		PaneFocused: pane.BorderForeground(lipgloss.Color("212")),
		PaneTitle:   lipgloss.NewStyle().Bold(true),

		Empty: lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),

		StatusInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("86")),
		StatusWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		StatusError: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}
}

func (s Style) status(level notify.Level) lipgloss.Style {
	switch level {
	case notify.LevelWarn:
		return s.StatusWarn
	case notify.LevelError:
		return s.StatusError
	}
	return s.StatusInfo
}
