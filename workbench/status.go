package workbench

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/iw2rmb/flourish-confetti/notify"
)

// statusLine is the Notifier the workbench shows at the bottom of the screen.
// It keeps only the latest message.
type statusLine struct {
	level notify.Level
	msg   string
}

var _ notify.Notifier = (*statusLine)(nil)

func (s *statusLine) Info(msg string)  { s.set(notify.LevelInfo, msg) }
func (s *statusLine) Warn(msg string)  { s.set(notify.LevelWarn, msg) }
func (s *statusLine) Error(msg string) { s.set(notify.LevelError, msg) }

func (s *statusLine) set(level notify.Level, msg string) {
	s.level = level
	s.msg = msg
}

func (s *statusLine) view(st Style, width int) string {
	line := lipgloss.NewStyle().Width(width).MaxWidth(width).MaxHeight(1)
	if s.msg == "" {
		return line.Render("")
	}
	return line.Render(st.status(s.level).Render(s.msg))
}
