package schedule

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// FireMsg is delivered by the Bubble Tea runtime when a Tea timer elapses.
type FireMsg struct {
	ID  uint64
	src *Tea
}

// Tea schedules callbacks as tea.Tick commands.
//
// After only records the command; the host must return Flush from its Update
// so the runtime starts the timer, and must pass every message to Handle.
type Tea struct {
	seq     uint64
	pending map[uint64]func()
	queued  []tea.Cmd
}

func NewTea() *Tea {
	return &Tea{pending: make(map[uint64]func())}
}

func (s *Tea) After(d time.Duration, fn func()) func() {
	s.seq++
	id := s.seq
	s.pending[id] = fn
	s.queued = append(s.queued, tea.Tick(d, func(time.Time) tea.Msg {
		return FireMsg{ID: id, src: s}
	}))
	return func() { delete(s.pending, id) }
}

// Handle runs the callback for msg if it is one of this scheduler's timers.
// It reports whether msg was consumed.
func (s *Tea) Handle(msg tea.Msg) bool {
	fm, ok := msg.(FireMsg)
	if !ok || fm.src != s {
		return false
	}
	if fn, ok := s.pending[fm.ID]; ok {
		delete(s.pending, fm.ID)
		fn()
	}
	return true
}

// Flush returns the timers scheduled since the last call as one command.
func (s *Tea) Flush() tea.Cmd {
	if len(s.queued) == 0 {
		return nil
	}
	cmds := s.queued
	s.queued = nil
	return tea.Batch(cmds...)
}

// Pending reports the number of timers whose callbacks have not run.
func (s *Tea) Pending() int { return len(s.pending) }
