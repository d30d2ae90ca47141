package display

import (
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/iw2rmb/flourish-confetti/emission"
	"github.com/iw2rmb/flourish-confetti/panel"
	"github.com/iw2rmb/flourish-confetti/schedule"
)

func newTestPanel(t *testing.T) (*Panel, *schedule.Manual, *int) {
	t.Helper()
	sched := schedule.NewManual()
	disposed := 0
	p := New(1, func() { disposed++ }, Options{
		Scheduler: sched,
		Rand:      rand.New(rand.NewPCG(7, 7)),
	})
	return p, sched, &disposed
}

func TestPost_UpdateSettingsMerges(t *testing.T) {
	p, _, _ := newTestPanel(t)
	if err := p.Post(panel.UpdateSettings(emission.Partial{Spread: emission.Ptr(120.0)})); err != nil {
		t.Fatalf("Post: %v", err)
	}
	got := p.Settings()
	if got.Spread != 120 {
		t.Fatalf("spread=%v, want 120", got.Spread)
	}
	if got.ParticleCount != emission.DefaultSettings().ParticleCount {
		t.Fatalf("count=%d, want default", got.ParticleCount)
	}
}

func TestPost_TriggerRunsUntilEveryBurstEnds(t *testing.T) {
	p, sched, _ := newTestPanel(t)
	if err := p.Post(panel.Trigger()); err != nil {
		t.Fatalf("Post: %v", err)
	}
	if p.Pops() != 1 || p.Live() != 100 || !p.Animating() {
		t.Fatalf("pops=%d live=%d animating=%v, want 1/100/true", p.Pops(), p.Live(), p.Animating())
	}
	if err := p.Post(panel.TestPop()); err != nil {
		t.Fatalf("Post: %v", err)
	}
	if sched.Pending() != 1 {
		t.Fatalf("pending=%d, want a single shared loop", sched.Pending())
	}

	n := sched.RunUntilIdle(10_000)
	if n == 0 || n > emission.DefaultSettings().Ticks {
		t.Fatalf("ran %d ticks, want 1..%d", n, emission.DefaultSettings().Ticks)
	}
	if p.Live() != 0 || p.Animating() {
		t.Fatalf("live=%d animating=%v after idle", p.Live(), p.Animating())
	}
}

func TestPop_ZeroCountSchedulesNothing(t *testing.T) {
	p, sched, _ := newTestPanel(t)
	_ = p.Post(panel.UpdateSettings(emission.Partial{ParticleCount: emission.Ptr(0)}))
	ev := p.Pop()
	if ev.ParticleCount != 0 {
		t.Fatalf("count=%d, want 0", ev.ParticleCount)
	}
	if sched.Pending() != 0 {
		t.Fatalf("pending=%d, want 0", sched.Pending())
	}
}

func TestPop_ReportsEvent(t *testing.T) {
	var seen []emission.Event
	p := New(1, nil, Options{
		Scheduler: schedule.NewManual(),
		Rand:      rand.New(rand.NewPCG(1, 2)),
		Settings:  &emission.Settings{ParticleCount: 3, Origins: []string{emission.OriginTopLeft}, Decay: 0.9, Ticks: 5},
		OnPop:     func(ev emission.Event) { seen = append(seen, ev) },
	})
	p.Pop()
	if len(seen) != 1 {
		t.Fatalf("events=%d, want 1", len(seen))
	}
	if seen[0].OriginName != emission.OriginTopLeft {
		t.Fatalf("origin=%q, want %q", seen[0].OriginName, emission.OriginTopLeft)
	}
}

func TestDispose_CancelsLoopAndReportsOnce(t *testing.T) {
	p, sched, disposed := newTestPanel(t)
	p.Pop()
	p.Dispose()
	p.Dispose()
	if *disposed != 1 {
		t.Fatalf("onDispose called %d times, want 1", *disposed)
	}
	if sched.Pending() != 0 {
		t.Fatalf("pending=%d, want 0", sched.Pending())
	}
	if err := p.Post(panel.Trigger()); !errors.Is(err, panel.ErrAlreadyDisposed) {
		t.Fatalf("err=%v, want ErrAlreadyDisposed", err)
	}
}

func TestPost_UnknownCommand(t *testing.T) {
	p, _, _ := newTestPanel(t)
	if err := p.Post(panel.Message{Command: "explode"}); !errors.Is(err, panel.ErrUnsupported) {
		t.Fatalf("err=%v, want ErrUnsupported", err)
	}
}

func TestReveal_CallsHook(t *testing.T) {
	revealed := 0
	p := New(1, nil, Options{Scheduler: schedule.NewManual(), OnReveal: func() { revealed++ }})
	p.Reveal()
	if revealed != 1 {
		t.Fatalf("revealed=%d, want 1", revealed)
	}
}

func TestFactory_HandsOutPanels(t *testing.T) {
	var got *Panel
	f := Factory(Options{Scheduler: schedule.NewManual()}, func(p *Panel) { got = p })
	p, err := f(9, func() {})
	if err != nil {
		t.Fatalf("factory: %v", err)
	}
	if got == nil || p.ID() != 9 || p.Kind() != panel.KindDisplay {
		t.Fatalf("factory produced %v (%v), opened=%v", p.ID(), p.Kind(), got != nil)
	}
}

func TestView_Dimensions(t *testing.T) {
	p, _, _ := newTestPanel(t)
	if v := p.View(0, 3); v != "" {
		t.Fatalf("View(0,3)=%q, want empty", v)
	}
	empty := p.View(4, 2)
	if empty != "    \n    " {
		t.Fatalf("empty view=%q", empty)
	}

	p.Pop()
	view := p.View(20, 6)
	lines := strings.Split(view, "\n")
	if len(lines) != 6 {
		t.Fatalf("lines=%d, want 6", len(lines))
	}
	for i, l := range lines {
		if w := lipgloss.Width(l); w != 20 {
			t.Fatalf("line %d width=%d, want 20", i, w)
		}
	}
}

func TestFadeColor(t *testing.T) {
	if got := fadeColor("#ff0000", 0); got != "#ff0000" {
		t.Fatalf("fade 0=%q, want #ff0000", got)
	}
	if got := fadeColor("#ff0000", 1); got != "#000000" {
		t.Fatalf("fade 1=%q, want #000000", got)
	}
	if got := fadeColor("nope", 0.5); got != "nope" {
		t.Fatalf("invalid colour=%q, want passthrough", got)
	}
}

func TestUpdate_PopKeyAsksHost(t *testing.T) {
	p, _, _ := newTestPanel(t)
	cmd := p.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if cmd == nil {
		t.Fatalf("expected a command")
	}
	env := cmd().(panel.Envelope)
	if env.From != panel.KindDisplay || env.Msg.Command != panel.CommandTestPop {
		t.Fatalf("envelope=%+v", env)
	}
	if p.Pops() != 0 {
		t.Fatalf("pops=%d, the host decides when to pop", p.Pops())
	}
	if cmd := p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")}); cmd != nil {
		t.Fatalf("unrelated key produced a command")
	}
}
