package extension

import (
	"bytes"
	"errors"
	"log"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/iw2rmb/flourish-confetti/buffer"
	"github.com/iw2rmb/flourish-confetti/emission"
	"github.com/iw2rmb/flourish-confetti/notify"
	"github.com/iw2rmb/flourish-confetti/panel"
	"github.com/iw2rmb/flourish-confetti/particle"
	"github.com/iw2rmb/flourish-confetti/schedule"
)

type fakeDoc struct {
	id        string
	lines     []int
	available bool
	decs      []particle.Decoration
	sets      int
}

func (d *fakeDoc) ID() string          { return d.id }
func (d *fakeDoc) Available() bool     { return d.available }
func (d *fakeDoc) LineCount() int      { return len(d.lines) }
func (d *fakeDoc) LineLen(row int) int { return d.lines[row] }
func (d *fakeDoc) SetDecorations(decs []particle.Decoration) {
	d.decs = decs
	d.sets++
}

type fakeWorkspace struct{ doc *fakeDoc }

func (w *fakeWorkspace) ActiveDocument() (Document, bool) {
	if w.doc == nil || !w.doc.available {
		return nil, false
	}
	return w.doc, true
}

type recordingPanel struct {
	kind      panel.Kind
	id        panel.ID
	msgs      []panel.Message
	reveals   int
	onDispose func()
	disposed  bool
	postErr   error
}

func (p *recordingPanel) Kind() panel.Kind { return p.kind }
func (p *recordingPanel) ID() panel.ID     { return p.id }
func (p *recordingPanel) Reveal()          { p.reveals++ }
func (p *recordingPanel) Post(msg panel.Message) error {
	p.msgs = append(p.msgs, msg)
	return p.postErr
}
func (p *recordingPanel) Dispose() {
	if p.disposed {
		return
	}
	p.disposed = true
	p.onDispose()
}

func (p *recordingPanel) count(command string) int {
	n := 0
	for _, m := range p.msgs {
		if m.Command == command {
			n++
		}
	}
	return n
}

type harness struct {
	ext    *Extension
	reg    *panel.Registry
	rec    *notify.Recorder
	sched  *schedule.Manual
	ws     *fakeWorkspace
	panels map[panel.Kind]*recordingPanel
	log    *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		rec:    &notify.Recorder{},
		sched:  schedule.NewManual(),
		ws:     &fakeWorkspace{},
		panels: make(map[panel.Kind]*recordingPanel),
		log:    &bytes.Buffer{},
	}
	h.reg = panel.NewRegistry(h.rec, nil)
	for _, kind := range []panel.Kind{panel.KindSettings, panel.KindDisplay, panel.KindPlayground} {
		h.reg.Register(kind, func(id panel.ID, onDispose func()) (panel.Panel, error) {
			p := &recordingPanel{kind: kind, id: id, onDispose: onDispose}
			h.panels[kind] = p
			return p, nil
		})
	}
	ext, err := Activate(Options{
		Registry:  h.reg,
		Notifier:  h.rec,
		Workspace: h.ws,
		Scheduler: h.sched,
		Rand:      rand.New(rand.NewPCG(9, 9)),
		Logger:    log.New(h.log, "", 0),
	})
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}
	h.ext = ext
	return h
}

func TestActivate_RequiresRegistryAndScheduler(t *testing.T) {
	if _, err := Activate(Options{Scheduler: schedule.NewManual()}); !errors.Is(err, ErrNoRegistry) {
		t.Fatalf("err=%v, want ErrNoRegistry", err)
	}
	if _, err := Activate(Options{Registry: panel.NewRegistry(nil, nil)}); !errors.Is(err, ErrNoScheduler) {
		t.Fatalf("err=%v, want ErrNoScheduler", err)
	}
}

func TestCommands_DispatchTable(t *testing.T) {
	h := newHarness(t)
	want := []string{
		CommandHelloWorld,
		CommandShowConfetti,
		CommandShowDisplay,
		CommandShowPlayground,
		CommandShowSettings,
		CommandTriggerConfetti,
	}
	slices.Sort(want)
	if got := h.ext.Commands(); !slices.Equal(got, want) {
		t.Fatalf("commands=%v, want %v", got, want)
	}
	if err := h.ext.Execute("confetti-code.nope"); !errors.Is(err, ErrUnknownCommand) {
		t.Fatalf("err=%v, want ErrUnknownCommand", err)
	}
}

func TestHelloWorld(t *testing.T) {
	h := newHarness(t)
	if err := h.ext.Execute(CommandHelloWorld); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if last, _ := h.rec.Last(); last.Level != notify.LevelInfo || last.Msg != msgHelloWorld {
		t.Fatalf("last=%v", last)
	}
}

func TestShowConfetti_NoActiveEditor(t *testing.T) {
	h := newHarness(t)
	err := h.ext.Execute(CommandShowConfetti)
	if !errors.Is(err, particle.ErrNoActiveSurface) {
		t.Fatalf("err=%v, want ErrNoActiveSurface", err)
	}
	if last, _ := h.rec.Last(); last.Level != notify.LevelInfo || last.Msg != msgNoActiveEditor {
		t.Fatalf("last=%v", last)
	}
	if h.ext.Animator().State() != particle.StateIdle || h.sched.Pending() != 0 {
		t.Fatalf("state=%v pending=%d, want idle and nothing scheduled", h.ext.Animator().State(), h.sched.Pending())
	}
}

func TestShowConfetti_AnimatesUntilParticlesLeave(t *testing.T) {
	h := newHarness(t)
	h.ws.doc = &fakeDoc{id: "a.txt", lines: []int{10, 4, 0, 7}, available: true}

	if err := h.ext.Execute(CommandShowConfetti); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if last, _ := h.rec.Last(); last.Msg != msgConfetti {
		t.Fatalf("last=%v, want %q", last, msgConfetti)
	}
	if h.ext.Animator().State() != particle.StateActive || len(h.ws.doc.decs) == 0 {
		t.Fatalf("state=%v decorations=%d after start", h.ext.Animator().State(), len(h.ws.doc.decs))
	}

	h.sched.RunUntilIdle(1000)
	if h.ext.Animator().State() != particle.StateFinished {
		t.Fatalf("state=%v, want finished", h.ext.Animator().State())
	}
	if len(h.ws.doc.decs) != 0 {
		t.Fatalf("decorations=%d, want cleared", len(h.ws.doc.decs))
	}
}

func TestShowConfetti_AbortsWhenEditorGoesAway(t *testing.T) {
	h := newHarness(t)
	doc := &fakeDoc{id: "a.txt", lines: make([]int, 50), available: true}
	h.ws.doc = doc
	if err := h.ext.Execute(CommandShowConfetti); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	sets := doc.sets

	doc.available = false
	h.sched.RunNext()
	if h.ext.Animator().State() != particle.StateFinished || h.sched.Pending() != 0 {
		t.Fatalf("state=%v pending=%d, want finished with nothing scheduled", h.ext.Animator().State(), h.sched.Pending())
	}
	if doc.sets != sets {
		t.Fatalf("surface touched after it went away")
	}
}

func TestEndToEnd_TriggerAfterDisplayClosed(t *testing.T) {
	h := newHarness(t)

	if err := h.ext.Execute(CommandShowDisplay); err != nil {
		t.Fatalf("show display: %v", err)
	}
	if got := h.reg.Count(panel.KindDisplay); got != 1 {
		t.Fatalf("display count=%d, want 1", got)
	}

	if err := h.ext.Execute(CommandTriggerConfetti); err != nil {
		t.Fatalf("trigger: %v", err)
	}
	display := h.panels[panel.KindDisplay]
	if got := display.count(panel.CommandTriggerConfetti); got != 1 {
		t.Fatalf("triggerConfetti messages=%d, want 1", got)
	}

	display.Dispose()
	if h.reg.Has(panel.KindDisplay) {
		t.Fatalf("registry still holds the closed display")
	}

	err := h.ext.Execute(CommandTriggerConfetti)
	if !errors.Is(err, panel.ErrNoOpenPanel) {
		t.Fatalf("err=%v, want ErrNoOpenPanel", err)
	}
	if h.rec.Count(notify.LevelError) != 1 {
		t.Fatalf("error messages=%d, want 1", h.rec.Count(notify.LevelError))
	}
	if got := display.count(panel.CommandTriggerConfetti); got != 1 {
		t.Fatalf("closed display received %d triggers, want 1", got)
	}
}

func TestShowDisplay_RevealsExistingAndReplaysSettingsOnce(t *testing.T) {
	h := newHarness(t)
	_ = h.ext.Execute(CommandShowDisplay)
	_ = h.ext.Execute(CommandShowDisplay)

	display := h.panels[panel.KindDisplay]
	if display.reveals != 1 {
		t.Fatalf("reveals=%d, want 1", display.reveals)
	}
	if got := display.count(panel.CommandUpdateSettings); got != 1 {
		t.Fatalf("settings replays=%d, want 1", got)
	}
	if *display.msgs[0].Settings.ParticleCount != emission.DefaultSettings().ParticleCount {
		t.Fatalf("replayed count=%d", *display.msgs[0].Settings.ParticleCount)
	}
}

func TestSettingsPanel_UpdatesReachDisplayAndSession(t *testing.T) {
	h := newHarness(t)
	_ = h.ext.Execute(CommandShowSettings)

	update := panel.UpdateSettings(emission.Partial{Colors: []string{"#111111"}})
	err := h.ext.HandlePanelMessage(panel.Envelope{From: panel.KindSettings, Msg: update})
	if !errors.Is(err, panel.ErrNoOpenPanel) {
		t.Fatalf("err=%v, want ErrNoOpenPanel without a display", err)
	}
	if got := h.ext.Settings().Colors; !slices.Equal(got, []string{"#111111"}) {
		t.Fatalf("session colors=%v, want [#111111]", got)
	}

	_ = h.ext.Execute(CommandShowDisplay)
	display := h.panels[panel.KindDisplay]
	if got := display.msgs[0].Settings.Colors; !slices.Equal(got, []string{"#111111"}) {
		t.Fatalf("replayed colors=%v, want [#111111]", got)
	}

	spread := panel.UpdateSettings(emission.Partial{Spread: emission.Ptr(120.0)})
	if err := h.ext.HandlePanelMessage(panel.Envelope{From: panel.KindSettings, Msg: spread}); err != nil {
		t.Fatalf("forward: %v", err)
	}
	last := display.msgs[len(display.msgs)-1]
	if last.Command != panel.CommandUpdateSettings || *last.Settings.Spread != 120 || last.Settings.Colors != nil {
		t.Fatalf("forwarded=%+v, want the partial unchanged", last)
	}

	if err := h.ext.HandlePanelMessage(panel.Envelope{From: panel.KindSettings, Msg: panel.TestPop()}); err != nil {
		t.Fatalf("testPop: %v", err)
	}
	if got := display.count(panel.CommandTriggerConfetti); got != 1 {
		t.Fatalf("triggers=%d, want 1", got)
	}

	if err := h.ext.HandlePanelMessage(panel.Envelope{Msg: panel.Message{Command: "explode"}}); !errors.Is(err, panel.ErrUnknownCommand) {
		t.Fatalf("err=%v, want ErrUnknownCommand", err)
	}
}

func TestDisplayUpdates_SyncSettingsPanel(t *testing.T) {
	h := newHarness(t)
	_ = h.ext.Execute(CommandShowSettings)
	_ = h.ext.Execute(CommandShowDisplay)
	display := h.panels[panel.KindDisplay]
	before := len(display.msgs)

	update := panel.UpdateSettings(emission.Partial{Angle: emission.Ptr(10.0)})
	if err := h.ext.HandlePanelMessage(panel.Envelope{From: panel.KindDisplay, Msg: update}); err != nil {
		t.Fatalf("HandlePanelMessage: %v", err)
	}
	if len(display.msgs) != before {
		t.Fatalf("display echoed its own update")
	}
	settings := h.panels[panel.KindSettings]
	if last := settings.msgs[len(settings.msgs)-1]; *last.Settings.Angle != 10 {
		t.Fatalf("settings panel update=%+v", last)
	}
}

func TestHandleDocumentChange(t *testing.T) {
	insert := func(text string) []ContentChange {
		return []ContentChange{{Range: buffer.Range{}, Text: text}}
	}
	cases := []struct {
		name    string
		display bool
		ev      DocumentChange
		want    bool
	}{
		{name: "typing", display: true, ev: DocumentChange{DocID: "a", Changes: insert("x")}, want: true},
		{name: "newline", display: true, ev: DocumentChange{DocID: "a", Changes: insert("\n")}, want: true},
		{name: "deletion", display: true, ev: DocumentChange{DocID: "a", Changes: insert("")}, want: false},
		{name: "no changes", display: true, ev: DocumentChange{DocID: "a"}, want: false},
		{name: "background document", display: true, ev: DocumentChange{DocID: "b", Changes: insert("x")}, want: false},
		{name: "no display", display: false, ev: DocumentChange{DocID: "a", Changes: insert("x")}, want: false},
		{name: "mixed", display: true, ev: DocumentChange{DocID: "a", Changes: append(insert(""), insert("y")...)}, want: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			h.ws.doc = &fakeDoc{id: "a", lines: []int{1}, available: true}
			if tc.display {
				_ = h.ext.Execute(CommandShowDisplay)
			}

			if got := h.ext.HandleDocumentChange(tc.ev); got != tc.want {
				t.Fatalf("fired=%v, want %v", got, tc.want)
			}
			if tc.display {
				want := 0
				if tc.want {
					want = 1
				}
				if got := h.panels[panel.KindDisplay].count(panel.CommandTriggerConfetti); got != want {
					t.Fatalf("triggers=%d, want %d", got, want)
				}
			}
			if h.rec.Count(notify.LevelError) != 0 {
				t.Fatalf("document edits reported %d errors", h.rec.Count(notify.LevelError))
			}
		})
	}
}

func TestDeactivate_StopsEverything(t *testing.T) {
	h := newHarness(t)
	h.ws.doc = &fakeDoc{id: "a", lines: make([]int, 30), available: true}
	_ = h.ext.Execute(CommandShowConfetti)
	_ = h.ext.Execute(CommandShowDisplay)
	_ = h.ext.Execute(CommandShowPlayground)

	h.ext.Deactivate()
	if h.sched.Pending() != 0 {
		t.Fatalf("pending=%d after deactivate", h.sched.Pending())
	}
	if h.reg.Has(panel.KindDisplay) || h.reg.Has(panel.KindPlayground) {
		t.Fatalf("panels survived deactivation")
	}
	if !h.panels[panel.KindDisplay].disposed || !h.panels[panel.KindPlayground].disposed {
		t.Fatalf("panels were not disposed")
	}
	if err := h.ext.Execute(CommandHelloWorld); !errors.Is(err, ErrInactive) {
		t.Fatalf("err=%v, want ErrInactive", err)
	}
	if h.ext.HandleDocumentChange(DocumentChange{DocID: "a", Changes: []ContentChange{{Text: "x"}}}) {
		t.Fatalf("inactive add-on fired on a document change")
	}
}

func TestShowSettings_LogsFailedReplay(t *testing.T) {
	h := newHarness(t)
	boom := errors.New("boom")
	h.reg.Register(panel.KindSettings, func(id panel.ID, onDispose func()) (panel.Panel, error) {
		p := &recordingPanel{kind: panel.KindSettings, id: id, onDispose: onDispose, postErr: boom}
		h.panels[panel.KindSettings] = p
		return p, nil
	})

	if err := h.ext.Execute(CommandShowSettings); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := h.panels[panel.KindSettings].count(panel.CommandUpdateSettings); got != 1 {
		t.Fatalf("replays=%d, want 1", got)
	}
	if !bytes.Contains(h.log.Bytes(), []byte("replaying settings to panel-1: boom")) {
		t.Fatalf("log=%q, want the replay failure", h.log.String())
	}
}
