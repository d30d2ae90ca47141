package workbench

import (
	"fmt"
	"io"
	"log"
	"math/rand/v2"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/flourish-confetti/display"
	"github.com/iw2rmb/flourish-confetti/editor"
	"github.com/iw2rmb/flourish-confetti/extension"
	"github.com/iw2rmb/flourish-confetti/notify"
	"github.com/iw2rmb/flourish-confetti/panel"
	"github.com/iw2rmb/flourish-confetti/particle"
	"github.com/iw2rmb/flourish-confetti/schedule"
	"github.com/iw2rmb/flourish-confetti/settingspanel"
	"github.com/iw2rmb/flourish-confetti/webpanel"
)

const (
	DisplayTerm = "term"
	DisplayWeb  = "web"

	msgWebDisplay = "Confetti display at %s"
	msgNoEditors  = "No open editors"

	eventBuffer = 16
)

// Config configures the workbench Model.
type Config struct {
	Docs []Doc

	// DisplayMode selects the display panel: DisplayTerm (default) draws in
	// the side column, DisplayWeb serves a page on WebAddr.
	DisplayMode string
	WebAddr     string

	// Notifier receives user-visible messages in addition to the status line.
	Notifier notify.Notifier
	Logger   *log.Logger

	// Seed makes the confetti reproducible; zero picks a random seed.
	Seed uint64

	ShowLineNums bool
	KeyMap       KeyMap
	// Style defaults to DefaultStyle when nil.
	Style        *Style

	// OpenURL is called with the web display address when it is revealed.
	OpenURL func(url string)
}

// envelopeMsg carries a message a browser page sent.
type envelopeMsg struct {
	env panel.Envelope
}

// Model is the workbench. It is used through a pointer so that the document
// surfaces and panel callbacks can refer back to it.
type Model struct {
	cfg    Config
	keys   KeyMap
	style  Style
	help   help.Model
	logger *log.Logger

	sched  *schedule.Tea
	reg    *panel.Registry
	ext    *extension.Extension
	status *statusLine
	events chan panel.Envelope

	docs     []*document
	active   int
	untitled int

	// focus is the panel kind receiving keys; empty means the editor.
	focus panel.Kind

	width, height int
}

var _ tea.Model = (*Model)(nil)
var _ extension.Workspace = (*Model)(nil)

// New builds the workbench and activates the confetti add-on.
func New(cfg Config) (*Model, error) {
	if cfg.DisplayMode == "" {
		cfg.DisplayMode = DisplayTerm
	}
	if cfg.DisplayMode != DisplayTerm && cfg.DisplayMode != DisplayWeb {
		return nil, fmt.Errorf("workbench: unknown display mode %q", cfg.DisplayMode)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if cfg.KeyMap.Quit.Keys() == nil {
		cfg.KeyMap = DefaultKeyMap()
	}
	style := DefaultStyle()
	if cfg.Style != nil {
		style = *cfg.Style
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	m := &Model{
		cfg:    cfg,
		keys:   cfg.KeyMap,
		style:  style,
		help:   help.New(),
		logger: logger,
		sched:  schedule.NewTea(),
		status: &statusLine{},
		active: -1,
	}

	notifiers := []notify.Notifier{m.status}
	if cfg.Notifier != nil {
		notifiers = append(notifiers, cfg.Notifier)
	}
	notifiers = append(notifiers, notify.Log(logger))
	notifier := notify.Multi(notifiers...)

	m.reg = panel.NewRegistry(notifier, logger)
	m.registerPanels(rng)

	ext, err := extension.Activate(extension.Options{
		Registry:  m.reg,
		Notifier:  notifier,
		Workspace: m,
		Scheduler: m.sched,
		Rand:      rng,
		Logger:    logger,
		Animator:  particle.AnimatorConfig{OnDone: m.animationDone},
	})
	if err != nil {
		return nil, fmt.Errorf("workbench: %w", err)
	}
	m.ext = ext

	for _, d := range cfg.Docs {
		m.openDoc(d.Name, d.Text)
	}
	return m, nil
}

func (m *Model) registerPanels(rng *rand.Rand) {
	focus := func(kind panel.Kind) func() {
		return func() { m.focusPanel(kind) }
	}

	if m.cfg.DisplayMode == DisplayWeb {
		m.events = make(chan panel.Envelope, eventBuffer)
		m.reg.Register(panel.KindDisplay, webpanel.Factory(webpanel.Options{
			Addr:     m.cfg.WebAddr,
			Rand:     rng,
			Logger:   m.logger,
			Events:   m.events,
			OnReveal: m.revealURL,
		}, func(p *webpanel.Panel) {
			m.revealURL(p.URL())
		}))
	} else {
		m.reg.Register(panel.KindDisplay, display.Factory(display.Options{
			Scheduler: m.sched,
			Rand:      rng,
			OnReveal:  focus(panel.KindDisplay),
		}, func(*display.Panel) {
			m.focusPanel(panel.KindDisplay)
		}))
	}

	m.reg.Register(panel.KindSettings, settingspanel.Factory(settingspanel.Options{
		OnReveal: focus(panel.KindSettings),
	}, func(*settingspanel.Panel) {
		m.focusPanel(panel.KindSettings)
	}))

	m.reg.Register(panel.KindPlayground, settingspanel.PlaygroundFactory(settingspanel.Options{
		OnReveal: focus(panel.KindPlayground),
	}, display.Options{
		Scheduler: m.sched,
		Rand:      rng,
	}, func(*settingspanel.Playground) {
		m.focusPanel(panel.KindPlayground)
	}))
}

// animationDone wipes the glyphs an aborted run left behind. A run aborts
// when its tab loses focus or closes; the tab may still be open.
func (m *Model) animationDone(o particle.Outcome, _ int) {
	if o != particle.OutcomeAborted {
		return
	}
	for _, d := range m.docs {
		d.editor.ClearDecorations()
	}
}

func (m *Model) revealURL(url string) {
	m.status.Info(fmt.Sprintf(msgWebDisplay, url))
	if m.cfg.OpenURL != nil {
		m.cfg.OpenURL(url)
	}
}

// Extension exposes the running add-on.
func (m *Model) Extension() *extension.Extension { return m.ext }

// Registry exposes the panel registry.
func (m *Model) Registry() *panel.Registry { return m.reg }

// Scheduler exposes the timer source the workbench flushes on every update.
func (m *Model) Scheduler() *schedule.Tea { return m.sched }

// Focus returns the panel kind that receives keys, or "" for the editor.
func (m *Model) Focus() panel.Kind { return m.focus }

// Docs lists the open document names in tab order.
func (m *Model) Docs() []string {
	names := make([]string, len(m.docs))
	for i, d := range m.docs {
		names[i] = d.name
	}
	return names
}

// ActiveDocument returns the document of the current tab.
func (m *Model) ActiveDocument() (extension.Document, bool) {
	d := m.current()
	if d == nil {
		return nil, false
	}
	return d, true
}

// Editor returns the editor of the current tab.
func (m *Model) Editor() (editor.Model, bool) {
	d := m.current()
	if d == nil {
		return editor.Model{}, false
	}
	return d.editor, true
}

func (m *Model) current() *document {
	if m.active < 0 || m.active >= len(m.docs) {
		return nil
	}
	return m.docs[m.active]
}

func (m *Model) Init() tea.Cmd {
	return m.waitForEnvelope()
}

// waitForEnvelope reads the next message a browser page sent.
func (m *Model) waitForEnvelope() tea.Cmd {
	if m.events == nil {
		return nil
	}
	ch := m.events
	return func() tea.Msg {
		return envelopeMsg{env: <-ch}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.sched.Handle(msg) {
		return m, m.sched.Flush()
	}

	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
	case panel.Envelope:
		m.routeEnvelope(msg)
	case envelopeMsg:
		m.routeEnvelope(msg.env)
		cmds = append(cmds, m.waitForEnvelope())
	case tea.KeyMsg:
		cmd, quit := m.updateKey(msg)
		if quit {
			return m, tea.Quit
		}
		cmds = append(cmds, cmd)
	case tea.MouseMsg:
		if d := m.current(); d != nil && m.focus == "" {
			var cmd tea.Cmd
			d.editor, cmd = d.editor.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.layout()
	cmds = append(cmds, m.sched.Flush())
	return m, tea.Batch(cmds...)
}

func (m *Model) routeEnvelope(env panel.Envelope) {
	if err := m.ext.HandlePanelMessage(env); err != nil {
		m.logger.Printf("panel message %s from %s: %v", env.Msg.Command, env.From, err)
	}
}

func (m *Model) updateKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if m.focus != "" && !m.reg.Has(m.focus) {
		m.focusEditor()
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.ext.Deactivate()
		return nil, true
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.HelloWorld):
		m.execute(extension.CommandHelloWorld)
	case key.Matches(msg, m.keys.ShowConfetti):
		m.execute(extension.CommandShowConfetti)
	case key.Matches(msg, m.keys.ShowSettings):
		m.execute(extension.CommandShowSettings)
	case key.Matches(msg, m.keys.ShowDisplay):
		m.execute(extension.CommandShowDisplay)
	case key.Matches(msg, m.keys.ShowPlayground):
		m.execute(extension.CommandShowPlayground)
	case key.Matches(msg, m.keys.Trigger):
		m.execute(extension.CommandTriggerConfetti)
	case key.Matches(msg, m.keys.FocusNext):
		m.focusNext()
	case key.Matches(msg, m.keys.FocusEditor):
		if m.focus == "" {
			return m.forwardToEditor(msg), false
		}
		m.focusEditor()
	case key.Matches(msg, m.keys.Close):
		m.closeFocused()
	case key.Matches(msg, m.keys.NewDoc):
		m.untitled++
		m.openDoc(fmt.Sprintf("untitled-%d", m.untitled), "")
	case key.Matches(msg, m.keys.NextDoc):
		m.switchDoc(1)
	case key.Matches(msg, m.keys.PrevDoc):
		m.switchDoc(-1)
	default:
		if m.focus != "" {
			return m.forwardToPanel(msg), false
		}
		return m.forwardToEditor(msg), false
	}
	return nil, false
}

// execute runs a command; the add-on has already told the user about failures.
func (m *Model) execute(name string) {
	if err := m.ext.Execute(name); err != nil {
		m.logger.Printf("%s: %v", name, err)
	}
}

type updater interface {
	Update(msg tea.Msg) tea.Cmd
}

func (m *Model) forwardToPanel(msg tea.Msg) tea.Cmd {
	p, ok := m.reg.Get(m.focus)
	if !ok {
		return nil
	}
	if u, ok := p.(updater); ok {
		return u.Update(msg)
	}
	return nil
}

func (m *Model) forwardToEditor(msg tea.Msg) tea.Cmd {
	d := m.current()
	if d == nil {
		return nil
	}
	var cmd tea.Cmd
	d.editor, cmd = d.editor.Update(msg)
	return cmd
}

func (m *Model) openDoc(name, text string) {
	d := &document{name: name, wb: m}
	d.editor = editor.New(editor.Config{
		Text:         text,
		DocID:        name,
		ShowLineNums: m.cfg.ShowLineNums,
		Style:        editor.DefaultStyle(),
		Clipboard:    &editor.MemClipboard{},
		OnChange:     m.onChange,
	})
	m.docs = append(m.docs, d)
	m.selectDoc(len(m.docs) - 1)
	m.logger.Printf("opened %s", name)
}

func (m *Model) onChange(ev editor.ChangeEvent) {
	if !ev.TextChanged {
		return
	}
	m.ext.HandleDocumentChange(documentChange(ev))
}

func (m *Model) selectDoc(i int) {
	if cur := m.current(); cur != nil {
		cur.editor = cur.editor.Blur()
	}
	m.active = i
	if cur := m.current(); cur != nil && m.focus == "" {
		cur.editor = cur.editor.Focus()
	}
}

func (m *Model) switchDoc(delta int) {
	n := len(m.docs)
	if n < 2 {
		return
	}
	m.selectDoc(((m.active+delta)%n + n) % n)
}

func (m *Model) closeFocused() {
	if m.focus != "" {
		kind := m.focus
		m.focusEditor()
		m.reg.Dispose(kind)
		return
	}
	d := m.current()
	if d == nil {
		return
	}
	d.closed = true
	d.editor = d.editor.Blur()
	m.docs = append(m.docs[:m.active], m.docs[m.active+1:]...)
	next := m.active
	if next >= len(m.docs) {
		next = len(m.docs) - 1
	}
	m.active = -1
	m.selectDoc(next)
	m.logger.Printf("closed %s", d.name)
}

// panelOrder is the order panels are stacked in the side column and cycled
// through by FocusNext.
var panelOrder = []panel.Kind{panel.KindSettings, panel.KindDisplay, panel.KindPlayground}

func (m *Model) openPanels() []panel.Panel {
	var out []panel.Panel
	for _, kind := range panelOrder {
		if p, ok := m.reg.Get(kind); ok {
			out = append(out, p)
		}
	}
	return out
}

// focusable reports whether keys can be sent to the panel.
func focusable(p panel.Panel) bool {
	_, ok := p.(updater)
	return ok
}

func (m *Model) focusNext() {
	ring := []panel.Kind{""}
	for _, p := range m.openPanels() {
		if focusable(p) {
			ring = append(ring, p.Kind())
		}
	}
	at := 0
	for i, k := range ring {
		if k == m.focus {
			at = i
		}
	}
	next := ring[(at+1)%len(ring)]
	if next == "" {
		m.focusEditor()
		return
	}
	m.focusPanel(next)
}

func (m *Model) focusPanel(kind panel.Kind) {
	p, ok := m.reg.Get(kind)
	if ok && !focusable(p) {
		return
	}
	m.focus = kind
	if cur := m.current(); cur != nil {
		cur.editor = cur.editor.Blur()
	}
}

func (m *Model) focusEditor() {
	m.focus = ""
	if cur := m.current(); cur != nil {
		cur.editor = cur.editor.Focus()
	}
}
