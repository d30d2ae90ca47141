package editor

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/flourish-confetti/buffer"
)

// Model is a Bubble Tea component that renders and interacts with a buffer.
type Model struct {
	cfg   Config
	buf   *buffer.Buffer
	decos *decorationLayer

	focused bool

	viewport viewport.Model

	lastBufVersion uint64
	lastCursor     buffer.Pos
	lastSel        buffer.Range
	lastSelOK      bool
	lastDecoVer    uint64
}

func New(cfg Config) Model {
	if cfg.KeyMap.empty() {
		cfg.KeyMap = DefaultKeyMap()
	}
	m := Model{
		cfg:      cfg,
		buf:      buffer.New(cfg.Text, buffer.Options{HistoryLimit: cfg.HistoryLimit}),
		decos:    &decorationLayer{},
		focused:  true,
		viewport: viewport.New(0, 0),
	}
	m.lastBufVersion = m.buf.Version()
	m.lastCursor = m.buf.Cursor()
	m.rebuildContent()
	return m
}

func (m Model) Buffer() *buffer.Buffer { return m.buf }

func (m Model) DocID() string { return m.cfg.DocID }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) SetSize(width, height int) Model {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	m.viewport.Width = width
	m.viewport.Height = height

	m.rebuildContent()
	m.followCursor()
	return m
}

func (m Model) Width() int  { return m.viewport.Width }
func (m Model) Height() int { return m.viewport.Height }

func (m Model) Focus() Model {
	if !m.focused {
		m.focused = true
		m.rebuildContent()
		m.followCursor()
	}
	return m
}

func (m Model) Blur() Model {
	if m.focused {
		m.focused = false
		m.rebuildContent()
	}
	return m
}

func (m Model) Focused() bool { return m.focused }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.SetSize(msg.Width, msg.Height), nil
	case tea.MouseMsg:
		m.viewport, cmd = m.viewport.Update(msg)
		// Don't force-follow cursor here; allow manual scrolling via mouse wheel.
		m.sync(false)
		return m, cmd
	case tea.KeyMsg:
		m, cmd = m.updateKey(msg)
	}
	// Rebuild content in case the host mutated the buffer outside of the editor.
	m.sync(true)
	return m, cmd
}

// View renders the visible part of the document. Decorations set since the
// last Update are picked up here.
func (m Model) View() string {
	if m.decorationVersion() != m.lastDecoVer {
		m.lastDecoVer = m.decorationVersion()
		m.rebuildContent()
	}
	return m.viewport.View()
}

// sync notices buffer and decoration changes, re-renders, and reports them
// through OnChange.
func (m *Model) sync(follow bool) {
	if m.buf == nil {
		return
	}
	ver := m.buf.Version()
	cur := m.buf.Cursor()
	sel, selOK := m.buf.Selection()
	decoVer := m.decorationVersion()

	textChanged := ver != m.lastBufVersion
	moved := cur != m.lastCursor || sel != m.lastSel || selOK != m.lastSelOK
	if !textChanged && !moved && decoVer == m.lastDecoVer {
		return
	}
	m.lastBufVersion = ver
	m.lastCursor = cur
	m.lastSel, m.lastSelOK = sel, selOK
	m.lastDecoVer = decoVer
	m.rebuildContent()

	if !textChanged && !moved {
		return
	}
	if follow {
		m.followCursor()
	}
	if m.cfg.OnChange != nil {
		m.cfg.OnChange(buildChangeEvent(m.cfg.DocID, m.buf, textChanged))
	}
}

func (m *Model) rebuildContent() {
	m.viewport.SetContent(m.renderContent())
}

func (m *Model) followCursor() {
	if m.buf == nil {
		return
	}
	cur := m.buf.Cursor()
	h := m.viewport.Height - m.viewport.Style.GetVerticalFrameSize()
	if h <= 0 {
		return
	}

	y := m.viewport.YOffset
	if cur.Row < y {
		m.viewport.SetYOffset(cur.Row)
		return
	}
	if cur.Row >= y+h {
		m.viewport.SetYOffset(cur.Row - h + 1)
		return
	}
}
