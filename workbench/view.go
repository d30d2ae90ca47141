package workbench

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/iw2rmb/flourish-confetti/panel"
	"github.com/iw2rmb/flourish-confetti/webpanel"
)

const (
	minSideWidth   = 34
	minEditorWidth = 20
)

type viewer interface {
	View(width, height int) string
}

// frame is the screen split for the current size and open panels.
type frame struct {
	bodyHeight  int
	editorWidth int
	sideWidth   int
}

func (m *Model) frame() frame {
	chrome := 2 + lipgloss.Height(m.help.View(m.keys))
	f := frame{bodyHeight: max(m.height-chrome, 0), editorWidth: m.width}
	if len(m.openPanels()) == 0 {
		return f
	}
	side := max(m.width*2/5, minSideWidth)
	if m.width-side < minEditorWidth {
		side = max(m.width-minEditorWidth, 0)
	}
	f.sideWidth = side
	f.editorWidth = m.width - side
	return f
}

// layout sizes the current editor to the space left by the panels.
func (m *Model) layout() {
	d := m.current()
	if d == nil {
		return
	}
	f := m.frame()
	if d.editor.Width() != f.editorWidth || d.editor.Height() != f.bodyHeight {
		d.editor = d.editor.SetSize(f.editorWidth, f.bodyHeight)
	}
}

func (m *Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	f := m.frame()

	body := m.viewEditor(f)
	if f.sideWidth > 0 {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, m.viewSide(f))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewTabs(),
		body,
		m.status.view(m.style, m.width),
		m.help.View(m.keys),
	)
}

func (m *Model) viewTabs() string {
	if len(m.docs) == 0 {
		return m.style.TabBar.Width(m.width).Render("")
	}
	tabs := make([]string, len(m.docs))
	for i, d := range m.docs {
		st := m.style.Tab
		if i == m.active {
			st = m.style.TabActive
		}
		tabs[i] = st.Render(d.name)
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	return m.style.TabBar.Width(m.width).MaxWidth(m.width).MaxHeight(1).Render(bar)
}

func (m *Model) viewEditor(f frame) string {
	d := m.current()
	if d == nil {
		return lipgloss.Place(f.editorWidth, f.bodyHeight, lipgloss.Center, lipgloss.Center,
			m.style.Empty.Render(msgNoEditors))
	}
	return lipgloss.NewStyle().Width(f.editorWidth).Height(f.bodyHeight).
		MaxWidth(f.editorWidth).MaxHeight(f.bodyHeight).Render(d.editor.View())
}

// viewSide stacks the open panels in equal-height boxes.
func (m *Model) viewSide(f frame) string {
	panels := m.openPanels()
	each := f.bodyHeight / len(panels)
	boxes := make([]string, len(panels))
	for i, p := range panels {
		h := each
		if i == len(panels)-1 {
			h = f.bodyHeight - each*(len(panels)-1)
		}
		boxes[i] = m.viewPane(p, f.sideWidth, h)
	}
	return lipgloss.JoinVertical(lipgloss.Left, boxes...)
}

func (m *Model) viewPane(p panel.Panel, width, height int) string {
	st := m.style.Pane
	if m.focus == p.Kind() {
		st = m.style.PaneFocused
	}
	innerW := max(width-st.GetHorizontalFrameSize(), 0)
	innerH := max(height-st.GetVerticalFrameSize(), 0)
	if innerH == 0 {
		return ""
	}

	title := m.style.PaneTitle.MaxWidth(innerW).Render(p.Kind().Title())
	content := paneContent(p, innerW, max(innerH-1, 0))
	inner := lipgloss.NewStyle().Width(innerW).Height(innerH).MaxWidth(innerW).MaxHeight(innerH).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
	return st.Render(inner)
}

func paneContent(p panel.Panel, width, height int) string {
	if height <= 0 {
		return ""
	}
	switch p := p.(type) {
	case viewer:
		return p.View(width, height)
	case *webpanel.Panel:
		return strings.Join([]string{
			"Open in a browser:",
			p.URL(),
			fmt.Sprintf("%d page(s) connected", p.Clients()),
		}, "\n")
	}
	return ""
}
