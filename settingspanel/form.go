package settingspanel

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/iw2rmb/flourish-confetti/emission"
	"github.com/iw2rmb/flourish-confetti/panel"
	"github.com/iw2rmb/flourish-confetti/particle"
)

const labelWidth = 11

type field int

const (
	fieldCount field = iota
	fieldSpread
	fieldAngle
	fieldOrigins
	fieldColors
	fieldShapes
	fieldPop
	fieldLen
)

// Step sizes for the numeric fields.
const (
	countStep  = 10
	spreadStep = 10
	angleStep  = 15
)

// Sender delivers a message produced by the form. It may return a command
// for the host loop.
type Sender func(msg panel.Message) tea.Cmd

// Form edits emission settings. Every change is sent as an updateSettings
// message carrying only the field that changed; the Pop button sends testPop.
type Form struct {
	settings emission.Settings
	send     Sender

	keys  KeyMap
	style Style

	focus        field
	originCursor int
	shapeCursor  int
	colors       textinput.Model
	colorErr     string
}

func NewForm(s emission.Settings, send Sender) Form {
	if send == nil {
		send = func(panel.Message) tea.Cmd { return nil }
	}
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "#ff0000, #00ff00"
	ti.CharLimit = 256
	ti.Width = 28
	f := Form{
		settings: s.Clone(),
		send:     send,
		keys:     DefaultKeyMap(),
		style:    DefaultStyle(),
		colors:   ti,
	}
	f.resetColorInput()
	return f
}

func (f Form) WithKeyMap(km KeyMap) Form {
	if !km.empty() {
		f.keys = km
	}
	return f
}

func (f Form) WithStyle(st Style) Form {
	f.style = st
	return f
}

// Settings returns a copy of the settings the form shows.
func (f Form) Settings() emission.Settings { return f.settings.Clone() }

// Apply merges a settings update received from elsewhere.
func (f Form) Apply(p emission.Partial) Form {
	f.settings = emission.Merge(f.settings, p)
	if p.Colors != nil {
		f.resetColorInput()
	}
	return f
}

func (f *Form) resetColorInput() {
	f.colors.SetValue(strings.Join(f.settings.Colors, ", "))
	f.colorErr = ""
}

func (f Form) Update(msg tea.Msg) (Form, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		if f.focus == fieldColors {
			var cmd tea.Cmd
			f.colors, cmd = f.colors.Update(msg)
			return f, cmd
		}
		return f, nil
	}

	switch {
	case key.Matches(km, f.keys.Next):
		return f.setFocus((f.focus + 1) % fieldLen)
	case key.Matches(km, f.keys.Prev):
		return f.setFocus((f.focus + fieldLen - 1) % fieldLen)
	}

	switch f.focus {
	case fieldCount:
		return f.step(km, func(dir int) emission.Partial {
			v := int(emission.ParticleCountInput.Clamp(float64(f.settings.ParticleCount + dir*countStep)))
			return emission.Partial{ParticleCount: &v}
		})
	case fieldSpread:
		return f.step(km, func(dir int) emission.Partial {
			v := emission.SpreadInput.Clamp(f.settings.Spread + float64(dir*spreadStep))
			return emission.Partial{Spread: &v}
		})
	case fieldAngle:
		return f.step(km, func(dir int) emission.Partial {
			v := emission.AngleInput.Clamp(f.settings.Angle + float64(dir*angleStep))
			return emission.Partial{Angle: &v}
		})
	case fieldOrigins:
		return f.updateOrigins(km)
	case fieldColors:
		return f.updateColors(km)
	case fieldShapes:
		return f.updateShapes(km)
	case fieldPop:
		if key.Matches(km, f.keys.Toggle) {
			return f, f.send(panel.TestPop())
		}
	}
	return f, nil
}

func (f Form) setFocus(next field) (Form, tea.Cmd) {
	var cmd tea.Cmd
	if f.focus == fieldColors && next != fieldColors {
		f.colors.Blur()
	}
	if next == fieldColors {
		cmd = f.colors.Focus()
	}
	f.focus = next
	return f, cmd
}

func (f Form) step(km tea.KeyMsg, partial func(dir int) emission.Partial) (Form, tea.Cmd) {
	dir := 0
	switch {
	case key.Matches(km, f.keys.Dec):
		dir = -1
	case key.Matches(km, f.keys.Inc):
		dir = 1
	default:
		return f, nil
	}
	return f.change(partial(dir))
}

func (f Form) change(p emission.Partial) (Form, tea.Cmd) {
	next := emission.Merge(f.settings, p)
	if equalSettings(next, f.settings) {
		return f, nil
	}
	f.settings = next
	return f, f.send(panel.UpdateSettings(p))
}

func (f Form) updateOrigins(km tea.KeyMsg) (Form, tea.Cmd) {
	n := len(emission.Origins())
	switch {
	case key.Matches(km, f.keys.Dec):
		f.originCursor = (f.originCursor + n - 1) % n
	case key.Matches(km, f.keys.Inc):
		f.originCursor = (f.originCursor + 1) % n
	case key.Matches(km, f.keys.Toggle):
		name := emission.Origins()[f.originCursor].Name
		return f.change(emission.Partial{Origins: toggle(f.settings.Origins, name)})
	}
	return f, nil
}

func (f Form) updateShapes(km tea.KeyMsg) (Form, tea.Cmd) {
	n := len(particle.Shapes)
	switch {
	case key.Matches(km, f.keys.Dec):
		f.shapeCursor = (f.shapeCursor + n - 1) % n
	case key.Matches(km, f.keys.Inc):
		f.shapeCursor = (f.shapeCursor + 1) % n
	case key.Matches(km, f.keys.Toggle):
		return f.change(emission.Partial{Shapes: toggle(f.settings.Shapes, particle.Shapes[f.shapeCursor])})
	}
	return f, nil
}

func (f Form) updateColors(km tea.KeyMsg) (Form, tea.Cmd) {
	if !key.Matches(km, f.keys.Apply) {
		var cmd tea.Cmd
		f.colors, cmd = f.colors.Update(km)
		return f, cmd
	}
	colors, bad := parseColors(f.colors.Value())
	if len(bad) > 0 {
		f.colorErr = fmt.Sprintf("not a colour: %s", strings.Join(bad, ", "))
		return f, nil
	}
	if len(colors) == 0 {
		f.colorErr = "enter at least one colour"
		return f, nil
	}
	f.colorErr = ""
	f, cmd := f.change(emission.Partial{Colors: colors})
	f.resetColorInput()
	return f, cmd
}

// parseColors splits a comma or space separated colour list. Valid entries
// come back normalized; the rest are reported as bad.
func parseColors(s string) (colors, bad []string) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == ';' })
	colors = []string{}
	for _, c := range fields {
		norm := emission.NormalizeColors([]string{c})
		if len(norm) == 0 {
			bad = append(bad, c)
			continue
		}
		colors = append(colors, norm[0])
	}
	return colors, bad
}

func toggle[T comparable](list []T, v T) []T {
	if i := slices.Index(list, v); i >= 0 {
		return slices.Delete(slices.Clone(list), i, i+1)
	}
	return append(slices.Clone(list), v)
}

func equalSettings(a, b emission.Settings) bool {
	return a.ParticleCount == b.ParticleCount && a.Spread == b.Spread && a.Angle == b.Angle &&
		slices.Equal(a.Origins, b.Origins) && slices.Equal(a.Colors, b.Colors) && slices.Equal(a.Shapes, b.Shapes) &&
		a.StartVelocity == b.StartVelocity && a.Decay == b.Decay && a.Gravity == b.Gravity && a.Ticks == b.Ticks
}

// View draws the form. width bounds the help line only.
func (f Form) View(width int) string {
	st := f.style
	label := func(fl field, text string) string {
		if f.focus == fl {
			return st.LabelFocused.Render(text)
		}
		return st.Label.Render(text)
	}
	number := func(fl field, v string) string {
		if f.focus == fl {
			return st.Value.Render("◀ " + v + " ▶")
		}
		return st.Value.Render("  " + v)
	}

	var rows []string
	rows = append(rows,
		label(fieldCount, "Particles")+number(fieldCount, fmt.Sprintf("%d", f.settings.ParticleCount)),
		label(fieldSpread, "Spread")+number(fieldSpread, fmt.Sprintf("%.0f°", f.settings.Spread)),
		label(fieldAngle, "Angle")+number(fieldAngle, fmt.Sprintf("%.0f°", f.settings.Angle)),
	)

	grid := f.originGrid()
	for i, line := range grid {
		l := st.Label.Render("")
		if i == 0 {
			l = label(fieldOrigins, "Origins")
		}
		rows = append(rows, l+line)
	}

	swatches := make([]string, 0, len(f.settings.Colors))
	for _, c := range f.settings.Colors {
		swatches = append(swatches, lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render("■"))
	}
	rows = append(rows,
		label(fieldColors, "Colors")+f.colors.View(),
		st.Label.Render("")+strings.Join(swatches, " "),
	)
	if f.colorErr != "" {
		rows = append(rows, st.Label.Render("")+st.Error.Render(f.colorErr))
	}

	shapes := make([]string, 0, len(particle.Shapes))
	for i, sh := range particle.Shapes {
		mark := "[ ]"
		if slices.Contains(f.settings.Shapes, sh) {
			mark = "[x]"
		}
		cell := st.Cell
		if f.focus == fieldShapes && i == f.shapeCursor {
			cell = st.CellCursor
		}
		shapes = append(shapes, cell.Render(mark+" "+string(sh)))
	}
	rows = append(rows, label(fieldShapes, "Shapes")+strings.Join(shapes, " "))

	button := st.Button
	if f.focus == fieldPop {
		button = st.ButtonActive
	}
	rows = append(rows, button.Render("Pop!"))

	help := "tab next · ←/→ adjust · space toggle · enter apply"
	if width > 0 {
		help = lipgloss.NewStyle().MaxWidth(width).Render(help)
	}
	rows = append(rows, st.Help.Render(help))
	return strings.Join(rows, "\n")
}

func (f Form) originGrid() []string {
	origins := emission.Origins()
	lines := make([]string, 0, 3)
	for r := 0; r < 3; r++ {
		cells := make([]string, 0, 3)
		for c := 0; c < 3; c++ {
			i := r*3 + c
			mark := "○"
			if slices.Contains(f.settings.Origins, origins[i].Name) {
				mark = "●"
			}
			cell := f.style.Cell
			if f.focus == fieldOrigins && i == f.originCursor {
				cell = f.style.CellCursor
			}
			cells = append(cells, cell.Render(mark))
		}
		lines = append(lines, strings.Join(cells, " "))
	}
	return lines
}
