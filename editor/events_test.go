package editor

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/flourish-confetti/buffer"
)

func TestOnChange_FiresOnMutationsAndSkipsNoOps(t *testing.T) {
	var events []ChangeEvent
	m := New(Config{
		Text: "ab",
		OnChange: func(ev ChangeEvent) {
			events = append(events, ev)
		},
	})
	events = nil

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if len(events) != 1 {
		t.Fatalf("events after move: got %d, want %d", len(events), 1)
	}
	if got := events[0].Text; got != "ab" {
		t.Fatalf("event text after move: got %q, want %q", got, "ab")
	}
	if got := events[0].Cursor; got != (buffer.Pos{Row: 0, GraphemeCol: 1}) {
		t.Fatalf("event cursor after move: got %v, want %v", got, buffer.Pos{Row: 0, GraphemeCol: 1})
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight}) // to EOL
	if len(events) != 2 {
		t.Fatalf("events after move to EOL: got %d, want %d", len(events), 2)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight}) // no-op at EOL
	if len(events) != 2 {
		t.Fatalf("events after no-op: got %d, want %d", len(events), 2)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("X")})
	if len(events) != 3 {
		t.Fatalf("events after insert: got %d, want %d", len(events), 3)
	}
	if got := events[2].Text; got != "abX" {
		t.Fatalf("event text after insert: got %q, want %q", got, "abX")
	}
}

func TestOnChange_CarriesDocIDAndEdits(t *testing.T) {
	var events []ChangeEvent
	m := New(Config{
		Text:     "ab",
		DocID:    "notes.txt",
		OnChange: func(ev ChangeEvent) { events = append(events, ev) },
	})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnd})
	if len(events) != 1 || events[0].TextChanged || len(events[0].Edits) != 0 {
		t.Fatalf("move event: got %+v, want one event without edits", events)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if len(events) != 2 {
		t.Fatalf("events after enter: got %d, want %d", len(events), 2)
	}
	ev := events[1]
	if ev.DocID != "notes.txt" {
		t.Fatalf("doc id: got %q, want %q", ev.DocID, "notes.txt")
	}
	if !ev.TextChanged || !ev.Inserts() {
		t.Fatalf("enter event: changed=%v inserts=%v, want both true", ev.TextChanged, ev.Inserts())
	}
	if len(ev.Edits) != 1 || ev.Edits[0].InsertText != "\n" {
		t.Fatalf("enter edits: got %+v, want a single newline insert", ev.Edits)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	ev = events[len(events)-1]
	if !ev.TextChanged || ev.Inserts() {
		t.Fatalf("backspace event: changed=%v inserts=%v, want true/false", ev.TextChanged, ev.Inserts())
	}
	if got := ev.Edits[0].DeletedText; got != "\n" {
		t.Fatalf("backspace deleted text: got %q, want %q", got, "\n")
	}
}

func TestOnChange_SilentForDecorations(t *testing.T) {
	calls := 0
	m := New(Config{Text: "ab", OnChange: func(ChangeEvent) { calls++ }})
	m.SetDecorations([]Decoration{{Pos: buffer.Pos{Row: 0, GraphemeCol: 1}, Text: "*"}})
	m, _ = m.Update(nil)
	if calls != 0 {
		t.Fatalf("OnChange calls after decorating: got %d, want 0", calls)
	}
	_ = m
}
