package buffer

import "testing"

func TestBuffer_Move(t *testing.T) {
	cases := []struct {
		name string
		from Pos
		move Move
		want Pos
	}{
		{name: "left wraps to previous EOL", from: Pos{Row: 1}, move: Move{Dir: DirLeft}, want: Pos{Row: 0, GraphemeCol: 5}},
		{name: "right wraps to next SOL", from: Pos{Row: 0, GraphemeCol: 5}, move: Move{Dir: DirRight}, want: Pos{Row: 1}},
		{name: "up clamps column", from: Pos{Row: 2, GraphemeCol: 9}, move: Move{Dir: DirUp}, want: Pos{Row: 1, GraphemeCol: 2}},
		{name: "down at last row", from: Pos{Row: 2, GraphemeCol: 1}, move: Move{Dir: DirDown}, want: Pos{Row: 2, GraphemeCol: 1}},
		{name: "home", from: Pos{Row: 0, GraphemeCol: 3}, move: Move{Dir: DirHome}, want: Pos{Row: 0}},
		{name: "end", from: Pos{Row: 2}, move: Move{Dir: DirEnd}, want: Pos{Row: 2, GraphemeCol: 9}},
		{name: "word right", from: Pos{Row: 2}, move: Move{Unit: MoveWord, Dir: DirRight}, want: Pos{Row: 2, GraphemeCol: 3}},
		{name: "word left", from: Pos{Row: 2, GraphemeCol: 9}, move: Move{Unit: MoveWord, Dir: DirLeft}, want: Pos{Row: 2, GraphemeCol: 4}},
		{name: "doc end", from: Pos{}, move: Move{Unit: MoveDoc, Dir: DirEnd}, want: Pos{Row: 2, GraphemeCol: 9}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := New("hello\nhi\nfoo bar!!", Options{})
			b.SetCursor(tc.from)
			b.Move(tc.move)
			if got := b.Cursor(); got != tc.want {
				t.Fatalf("cursor=%v, want %v", got, tc.want)
			}
		})
	}
}

func TestBuffer_Move_ExtendSelects(t *testing.T) {
	b := New("hello", Options{})
	b.Move(Move{Dir: DirRight, Extend: true})
	b.Move(Move{Dir: DirRight, Extend: true})

	r, ok := b.Selection()
	if !ok {
		t.Fatalf("expected selection")
	}
	if got, want := r, (Range{Start: Pos{}, End: Pos{GraphemeCol: 2}}); got != want {
		t.Fatalf("selection=%v, want %v", got, want)
	}

	b.Move(Move{Dir: DirRight})
	if _, ok := b.Selection(); ok {
		t.Fatalf("plain move must clear selection")
	}
}
