package buffer

// Apply runs edits in order as one change, recorded as ChangeSourceApply.
// Each range is clamped against the text as it stands when that edit runs.
// Edits that change nothing are skipped; if none change anything the buffer
// is left untouched. Otherwise the cursor lands at the end of the last
// effective edit and the selection is dropped.
func (b *Buffer) Apply(edits ...TextEdit) {
	if len(edits) == 0 {
		return
	}

	prev := b.snapshot()
	change := b.beginChange(ChangeSourceApply)
	cursor, n := b.cursor, 0
	for _, e := range edits {
		next, applied, changed := b.replaceRange(e.Range, e.Text)
		if changed {
			cursor = next
			change.addAppliedEdit(applied)
			n++
		}
	}
	if n == 0 {
		return
	}

	b.cursor = b.clampPos(cursor)
	b.sel = selectionState{}
	b.version++
	b.recordUndo(prev)
	b.commitChange(change)
}

// Paste inserts text that came from outside the editor (a clipboard or a
// terminal paste) over the selection, or at the cursor without one. The
// change is recorded as ChangeSourceApply so hosts can tell it from typing.
func (b *Buffer) Paste(text string) {
	if text == "" {
		return
	}
	r, ok := b.Selection()
	if !ok {
		r = Range{Start: b.cursor, End: b.cursor}
	}
	b.Apply(TextEdit{Range: r, Text: text})
}
