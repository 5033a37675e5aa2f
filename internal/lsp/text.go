package lsp

import (
	"unicode/utf8"

	"deducels/internal/source"
)

// applyChanges applies didChange events in order. An event without a range
// replaces the whole text; ranges are clamped to the current text.
func applyChanges(text string, changes []textDocumentContentChangeEvent) string {
	for _, change := range changes {
		if change.Range == nil {
			text = change.Text
			continue
		}
		start := offsetForPosition(text, change.Range.Start)
		end := offsetForPosition(text, change.Range.End)
		if end < start {
			end = start
		}
		text = text[:start] + change.Text + text[end:]
	}
	return text
}

// offsetForPosition maps an editor position (UTF-16 columns) onto the raw
// buffer. Unlike source.File.OffsetAt it works on the unnormalized text the
// client edits, so a '\r' before '\n' stays part of the line.
func offsetForPosition(text string, pos source.Position) int {
	if pos.Line < 0 || pos.Character < 0 {
		return 0
	}
	i := 0
	for line := 0; line < pos.Line; line++ {
		next := indexByteFrom(text, i, '\n')
		if next < 0 {
			return len(text)
		}
		i = next + 1
	}
	units := 0
	for i < len(text) && text[i] != '\n' && units < pos.Character {
		r, size := utf8.DecodeRuneInString(text[i:])
		need := 1
		if r > 0xFFFF {
			need = 2
		}
		if units+need > pos.Character {
			break
		}
		units += need
		i += size
	}
	return i
}

func indexByteFrom(s string, from int, b byte) int {
	for i := from; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}
