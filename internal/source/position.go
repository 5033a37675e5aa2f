package source

import (
	"unicode/utf8"

	"fortio.org/safecast"
)

const maxUint32 = ^uint32(0)

func safeUint32(n int) uint32 {
	if n < 0 {
		return 0
	}
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		return maxUint32
	}
	return v
}

// OffsetAt converts an editor position into a byte offset. Positions past the
// end of a line clamp to the line end; lines past the end of the file clamp to
// the end of the content.
func (f *File) OffsetAt(pos Position) uint32 {
	if f == nil || pos.Line < 0 || pos.Character < 0 {
		return 0
	}
	content := f.Content
	if len(content) == 0 {
		return 0
	}
	contentLen := f.Len()
	if pos.Line > len(f.LineIdx) {
		return contentLen
	}
	var lineStart uint32
	if pos.Line > 0 {
		lineStart = f.LineIdx[pos.Line-1] + 1
	}
	lineEnd := contentLen
	if pos.Line < len(f.LineIdx) {
		lineEnd = f.LineIdx[pos.Line]
	}
	if lineStart > lineEnd {
		return lineEnd
	}
	units := 0
	off := lineStart
	for off < lineEnd && units < pos.Character {
		r, size := utf8.DecodeRune(content[off:lineEnd])
		need := 1
		if r > 0xFFFF {
			need = 2
		}
		if units+need > pos.Character {
			break
		}
		units += need
		off += safeUint32(size)
	}
	return off
}

// PositionAt converts a byte offset into an editor position.
func (f *File) PositionAt(offset uint32) Position {
	if f == nil {
		return Position{}
	}
	if n := f.Len(); offset > n {
		offset = n
	}
	line, lineStart := lineOf(f.LineIdx, offset)
	units := 0
	for off := lineStart; off < offset; {
		r, size := utf8.DecodeRune(f.Content[off:offset])
		if off+safeUint32(size) > offset {
			break
		}
		if r > 0xFFFF {
			units += 2
		} else {
			units++
		}
		off += safeUint32(size)
	}
	return Position{Line: line, Character: units}
}

// RangeOf converts a span into an editor range.
func (f *File) RangeOf(span Span) Range {
	if f == nil {
		return Range{}
	}
	return Range{
		Start: f.PositionAt(span.Start),
		End:   f.PositionAt(span.End),
	}
}
