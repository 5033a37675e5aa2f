package source

import (
	"path/filepath"
	"slices"
	"sort"
)

// normalizeCRLF заменяет все \r\n на \n, не трогая одиночные \r.
// Возвращает новый слайс и флаг: были ли замены.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !slices.Contains(content, '\r') {
		return content, false
	}

	out := make([]byte, 0, len(content))
	changed := false

	i := 0
	for i < len(content) {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			out = append(out, '\n')
			i += 2
			changed = true
		} else {
			out = append(out, content[i])
			i++
		}
	}
	return out, changed
}

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) < 3 {
		return content, false
	}

	if content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}

	return content, false
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, len(content)/32+1)
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i))
		}
	}
	return out
}

// lineOf returns the zero-based line containing off and the offset where
// that line starts. A '\n' belongs to the line it terminates.
func lineOf(lineIdx []uint32, off uint32) (line int, start uint32) {
	line = sort.Search(len(lineIdx), func(i int) bool { return lineIdx[i] >= off })
	if line > 0 {
		start = lineIdx[line-1] + 1
	}
	return line, start
}

func toLineCol(lineIdx []uint32, off uint32) LineCol {
	line, start := lineOf(lineIdx, off)
	return LineCol{Line: uint32(line + 1), Col: off - start + 1}
}

func normalizePath(p string) string {
	// единый вид в кроссплатформенных дифах
	return filepath.ToSlash(filepath.Clean(p))
}

// BaseName returns the last path element.
func BaseName(path string) string {
	return filepath.Base(path)
}

// RelativePath returns path relative to base.
func RelativePath(path, base string) (string, error) {
	return filepath.Rel(base, path)
}
