package diagfmt

import (
	"deducels/internal/diag"
	"deducels/internal/source"
)

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto chooses relative or absolute path automatically.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	Context   int // строк контекста до и после строки диагностики
	PathMode  PathMode
	BaseDir   string // для PathModeRelative
	Width     int    // максимальная ширина строки исходника, 0 - не ограничено
	ShowNotes bool
}

// JSONOpts configures JSON and msgpack output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // добавить line/col
	PathMode         PathMode
	BaseDir          string
	Max              int // обрезка вывода на файл
	IncludeNotes     bool
}

// FileDiagnostics is one analyzed file and its diagnostics, sorted by position.
type FileDiagnostics struct {
	File  *source.File
	Diags []diag.Diagnostic
}
