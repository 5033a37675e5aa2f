package diagfmt

import (
	"path/filepath"
	"strings"
)

// autoPathLimit — длиннее этого auto-режим показывает только basename.
const autoPathLimit = 40

// FormatPath renders path according to mode. Relative paths fall back to the
// original path when they would climb out of base.
func FormatPath(path string, mode PathMode, base string) string {
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(path); err == nil {
			return filepath.ToSlash(abs)
		}
		return filepath.ToSlash(path)
	case PathModeRelative:
		if base == "" {
			return filepath.ToSlash(path)
		}
		rel, err := filepath.Rel(base, path)
		if err != nil || strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(path)
		}
		return filepath.ToSlash(rel)
	case PathModeBasename:
		return filepath.Base(path)
	default:
		if len(path) > autoPathLimit && filepath.IsAbs(path) {
			return filepath.Base(path)
		}
		return filepath.ToSlash(path)
	}
}
