package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"fortio.org/safecast"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"deducels/internal/diag"
	"deducels/internal/source"
)

const tabWidth = 4

type palette struct {
	err, warn, info *color.Color
	gutter, caret   *color.Color
	note, path      *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
		note:   color.New(color.FgCyan),
		path:   color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.gutter, p.caret, p.note, p.path} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes.
// Колонки считаются в рунах, подчёркивание выравнивается по ширине
// символов в терминале.
func Pretty(w io.Writer, fd FileDiagnostics, opts PrettyOpts) {
	if fd.File == nil {
		return
	}
	p := newPalette(opts.Color)
	path := FormatPath(fd.File.Path, opts.PathMode, opts.BaseDir)
	for _, d := range fd.Diags {
		line, col := humanPos(fd.File, d.Primary.Start)
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			p.path.Sprintf("%s:%d:%d", path, line, col),
			p.severity(d.Severity).Sprint(strings.ToUpper(d.Severity.String())),
			d.Code.ID(),
			d.Message)
		writeSnippet(w, p, fd.File, d.Primary, opts)
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			nl, nc := humanPos(fd.File, n.Span.Start)
			fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", p.note.Sprint("note:"), path, nl, nc, n.Msg)
			writeSnippet(w, p, fd.File, n.Span, PrettyOpts{Width: opts.Width})
		}
	}
}

// humanPos — 1-based строка и колонка в рунах.
func humanPos(f *source.File, off uint32) (line, col int) {
	pos := f.PositionAt(off)
	start := f.OffsetAt(source.Position{Line: pos.Line})
	return pos.Line + 1, len([]rune(string(f.Content[start:off]))) + 1
}

func writeSnippet(w io.Writer, p palette, f *source.File, span source.Span, opts PrettyOpts) {
	pos := f.PositionAt(span.Start)
	first := pos.Line + 1
	lastLine := len(f.LineIdx) + 1
	from := max(1, first-opts.Context)
	to := min(lastLine, first+opts.Context)
	gutterWidth := len(fmt.Sprint(to))

	for n := from; n <= to; n++ {
		text := expandTabs(f.GetLine(u32(n)))
		if opts.Width > 0 {
			text = runewidth.Truncate(text, opts.Width, "…")
		}
		fmt.Fprintf(w, " %s %s\n", p.gutter.Sprintf("%*d |", gutterWidth, n), text)
		if n != first {
			continue
		}
		lineStart := f.OffsetAt(source.Position{Line: pos.Line})
		lineEnd := lineStart + u32(len(f.GetLine(u32(n))))
		end := min(span.End, lineEnd)
		prefix := expandTabs(string(f.Content[lineStart:span.Start]))
		marked := expandTabs(string(f.Content[span.Start:max(end, span.Start)]))
		pad := runewidth.StringWidth(prefix)
		width := max(1, runewidth.StringWidth(marked))
		if opts.Width > 0 && pad+width > opts.Width {
			width = max(1, opts.Width-pad)
		}
		underline := "^" + strings.Repeat("~", width-1)
		fmt.Fprintf(w, " %s %s%s\n", p.gutter.Sprintf("%*s |", gutterWidth, ""), strings.Repeat(" ", pad), p.caret.Sprint(underline))
	}
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

func u32(n int) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		return 0
	}
	return v
}
