package diagfmt

import (
	"encoding/json"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"deducels/internal/source"
)

// LocationJSON представляет местоположение в файле. Строки и колонки
// нулевые, колонка в UTF-16, как в ответах сервера.
type LocationJSON struct {
	File      string `json:"file" msgpack:"file"`
	StartByte uint32 `json:"start_byte" msgpack:"start_byte"`
	EndByte   uint32 `json:"end_byte" msgpack:"end_byte"`
	StartLine *int   `json:"start_line,omitempty" msgpack:"start_line,omitempty"`
	StartCol  *int   `json:"start_col,omitempty" msgpack:"start_col,omitempty"`
	EndLine   *int   `json:"end_line,omitempty" msgpack:"end_line,omitempty"`
	EndCol    *int   `json:"end_col,omitempty" msgpack:"end_col,omitempty"`
}

// NoteJSON представляет дополнительную заметку
type NoteJSON struct {
	Message  string       `json:"message" msgpack:"message"`
	Location LocationJSON `json:"location" msgpack:"location"`
}

// DiagnosticJSON представляет диагностику в JSON формате
type DiagnosticJSON struct {
	Severity string       `json:"severity" msgpack:"severity"`
	Code     string       `json:"code" msgpack:"code"`
	Message  string       `json:"message" msgpack:"message"`
	Location LocationJSON `json:"location" msgpack:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty" msgpack:"notes,omitempty"`
}

// DiagnosticsOutput представляет корневую структуру вывода
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics" msgpack:"diagnostics"`
	Count       int              `json:"count" msgpack:"count"`
	Files       int              `json:"files" msgpack:"files"`
}

func makeLocation(f *source.File, span source.Span, path string, includePositions bool) LocationJSON {
	loc := LocationJSON{
		File:      path,
		StartByte: span.Start,
		EndByte:   span.End,
	}
	if includePositions {
		r := f.RangeOf(span)
		loc.StartLine, loc.StartCol = &r.Start.Line, &r.Start.Character
		loc.EndLine, loc.EndCol = &r.End.Line, &r.End.Character
	}
	return loc
}

// BuildDiagnosticsOutput формирует структуру вывода без сериализации.
func BuildDiagnosticsOutput(files []FileDiagnostics, opts JSONOpts) DiagnosticsOutput {
	out := DiagnosticsOutput{Diagnostics: []DiagnosticJSON{}, Files: len(files)}
	for _, fd := range files {
		if fd.File == nil {
			continue
		}
		path := FormatPath(fd.File.Path, opts.PathMode, opts.BaseDir)
		items := fd.Diags
		if opts.Max > 0 && len(items) > opts.Max {
			items = items[:opts.Max]
		}
		for _, d := range items {
			dj := DiagnosticJSON{
				Severity: d.Severity.String(),
				Code:     d.Code.ID(),
				Message:  d.Message,
				Location: makeLocation(fd.File, d.Primary, path, opts.IncludePositions),
			}
			if opts.IncludeNotes {
				for _, n := range d.Notes {
					dj.Notes = append(dj.Notes, NoteJSON{
						Message:  n.Msg,
						Location: makeLocation(fd.File, n.Span, path, opts.IncludePositions),
					})
				}
			}
			out.Diagnostics = append(out.Diagnostics, dj)
		}
	}
	out.Count = len(out.Diagnostics)
	return out
}

// JSON выводит диагностики всех файлов одним документом.
func JSON(w io.Writer, files []FileDiagnostics, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildDiagnosticsOutput(files, opts))
}

// MsgPack пишет ту же структуру, что и JSON, в msgpack.
func MsgPack(w io.Writer, files []FileDiagnostics, opts JSONOpts) error {
	return msgpack.NewEncoder(w).Encode(BuildDiagnosticsOutput(files, opts))
}
