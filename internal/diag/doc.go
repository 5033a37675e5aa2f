// Package diag defines the diagnostic model shared by the lexer, the parser and
// the name resolver.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with a stable string form
//     (LEX1xxx lexical, SYN2xxx syntax, SEM3xxx name resolution).
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the source.Span pointing to the issue.
//   - Notes – optional secondary spans/messages ("first declared here").
//
// Diagnostics are never fatal: every phase reports and keeps going, so the
// worst outcome for malformed input is a partial analysis with diagnostics.
//
// # Emitting diagnostics
//
// Phases use a Reporter to decouple emission from storage. ReportBuilder
// (ReportWarning) chains WithNote before Emit. Collector keeps the items of
// one analysis run; Bag sorts and deduplicates them for the snapshot, and
// DedupReporter applies the same (code, primary span) filter to the stream
// forwarded to a caller's Reporter.
//
// Rendering lives in internal/diagfmt; the editor mapping lives in internal/lsp.
package diag
