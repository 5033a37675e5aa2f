// Package fuzztests houses Go fuzz harnesses for the analysis pipeline
// (text -> lexer -> parser -> resolver). They guard against panics, hangs and
// broken tree invariants on arbitrary input.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
