package lexer

import (
	"deducels/internal/diag"
	"deducels/internal/token"
)

// Жадность: сначала многосимвольная пунктуация (..., ->), затем операторы по
// принципу longest match (<=> раньше <=, <= раньше <), затем односимвольная пунктуация.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()

	switch {
	case lx.try3('.', '.', '.'):
		return lx.emit(token.Ellipsis, start)
	case lx.try2('-', '>'):
		return lx.emit(token.Arrow, start)
	}

	if op, ok := token.MatchOperator(lx.cursor.Rest()); ok {
		lx.cursor.Advance(len(op))
		return lx.emit(token.Operator, start)
	}

	switch lx.cursor.Peek() {
	case '(':
		lx.cursor.Bump()
		return lx.emit(token.LParen, start)
	case ')':
		lx.cursor.Bump()
		return lx.emit(token.RParen, start)
	case '{':
		lx.cursor.Bump()
		return lx.emit(token.LBrace, start)
	case '}':
		lx.cursor.Bump()
		return lx.emit(token.RBrace, start)
	case '[':
		lx.cursor.Bump()
		return lx.emit(token.LBracket, start)
	case ']':
		lx.cursor.Bump()
		return lx.emit(token.RBracket, start)
	case ',':
		lx.cursor.Bump()
		return lx.emit(token.Comma, start)
	case ':':
		lx.cursor.Bump()
		return lx.emit(token.Colon, start)
	case ';':
		lx.cursor.Bump()
		return lx.emit(token.Semicolon, start)
	case '.':
		lx.cursor.Bump()
		return lx.emit(token.Dot, start)
	case '|':
		lx.cursor.Bump()
		return lx.emit(token.Pipe, start)
	case '@':
		lx.cursor.Bump()
		return lx.emit(token.At, start)
	case '?':
		lx.cursor.Bump()
		return lx.emit(token.Question, start)
	case '#':
		lx.cursor.Bump()
		return lx.emit(token.Hash, start)
	}

	// неизвестный символ: съедаем целую руну, чтобы не резать UTF-8
	lx.bumpRune()
	if lx.cursor.Off == uint32(start) {
		lx.cursor.Bump()
	}
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexUnknownChar, tok.Span, "unknown character "+quoteChar(tok.Text))
	return tok
}

// try2/try3 пробуют "съесть" 2/3 байта, если совпадает.
func (lx *Lexer) try3(a, b, c byte) bool {
	rest := lx.cursor.Rest()
	if len(rest) < 3 || rest[0] != a || rest[1] != b || rest[2] != c {
		return false
	}
	lx.cursor.Advance(3)
	return true
}

func (lx *Lexer) try2(a, b byte) bool {
	b0, b1, ok := lx.cursor.Peek2()
	if !ok || b0 != a || b1 != b {
		return false
	}
	lx.cursor.Advance(2)
	return true
}

func quoteChar(s string) string {
	return "'" + s + "'"
}
