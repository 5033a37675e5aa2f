package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"deducels/internal/source"
	"deducels/internal/token"
)

type TokenOutput struct {
	Kind    string       `json:"kind" msgpack:"kind"`
	Text    string       `json:"text,omitempty" msgpack:"text,omitempty"`
	Span    source.Span  `json:"span" msgpack:"span"`
	Range   source.Range `json:"range" msgpack:"range"`
	Leading []string     `json:"leading,omitempty" msgpack:"leading,omitempty"`
}

func buildTokens(tokens []token.Token, file *source.File) []TokenOutput {
	out := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		var leading []string
		for _, trivia := range tok.Leading {
			leading = append(leading, trivia.Kind.String())
		}
		out = append(out, TokenOutput{
			Kind:    tok.Kind.String(),
			Text:    tok.Text,
			Span:    tok.Span,
			Range:   file.RangeOf(tok.Span),
			Leading: leading,
		})
		if tok.Kind == token.EOF {
			break
		}
	}
	return out
}

// FormatTokensPretty выводит токены в человекочитаемом формате
func FormatTokensPretty(w io.Writer, tokens []token.Token, file *source.File) error {
	for i, t := range buildTokens(tokens, file) {
		var b strings.Builder
		fmt.Fprintf(&b, "%3d: %-15s", i+1, t.Kind)
		if t.Text != "" {
			fmt.Fprintf(&b, " %q", t.Text)
		}
		fmt.Fprintf(&b, " at %d:%d-%d:%d",
			t.Range.Start.Line+1, t.Range.Start.Character+1,
			t.Range.End.Line+1, t.Range.End.Character+1)
		if len(t.Leading) > 0 {
			fmt.Fprintf(&b, " (leading: %s)", strings.Join(t.Leading, ", "))
		}
		b.WriteByte('\n')
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []token.Token, file *source.File) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildTokens(tokens, file))
}

// FormatTokensMsgPack выводит токены в msgpack
func FormatTokensMsgPack(w io.Writer, tokens []token.Token, file *source.File) error {
	return msgpack.NewEncoder(w).Encode(buildTokens(tokens, file))
}
