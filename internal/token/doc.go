// Package token defines lexical token kinds and trivia for Deduce sources.
// Invariants:
//   - Token.Text is exactly the source bytes covered by Token.Span.
//   - Symbolic operators (`<=`, `≤`, `++`, ...) are first-class Operator tokens;
//     the longest operator wins, so `<=` is never split into `<` and `=`.
//   - Whitespace and comments never appear in the main token stream; they are
//     attached to the following token as leading Trivia.
//   - `and`, `or` and `not` are keywords even though they act as operators.
package token
