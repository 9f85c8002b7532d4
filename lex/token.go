// Package lex turns text into the token sequences consumed by the parser:
// an EBNF-driven lexer, a binder from lexemes to grammar terminals, a
// whitespace splitter and a word lexicon.
package lex

import (
	"fmt"

	"github.com/dhamidi/earley/grammar"
)

// Position represents a location in source text.
type Position struct {
	Filename string
	Offset   int
	Line     int
	Column   int
}

func (p Position) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is an input token bound to a terminal of a grammar.
type Token struct {
	Terminal *grammar.Symbol
	Literal  string
	Position Position
}

func (t Token) String() string {
	name := "<nil>"
	if t.Terminal != nil {
		name = t.Terminal.Name
	}
	return fmt.Sprintf("%s %s %q", t.Position, name, t.Literal)
}

// Range is a half-open span of token ranks [Low, High).
type Range struct {
	Low  int
	High int
}

func (r Range) Len() int {
	return r.High - r.Low
}

func (r Range) String() string {
	return fmt.Sprintf("%d..%d", r.Low, r.High)
}

// Error reports text that could not be turned into tokens.
type Error struct {
	Position Position
	Literal  string
	Message  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s %q", e.Position, e.Message, e.Literal)
}

// Tokens builds tokens for the given terminal names of g, one per name,
// with the name as literal. It is mostly useful in tests.
func Tokens(g *grammar.Grammar, names ...string) ([]Token, error) {
	tokens := make([]Token, 0, len(names))
	for i, name := range names {
		sym, ok := g.Symbol(name)
		if !ok || !sym.IsTerminal() {
			return nil, &Error{
				Position: Position{Offset: i, Line: 1, Column: i + 1},
				Literal:  name,
				Message:  "unknown terminal",
			}
		}
		tokens = append(tokens, Token{
			Terminal: sym,
			Literal:  name,
			Position: Position{Offset: i, Line: 1, Column: i + 1},
		})
	}
	return tokens, nil
}

// MustTokens is like Tokens but panics on unknown names.
func MustTokens(g *grammar.Grammar, names ...string) []Token {
	tokens, err := Tokens(g, names...)
	if err != nil {
		panic(err)
	}
	return tokens
}
