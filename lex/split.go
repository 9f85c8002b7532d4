package lex

import (
	"unicode"
	"unicode/utf8"

	"github.com/dhamidi/earley/grammar"
)

// Split cuts text at whitespace and binds every word to a terminal of g
// by verbatim text, terminal name or literal pattern.
func Split(g *grammar.Grammar, text string) ([]Token, error) {
	m := newMatcher(g)
	var tokens []Token
	err := words(text, func(word string, pos Position) error {
		sym := m.lookup(word, word)
		if sym == nil {
			return &Error{Position: pos, Literal: word, Message: "no terminal matches"}
		}
		tokens = append(tokens, Token{Terminal: sym, Literal: word, Position: pos})
		return nil
	})
	return tokens, err
}

// words calls fn for each whitespace separated word of text.
func words(text string, fn func(word string, pos Position) error) error {
	line, column := 1, 1
	start := -1
	var startPos Position
	for offset := 0; offset <= len(text); {
		r, size := utf8.DecodeRuneInString(text[offset:])
		if offset == len(text) || unicode.IsSpace(r) {
			if start >= 0 {
				if err := fn(text[start:offset], startPos); err != nil {
					return err
				}
				start = -1
			}
			if offset == len(text) {
				return nil
			}
		} else if start < 0 {
			start = offset
			startPos = Position{Offset: offset, Line: line, Column: column}
		}
		if r == '\n' {
			line++
			column = 1
		} else {
			column++
		}
		offset += size
	}
	return nil
}
