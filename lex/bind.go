package lex

import (
	"github.com/dhamidi/earley/grammar"
)

// DefaultSkipKinds are the lexeme kinds a Binder drops unless told otherwise.
var DefaultSkipKinds = []string{"WhiteSpace", "Comment"}

// matcher finds the terminal of a grammar that accepts a piece of text.
type matcher struct {
	verbatim map[string]*grammar.Symbol
	named    map[string]*grammar.Symbol
	patterns []*grammar.Symbol
}

func newMatcher(g *grammar.Grammar) *matcher {
	m := &matcher{
		verbatim: make(map[string]*grammar.Symbol),
		named:    make(map[string]*grammar.Symbol),
	}
	for _, sym := range g.Terminals() {
		switch {
		case sym.Verbatim != "":
			m.verbatim[sym.Verbatim] = sym
		case sym.Pattern != nil:
			m.patterns = append(m.patterns, sym)
		}
		m.named[sym.Name] = sym
	}
	return m
}

// lookup tries verbatim text first, then the kind name, then patterns in
// grammar order.
func (m *matcher) lookup(kind, text string) *grammar.Symbol {
	if sym, ok := m.verbatim[text]; ok {
		return sym
	}
	if kind != "" {
		if sym, ok := m.named[kind]; ok {
			return sym
		}
	}
	for _, sym := range m.patterns {
		if sym.Matches(text) {
			return sym
		}
	}
	return nil
}

// Binder maps lexemes to the terminals of a grammar.
type Binder struct {
	m    *matcher
	skip map[string]bool
}

// NewBinder creates a binder for g dropping lexemes of the skip kinds.
// Without skip kinds DefaultSkipKinds apply.
func NewBinder(g *grammar.Grammar, skip ...string) *Binder {
	if len(skip) == 0 {
		skip = DefaultSkipKinds
	}
	b := &Binder{m: newMatcher(g), skip: make(map[string]bool)}
	for _, k := range skip {
		b.skip[k] = true
	}
	return b
}

// Bind converts lexemes into tokens. It stops at the first lexeme that is
// an error or matches no terminal.
func (b *Binder) Bind(lexemes []Lexeme) ([]Token, error) {
	tokens := make([]Token, 0, len(lexemes))
	for _, lx := range lexemes {
		if lx.Kind == KindEOF || b.skip[lx.Kind] {
			continue
		}
		if lx.Kind == KindError {
			return tokens, &Error{Position: lx.Position, Literal: lx.Literal, Message: "invalid character"}
		}
		sym := b.m.lookup(lx.Kind, lx.Literal)
		if sym == nil {
			return tokens, &Error{Position: lx.Position, Literal: lx.Literal, Message: "no terminal for " + lx.Kind}
		}
		tokens = append(tokens, Token{Terminal: sym, Literal: lx.Literal, Position: lx.Position})
	}
	return tokens, nil
}
