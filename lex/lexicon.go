package lex

import (
	"fmt"
	"strings"

	"github.com/dhamidi/earley/grammar"
)

// Lexicon assigns words to terminal categories, like a dictionary for a
// natural language grammar:
//
//	lx := lex.NewLexicon(g)
//	lx.Add("Noun", "flight", "breeze")
//	lx.Add("Verb", "book", "like")
//	tokens, err := lx.Tokenize("book the flight")
type Lexicon struct {
	grammar *grammar.Grammar
	words   map[string]*grammar.Symbol
}

func NewLexicon(g *grammar.Grammar) *Lexicon {
	return &Lexicon{grammar: g, words: make(map[string]*grammar.Symbol)}
}

// Add registers words under a terminal category of the grammar. A word
// belongs to one category; adding it again replaces the category.
func (lx *Lexicon) Add(category string, words ...string) error {
	sym, ok := lx.grammar.Symbol(category)
	if !ok || !sym.IsTerminal() {
		return fmt.Errorf("add words: %q is not a terminal of the grammar", category)
	}
	for _, w := range words {
		lx.words[strings.ToLower(w)] = sym
	}
	return nil
}

// Category returns the terminal registered for word, ignoring case.
func (lx *Lexicon) Category(word string) (*grammar.Symbol, bool) {
	sym, ok := lx.words[strings.ToLower(word)]
	return sym, ok
}

// Tokenize splits text at whitespace and looks up each word.
func (lx *Lexicon) Tokenize(text string) ([]Token, error) {
	var tokens []Token
	err := words(text, func(word string, pos Position) error {
		sym, ok := lx.Category(word)
		if !ok {
			return &Error{Position: pos, Literal: word, Message: "word not in lexicon"}
		}
		tokens = append(tokens, Token{Terminal: sym, Literal: word, Position: pos})
		return nil
	})
	return tokens, err
}
