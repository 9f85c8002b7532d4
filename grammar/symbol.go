// Package grammar defines context-free grammars: symbols, productions,
// dotted items and the validated Grammar object consumed by the parser.
package grammar

import (
	"fmt"
	"regexp"
)

type SymbolKind int

const (
	KindTerminal SymbolKind = iota
	KindNonTerminal
)

var symbolKindNames = map[SymbolKind]string{
	KindTerminal:    "Terminal",
	KindNonTerminal: "NonTerminal",
}

func (k SymbolKind) String() string {
	if name, ok := symbolKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Symbol is a grammar symbol. Terminals may carry a matching predicate:
// a verbatim text or an anchored pattern. Plain terminals match by name only.
type Symbol struct {
	Name     string
	Kind     SymbolKind
	Verbatim string         // non-empty for verbatim terminals
	Pattern  *regexp.Regexp // non-nil for literal terminals
}

// NewTerminal creates a terminal that is matched by name.
func NewTerminal(name string) *Symbol {
	return &Symbol{Name: name, Kind: KindTerminal}
}

// NewVerbatim creates a terminal whose name is its exact text.
func NewVerbatim(text string) *Symbol {
	return &Symbol{Name: text, Kind: KindTerminal, Verbatim: text}
}

// NewLiteral creates a terminal matching the given regular expression.
// The pattern is anchored at both ends.
func NewLiteral(name, pattern string) (*Symbol, error) {
	re, err := regexp.Compile(`^(?:` + pattern + `)$`)
	if err != nil {
		return nil, fmt.Errorf("compile pattern for %s: %w", name, err)
	}
	return &Symbol{Name: name, Kind: KindTerminal, Pattern: re}, nil
}

// MustLiteral is like NewLiteral but panics on an invalid pattern.
func MustLiteral(name, pattern string) *Symbol {
	sym, err := NewLiteral(name, pattern)
	if err != nil {
		panic(err)
	}
	return sym
}

// NewNonTerminal creates a non-terminal symbol.
func NewNonTerminal(name string) *Symbol {
	return &Symbol{Name: name, Kind: KindNonTerminal}
}

func (s *Symbol) IsTerminal() bool {
	return s.Kind == KindTerminal
}

func (s *Symbol) IsNonTerminal() bool {
	return s.Kind == KindNonTerminal
}

// Matches reports whether text is a lexeme of this terminal.
// Non-terminals never match.
func (s *Symbol) Matches(text string) bool {
	switch {
	case s.Kind != KindTerminal:
		return false
	case s.Verbatim != "":
		return text == s.Verbatim
	case s.Pattern != nil:
		return s.Pattern.MatchString(text)
	default:
		return text == s.Name
	}
}

// String renders verbatim terminals quoted, everything else by name.
func (s *Symbol) String() string {
	if s.Verbatim != "" {
		return "'" + s.Verbatim + "'"
	}
	return s.Name
}
