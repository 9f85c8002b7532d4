package lex

import (
	"fmt"
	"io"
	"os"
	"sort"
	"unicode/utf8"

	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/earley/grammar"
)

// Lexeme kinds produced by the lexer besides the grammar's token names.
const (
	KindEOF   = "EOF"
	KindError = "ERROR"
)

// Lexeme is a piece of input matched by a token production of a lexical
// grammar. Kind is the name of that production.
type Lexeme struct {
	Kind     string
	Literal  string
	Position Position
}

func (l Lexeme) String() string {
	return fmt.Sprintf("%s %s %q", l.Position, l.Kind, l.Literal)
}

type memoKey struct {
	name   string
	offset int
}

// noMatch is distinct from an empty match of length 0.
const noMatch = -1

// Lexer tokenizes input based on an EBNF grammar. Every production whose
// name starts with an upper-case letter is a token kind. At each position
// the longest match wins; ties go to the production defined first.
type Lexer struct {
	grammar  ebnf.Grammar
	kinds    []string
	input    []byte
	filename string
	pos      int
	line     int
	column   int
	memo     map[memoKey]int
	visiting map[memoKey]bool
}

type LexerOption func(*Lexer)

// WithKinds restricts the token kinds tried at each position.
func WithKinds(kinds ...string) LexerOption {
	return func(l *Lexer) {
		allowed := make(map[string]bool, len(kinds))
		for _, k := range kinds {
			allowed[k] = true
		}
		var filtered []string
		for _, k := range l.kinds {
			if allowed[k] {
				filtered = append(filtered, k)
			}
		}
		l.kinds = filtered
	}
}

// WithFilename sets the file name reported in positions.
func WithFilename(filename string) LexerOption {
	return func(l *Lexer) {
		l.filename = filename
	}
}

// NewLexer creates a lexer for the given grammar and input.
func NewLexer(g ebnf.Grammar, input []byte, opts ...LexerOption) *Lexer {
	l := &Lexer{
		grammar:  g,
		kinds:    TokenKinds(g),
		input:    input,
		line:     1,
		column:   1,
		memo:     make(map[memoKey]int),
		visiting: make(map[memoKey]bool),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// TokenKinds returns the token production names of g in source order.
func TokenKinds(g ebnf.Grammar) []string {
	var kinds []string
	for name, prod := range g {
		if prod.Expr == nil || !grammar.IsTokenName(name) {
			continue
		}
		kinds = append(kinds, name)
	}
	sort.Slice(kinds, func(i, j int) bool {
		return g[kinds[i]].Pos().Offset < g[kinds[j]].Pos().Offset
	})
	return kinds
}

// LoadGrammar loads an EBNF lexical grammar from a file.
func LoadGrammar(filename string) (ebnf.Grammar, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open grammar: %w", err)
	}
	defer f.Close()

	return ParseGrammar(filename, f)
}

// ParseGrammar parses an EBNF lexical grammar from r.
func ParseGrammar(filename string, r io.Reader) (ebnf.Grammar, error) {
	g, err := ebnf.Parse(filename, r)
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	return g, nil
}

// Position returns the current position in the input.
func (l *Lexer) Position() Position {
	return Position{
		Filename: l.filename,
		Offset:   l.pos,
		Line:     l.line,
		Column:   l.column,
	}
}

func (l *Lexer) advance() {
	if l.pos >= len(l.input) {
		return
	}
	r, size := utf8.DecodeRune(l.input[l.pos:])
	l.pos += size
	if r == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
}

// Next returns the next lexeme from the input. At the end of input it
// returns a KindEOF lexeme and io.EOF. Input no token kind matches is
// returned one character at a time as KindError lexemes.
func (l *Lexer) Next() (Lexeme, error) {
	if l.pos >= len(l.input) {
		return Lexeme{Kind: KindEOF, Position: l.Position()}, io.EOF
	}

	start := l.Position()
	offset := l.pos

	// positions change with every lexeme
	l.memo = make(map[memoKey]int)

	bestKind := ""
	bestLen := 0
	for _, name := range l.kinds {
		l.visiting = make(map[memoKey]bool)
		n := l.match(l.grammar[name].Expr, offset)
		if n > bestLen {
			bestLen = n
			bestKind = name
		}
	}

	if bestLen == 0 {
		_, size := utf8.DecodeRune(l.input[offset:])
		l.advance()
		return Lexeme{
			Kind:     KindError,
			Literal:  string(l.input[offset : offset+size]),
			Position: start,
		}, nil
	}

	for l.pos < offset+bestLen {
		l.advance()
	}

	return Lexeme{
		Kind:     bestKind,
		Literal:  string(l.input[offset : offset+bestLen]),
		Position: start,
	}, nil
}

// match returns the length of the longest match of expr at offset, or
// noMatch.
func (l *Lexer) match(expr ebnf.Expression, offset int) int {
	switch e := expr.(type) {
	case nil:
		return 0

	case *ebnf.Token:
		return l.matchToken(e.String, offset)

	case *ebnf.Range:
		return l.matchRange(e.Begin.String, e.End.String, offset)

	case ebnf.Sequence:
		total := 0
		for _, item := range e {
			n := l.match(item, offset+total)
			if n == noMatch {
				return noMatch
			}
			total += n
		}
		return total

	case ebnf.Alternative:
		best := noMatch
		for _, alt := range e {
			if n := l.match(alt, offset); n > best {
				best = n
			}
		}
		return best

	case *ebnf.Repetition:
		total := 0
		for {
			n := l.match(e.Body, offset+total)
			if n <= 0 {
				break
			}
			total += n
		}
		return total

	case *ebnf.Option:
		if n := l.match(e.Body, offset); n != noMatch {
			return n
		}
		return 0

	case *ebnf.Group:
		return l.match(e.Body, offset)

	case *ebnf.Name:
		return l.matchName(e.String, offset)
	}
	return noMatch
}

// matchName matches a named production with memoization. A production
// reached again at the same offset while it is being matched fails, which
// breaks left recursion.
func (l *Lexer) matchName(name string, offset int) int {
	key := memoKey{name: name, offset: offset}

	if n, ok := l.memo[key]; ok {
		return n
	}
	if l.visiting[key] {
		return noMatch
	}

	prod, ok := l.grammar[name]
	if !ok {
		l.memo[key] = noMatch
		return noMatch
	}

	l.visiting[key] = true
	n := l.match(prod.Expr, offset)
	delete(l.visiting, key)

	l.memo[key] = n
	return n
}

// matchToken matches literal text. Token strings are already unquoted by
// the EBNF parser.
func (l *Lexer) matchToken(text string, offset int) int {
	if offset+len(text) > len(l.input) {
		return noMatch
	}
	if string(l.input[offset:offset+len(text)]) == text {
		return len(text)
	}
	return noMatch
}

// matchRange matches a single character within begin…end.
func (l *Lexer) matchRange(begin, end string, offset int) int {
	if offset >= len(l.input) {
		return noMatch
	}
	lo, _ := utf8.DecodeRuneInString(begin)
	hi, _ := utf8.DecodeRuneInString(end)
	r, size := utf8.DecodeRune(l.input[offset:])
	if r == utf8.RuneError || r < lo || r > hi {
		return noMatch
	}
	return size
}

// Tokenize reads all lexemes from input, ending with a KindEOF lexeme.
func (l *Lexer) Tokenize() ([]Lexeme, error) {
	var lexemes []Lexeme
	for {
		lx, err := l.Next()
		lexemes = append(lexemes, lx)
		if err == io.EOF {
			return lexemes, nil
		}
		if err != nil {
			return lexemes, err
		}
	}
}
