package lex

import (
	"errors"
	"io"
	"strings"
	"testing"

	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/earley/grammar"
)

const testLexicalGrammar = `
Keyword = "if" | "then" .
Identifier = letter { letter | digit } .
Float = digit { digit } [ "." digit { digit } ] "f" .
Number = digit { digit } .
Operator = "+" | "-" | "*" | "/" | "(" | ")" .
WhiteSpace = " " | "\t" | "\n" .
letter = "a" … "z" .
digit = "0" … "9" .
`

func mustParseGrammar(t *testing.T) ebnf.Grammar {
	t.Helper()
	g, err := ParseGrammar("lexical.ebnf", strings.NewReader(testLexicalGrammar))
	if err != nil {
		t.Fatalf("parse grammar: %v", err)
	}
	return g
}

func TestTokenKinds(t *testing.T) {
	got := TokenKinds(mustParseGrammar(t))
	want := "Keyword Identifier Float Number Operator WhiteSpace"
	if strings.Join(got, " ") != want {
		t.Errorf("kinds = %v, want %s", got, want)
	}
}

func TestLexerTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "expression",
			input: "x1 + 42\n(y)",
			want: []string{
				`1:1 Identifier "x1"`,
				`1:3 WhiteSpace " "`,
				`1:4 Operator "+"`,
				`1:5 WhiteSpace " "`,
				`1:6 Number "42"`,
				`1:8 WhiteSpace "\n"`,
				`2:1 Operator "("`,
				`2:2 Identifier "y"`,
				`2:3 Operator ")"`,
				`2:4 EOF ""`,
			},
		},
		{
			name:  "tie goes to first kind",
			input: "if iffy",
			want: []string{
				`1:1 Keyword "if"`,
				`1:3 WhiteSpace " "`,
				`1:4 Identifier "iffy"`,
				`1:8 EOF ""`,
			},
		},
		{
			name:  "empty option inside sequence",
			input: "12f 1.5f 7",
			want: []string{
				`1:1 Float "12f"`,
				`1:4 WhiteSpace " "`,
				`1:5 Float "1.5f"`,
				`1:9 WhiteSpace " "`,
				`1:10 Number "7"`,
				`1:11 EOF ""`,
			},
		},
		{
			name:  "invalid character",
			input: "a$",
			want: []string{
				`1:1 Identifier "a"`,
				`1:2 ERROR "$"`,
				`1:3 EOF ""`,
			},
		},
	}

	g := mustParseGrammar(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lexemes, err := NewLexer(g, []byte(tt.input)).Tokenize()
			if err != nil {
				t.Fatalf("tokenize: %v", err)
			}
			var got []string
			for _, lx := range lexemes {
				got = append(got, lx.String())
			}
			if strings.Join(got, "\n") != strings.Join(tt.want, "\n") {
				t.Errorf("lexemes:\n%s\nwant:\n%s", strings.Join(got, "\n"), strings.Join(tt.want, "\n"))
			}
		})
	}
}

func TestLexerOptions(t *testing.T) {
	g := mustParseGrammar(t)
	l := NewLexer(g, []byte("if"), WithKinds("Identifier"), WithFilename("in.txt"))
	lx, err := l.Next()
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if lx.Kind != "Identifier" {
		t.Errorf("kind = %s, want Identifier", lx.Kind)
	}
	if lx.Position.String() != "in.txt:1:1" {
		t.Errorf("position = %s, want in.txt:1:1", lx.Position)
	}
	if _, err := l.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

func TestLexerLeftRecursion(t *testing.T) {
	g, err := ParseGrammar("rec.ebnf", strings.NewReader(`
List = List "," item | item .
item = "x" .
`))
	if err != nil {
		t.Fatalf("parse grammar: %v", err)
	}
	lx, err := NewLexer(g, []byte("x")).Next()
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if lx.Kind != "List" || lx.Literal != "x" {
		t.Errorf("lexeme = %s, want List \"x\"", lx)
	}
}

func exprGrammar(t *testing.T) *grammar.Grammar {
	t.Helper()
	g, err := grammar.NewBuilder().
		AddTerminals("Identifier", "Number").
		AddVerbatim("+", "(", ")").
		Rule("S", "Identifier", "+", "Number").
		Grammar()
	if err != nil {
		t.Fatalf("build grammar: %v", err)
	}
	return g
}

func TestBinder(t *testing.T) {
	g := exprGrammar(t)
	lexemes, err := NewLexer(mustParseGrammar(t), []byte("x1 + 42")).Tokenize()
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}

	tokens, err := NewBinder(g).Bind(lexemes)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	var got []string
	for _, tok := range tokens {
		got = append(got, tok.String())
	}
	want := []string{`1:1 Identifier "x1"`, `1:4 + "+"`, `1:6 Number "42"`}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("tokens:\n%s\nwant:\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}

func TestBinderErrors(t *testing.T) {
	g := exprGrammar(t)
	lexical := mustParseGrammar(t)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"invalid character", "x $", `1:3: invalid character "$"`},
		{"unbound kind", "x * 2", `1:3: no terminal for Operator "*"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lexemes, err := NewLexer(lexical, []byte(tt.input)).Tokenize()
			if err != nil {
				t.Fatalf("tokenize: %v", err)
			}
			_, err = NewBinder(g).Bind(lexemes)
			var lexErr *Error
			if !errors.As(err, &lexErr) {
				t.Fatalf("expected *Error, got %v", err)
			}
			if err.Error() != tt.want {
				t.Errorf("error = %q, want %q", err.Error(), tt.want)
			}
		})
	}
}

func TestBinderSkipKinds(t *testing.T) {
	g := exprGrammar(t)
	lexemes := []Lexeme{
		{Kind: "Identifier", Literal: "x"},
		{Kind: "Note", Literal: "// hi"},
		{Kind: "Operator", Literal: "+"},
		{Kind: "WhiteSpace", Literal: " "},
	}
	if _, err := NewBinder(g, "Note").Bind(lexemes); err == nil {
		t.Error("WhiteSpace should not be skipped when skip kinds are given")
	}
	tokens, err := NewBinder(g, "Note", "WhiteSpace").Bind(lexemes)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if len(tokens) != 2 {
		t.Errorf("expected 2 tokens, got %d", len(tokens))
	}
}
