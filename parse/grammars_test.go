package parse

import (
	"testing"

	"github.com/dhamidi/earley/grammar"
	"github.com/dhamidi/earley/lex"
)

func build(t *testing.T, b *grammar.Builder) *grammar.Grammar {
	t.Helper()
	g, err := b.Grammar()
	if err != nil {
		t.Fatalf("build grammar: %v", err)
	}
	return g
}

// S => A ; A => a A c | b
func grammarABC(t *testing.T) *grammar.Grammar {
	return build(t, grammar.NewBuilder().
		AddTerminals("a", "b", "c").
		Rule("S", "A").
		Rule("A", "a", "A", "c").
		Rule("A", "b"))
}

// Unambiguous arithmetic expressions with precedence.
func grammarExpr(t *testing.T) *grammar.Grammar {
	return build(t, grammar.NewBuilder().
		AddLiteral("integer", `[-+]?[0-9]+`).
		AddVerbatim("+", "*").
		Rule("P", "S").
		Rule("S", "S", "+", "M").
		Rule("S", "M").
		Rule("M", "M", "*", "T").
		Rule("M", "T").
		Rule("T", "integer"))
}

// Ambiguous arithmetic expressions.
func grammarAmbiguous(t *testing.T) *grammar.Grammar {
	return build(t, grammar.NewBuilder().
		AddLiteral("integer", `[-+]?[0-9]+`).
		AddVerbatim("+", "*").
		Rule("P", "S").
		Rule("S", "S", "+", "S").
		Rule("S", "S", "*", "S").
		Rule("S", "L").
		Rule("L", "integer"))
}

// S => E ; E => E + E | id
func grammarSums(t *testing.T) *grammar.Grammar {
	return build(t, grammar.NewBuilder().
		AddTerminals("+", "id").
		Rule("S", "E").
		Rule("E", "E", "+", "E").
		Rule("E", "id"))
}

// Ss => A A 'x' ; A => ε
func grammarNullable(t *testing.T) *grammar.Grammar {
	return build(t, grammar.NewBuilder().
		AddVerbatim("x").
		Rule("Ss", "A", "A", "x").
		Rule("A"))
}

// Z => E ; E => E Q F | F ; F => a ; Q => * | / | ε
func grammarQ(t *testing.T) *grammar.Grammar {
	return build(t, grammar.NewBuilder().
		AddVerbatim("a", "*", "/").
		Rule("Z", "E").
		Rule("E", "E", "Q", "F").
		Rule("E", "F").
		Rule("F", "a").
		Rule("Q", "*").
		Rule("Q", "/").
		Rule("Q"))
}

// S => a S | ε
func grammarRightRecursive(t *testing.T) *grammar.Grammar {
	return build(t, grammar.NewBuilder().
		AddTerminals("a").
		Rule("S", "a", "S").
		Rule("S"))
}

func split(t *testing.T, g *grammar.Grammar, text string) []lex.Token {
	t.Helper()
	tokens, err := lex.Split(g, text)
	if err != nil {
		t.Fatalf("split %q: %v", text, err)
	}
	return tokens
}

func mustParse(t *testing.T, g *grammar.Grammar, tokens []lex.Token) *Result {
	t.Helper()
	r, err := Parse(g, tokens)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !r.Success() {
		t.Fatalf("parse failed: %v", r.Err())
	}
	return r
}

// Pingali and Bilardi's sample: S => E ; E => int | ( E + E ) | E + E
func grammarBuilderCommon() *grammar.Builder {
	return grammar.NewBuilder().
		AddLiteral("int", `[-+]?[0-9]+`).
		AddVerbatim("+", "(", ")").
		Rule("S", "E").
		Rule("E", "int").
		Rule("E", "(", "E", "+", "E", ")").
		Rule("E", "E", "+", "E")
}

// S => S | a derives a in infinitely many ways.
func grammarBuilderCycle() *grammar.Builder {
	return grammar.NewBuilder().
		AddTerminals("a").
		Rule("S", "S").
		Rule("S", "a")
}
