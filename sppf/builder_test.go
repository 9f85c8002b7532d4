package sppf

import (
	"errors"
	"strings"
	"testing"

	"github.com/dhamidi/earley/grammar"
	"github.com/dhamidi/earley/lex"
	"github.com/dhamidi/earley/parse"
)

func build(t *testing.T, b *grammar.Builder) *grammar.Grammar {
	t.Helper()
	g, err := b.Grammar()
	if err != nil {
		t.Fatalf("build grammar: %v", err)
	}
	return g
}

func parseText(t *testing.T, g *grammar.Grammar, text string) *parse.Result {
	t.Helper()
	tokens, err := lex.Split(g, text)
	if err != nil {
		t.Fatalf("split %q: %v", text, err)
	}
	r, err := parse.Parse(g, tokens)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return r
}

func buildForest(t *testing.T, r *parse.Result, opts ...Option) *Forest {
	t.Helper()
	f, err := Build(r, opts...)
	if err != nil {
		t.Fatalf("build forest: %v", err)
	}
	return f
}

func childKeys(n *Node) string {
	keys := make([]string, len(n.Children))
	for i, c := range n.Children {
		keys[i] = c.Key()
	}
	return strings.Join(keys, " ")
}

func grammarSums(t *testing.T) *grammar.Grammar {
	return build(t, grammar.NewBuilder().
		AddTerminals("+", "id").
		Rule("S", "E").
		Rule("E", "E", "+", "E").
		Rule("E", "id"))
}

func grammarNullable(t *testing.T) *grammar.Grammar {
	return build(t, grammar.NewBuilder().
		AddVerbatim("x").
		Rule("Ss", "A", "A", "x").
		Rule("A"))
}

func TestForestUnambiguous(t *testing.T) {
	g := build(t, grammar.NewBuilder().
		AddTerminals("a", "b", "c").
		Rule("S", "A").
		Rule("A", "a", "A", "c").
		Rule("A", "b"))
	f := buildForest(t, parseText(t, g, "a b c"))

	if f.Ambiguous() {
		t.Error("forest should not be ambiguous")
	}
	if f.Root.Key() != "S[0, 3]" {
		t.Errorf("root = %s, want S[0, 3]", f.Root)
	}
	a := f.Root.Children[0]
	if got, want := childKeys(a), "a[0, 1] A[1, 2] c[2, 3]"; got != want {
		t.Errorf("children of %s = %s, want %s", a, got, want)
	}
	if a.Production.String() != "A => a A c" {
		t.Errorf("production of %s = %s", a, a.Production)
	}
	if f.Len() != 6 {
		t.Errorf("forest has %d nodes, want 6: %v", f.Len(), f.Keys())
	}
}

func TestForestAmbiguousSums(t *testing.T) {
	g := grammarSums(t)
	r := parseText(t, g, "id + id + id")
	f := buildForest(t, r)

	if !f.Ambiguous() {
		t.Fatal("forest should be ambiguous")
	}
	e, ok := f.Node("E[0, 5]")
	if !ok {
		t.Fatalf("no E[0, 5] in %v", f.Keys())
	}
	if !e.IsAmbiguous() || len(e.Children) != 2 {
		t.Fatalf("E[0, 5] should have two alternatives, got %s", childKeys(e))
	}

	alts := []struct {
		key      string
		children string
	}{
		{"Alt(E => E + E .)[0, 5]#0", "E[0, 3] +[3, 4] E[4, 5]"},
		{"Alt(E => E + E .)[0, 5]#1", "E[0, 1] +[1, 2] E[2, 5]"},
	}
	for i, want := range alts {
		alt := e.Children[i]
		if alt.Kind != KindAlternative || alt.Key() != want.key {
			t.Errorf("alternative %d = %s, want %s", i, alt, want.key)
		}
		if got := childKeys(alt); got != want.children {
			t.Errorf("children of %s = %s, want %s", alt, got, want.children)
		}
		if !f.Include(want.key) {
			t.Errorf("forest does not include %s", want.key)
		}
	}

	if f.Len() != 14 {
		t.Errorf("forest has %d nodes, want 14: %v", f.Len(), f.Keys())
	}

	// E[4, 5] and E[0, 1] appear in both derivations as the same node
	left, right := e.Children[0], e.Children[1]
	if left.Children[2] != right.Children[2].Children[2] {
		t.Error("E[4, 5] is not shared between the alternatives")
	}
	if right.Children[0] != left.Children[0].Children[0] {
		t.Error("E[0, 1] is not shared between the alternatives")
	}
}

func TestForestReplayShared(t *testing.T) {
	g := grammarSums(t)
	f := buildForest(t, parseText(t, g, "id + id + id"), WithReplayShared())

	e, ok := f.Node("E[0, 5]")
	if !ok || len(e.Children) != 2 {
		t.Fatalf("expected two alternatives under E[0, 5]")
	}
	left, right := e.Children[0], e.Children[1]
	a, b := left.Children[2], right.Children[2].Children[2]
	if a == b {
		t.Error("replayed sub-derivations should be distinct nodes")
	}
	if a.Key() != b.Key() {
		t.Errorf("replayed nodes differ: %s and %s", a, b)
	}
	if f.Len() != 14 {
		t.Errorf("distinct keys = %d, want 14", f.Len())
	}
}

func TestForestDropsCycles(t *testing.T) {
	tests := []struct {
		name     string
		grammar  *grammar.Builder
		input    string
		nodes    map[string]string
		len      int
		rootProd string
	}{
		{
			name: "self loop",
			grammar: grammar.NewBuilder().
				AddTerminals("a").
				Rule("S", "S").
				Rule("S", "a"),
			input:    "a",
			nodes:    map[string]string{"S[0, 1]": "a[0, 1]"},
			len:      2,
			rootProd: "S => a",
		},
		{
			// B[0, 1] derives itself through S and A, and B[0, 0] through S[0, 0]
			name: "mutual recursion",
			grammar: grammar.NewBuilder().
				AddTerminals("b").
				Rule("S", "A").
				Rule("S", "B").
				Rule("A", "B").
				Rule("B").
				Rule("B", "A", "B", "b").
				Rule("B", "B", "S"),
			input: "b",
			nodes: map[string]string{
				"S[0, 1]": "B[0, 1]",
				"B[0, 1]": "A[0, 0] B[0, 0] b[0, 1]",
				"A[0, 0]": "B[0, 0]",
				"B[0, 0]": "",
			},
			len:      5,
			rootProd: "S => B",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := build(t, tt.grammar)
			r := parseText(t, g, tt.input)
			if !r.Ambiguous() {
				t.Fatal("parse of a cyclic grammar should be ambiguous")
			}
			f := buildForest(t, r)
			if f.Ambiguous() {
				t.Error("forest should keep only acyclic derivations")
			}
			if f.Root.Production.String() != tt.rootProd {
				t.Errorf("root production = %s, want %s", f.Root.Production, tt.rootProd)
			}
			for key, want := range tt.nodes {
				n, ok := f.Node(key)
				if !ok {
					t.Errorf("no %s in %v", key, f.Keys())
					continue
				}
				if got := childKeys(n); got != want {
					t.Errorf("children of %s = %q, want %q", key, got, want)
				}
			}
			if f.Len() != tt.len {
				t.Errorf("forest has %d nodes, want %d: %v", f.Len(), tt.len, f.Keys())
			}
		})
	}
}

func TestForestEpsilonNodes(t *testing.T) {
	g := grammarNullable(t)
	r := parseText(t, g, "x")

	tests := []struct {
		name     string
		opts     []Option
		children string
		epsilon  bool
	}{
		{"plain", nil, "", false},
		{"epsilon", []Option{WithEpsilonNodes()}, "_[0, 0]", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := buildForest(t, r, tt.opts...)
			if got, want := childKeys(f.Root), "A[0, 0] A[0, 0] x[0, 1]"; got != want {
				t.Fatalf("root children = %s, want %s", got, want)
			}
			a := f.Root.Children[0]
			if a != f.Root.Children[1] {
				t.Error("the empty A should be shared")
			}
			if got := childKeys(a); got != tt.children {
				t.Errorf("children of A = %q, want %q", got, tt.children)
			}
			if f.Include("_[0, 0]") != tt.epsilon {
				t.Errorf("Include(_[0, 0]) = %v", !tt.epsilon)
			}
		})
	}
}

type counter struct {
	BaseVisitor
	counts map[string]int
}

func (c *counter) VisitTerminal(*Node) error {
	c.counts["terminal"]++
	return nil
}

func (c *counter) VisitNonTerminal(*Node) error {
	c.counts["nonterminal"]++
	return nil
}

func (c *counter) VisitAlternative(*Node) error {
	c.counts["alternative"]++
	return nil
}

func (c *counter) LeaveAlternative(*Node) error {
	c.counts["leave"]++
	return nil
}

func TestForestAccept(t *testing.T) {
	g := grammarSums(t)
	f := buildForest(t, parseText(t, g, "id + id + id"))

	c := &counter{counts: make(map[string]int)}
	if err := f.Accept(c); err != nil {
		t.Fatalf("accept: %v", err)
	}
	// each alternative spells out the whole input again
	want := map[string]int{"terminal": 10, "nonterminal": 10, "alternative": 2, "leave": 2}
	for k, n := range want {
		if c.counts[k] != n {
			t.Errorf("%s visits = %d, want %d", k, c.counts[k], n)
		}
	}
}

func TestBuildNotAccepted(t *testing.T) {
	g := grammarSums(t)
	r := parseText(t, g, "id +")
	if _, err := Build(r); !errors.Is(err, parse.ErrNotAccepted) {
		t.Errorf("expected ErrNotAccepted, got %v", err)
	}
}
