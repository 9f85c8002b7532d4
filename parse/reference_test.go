package parse

import (
	"strings"
	"testing"

	"github.com/dhamidi/earley/grammar"
	"github.com/dhamidi/earley/lex"
)

// span is a non-terminal over tokens [lo, hi).
type span struct {
	sym    *grammar.Symbol
	lo, hi int
}

// reference is a bottom-up recognizer that fills a table of derivable
// spans until nothing changes, and counts derivations for grammars
// without cycles.
type reference struct {
	g      *grammar.Grammar
	tokens []lex.Token
	table  map[span]bool
	counts map[span]int
}

func newReference(g *grammar.Grammar, tokens []lex.Token) *reference {
	ref := &reference{g: g, tokens: tokens, table: make(map[span]bool)}
	n := len(tokens)
	for changed := true; changed; {
		changed = false
		for _, p := range g.Productions() {
			for lo := 0; lo <= n; lo++ {
				for hi := lo; hi <= n; hi++ {
					s := span{p.LHS, lo, hi}
					if !ref.table[s] && ref.matches(p.RHS, lo, hi) {
						ref.table[s] = true
						changed = true
					}
				}
			}
		}
	}
	return ref
}

// matches reports whether rhs derives tokens [lo, hi) with the spans
// known so far.
func (ref *reference) matches(rhs []*grammar.Symbol, lo, hi int) bool {
	reach := map[int]bool{lo: true}
	for _, sym := range rhs {
		next := make(map[int]bool)
		for m := range reach {
			if sym.IsTerminal() {
				if m < hi && ref.tokens[m].Terminal == sym {
					next[m+1] = true
				}
				continue
			}
			for k := m; k <= hi; k++ {
				if ref.table[span{sym, m, k}] {
					next[k] = true
				}
			}
		}
		reach = next
	}
	return reach[hi]
}

func (ref *reference) accepts() bool {
	return ref.table[span{ref.g.Start(), 0, len(ref.tokens)}]
}

// derivations counts the derivation trees of the whole input, stopping
// at two.
func (ref *reference) derivations() int {
	ref.counts = make(map[span]int)
	return ref.count(span{ref.g.Start(), 0, len(ref.tokens)})
}

func (ref *reference) count(s span) int {
	if c, ok := ref.counts[s]; ok {
		return c
	}
	total := 0
	for _, p := range ref.g.ProductionsOf(s.sym) {
		total = min(2, total+ref.sequence(p.RHS, s.lo, s.hi))
	}
	ref.counts[s] = total
	return total
}

func (ref *reference) sequence(rhs []*grammar.Symbol, lo, hi int) int {
	if len(rhs) == 0 {
		if lo == hi {
			return 1
		}
		return 0
	}
	sym, rest := rhs[0], rhs[1:]
	if sym.IsTerminal() {
		if lo < hi && ref.tokens[lo].Terminal == sym {
			return ref.sequence(rest, lo+1, hi)
		}
		return 0
	}
	total := 0
	for m := lo; m <= hi; m++ {
		if !ref.table[span{sym, lo, m}] {
			continue
		}
		tail := ref.sequence(rest, m, hi)
		if tail == 0 {
			continue
		}
		total = min(2, total+ref.count(span{sym, lo, m})*tail)
	}
	return total
}

// sentences returns every sequence of the given words up to length max.
func sentences(words []string, max int) [][]string {
	all := [][]string{nil}
	last := [][]string{nil}
	for n := 1; n <= max; n++ {
		var next [][]string
		for _, s := range last {
			for _, w := range words {
				next = append(next, append(append([]string(nil), s...), w))
			}
		}
		all = append(all, next...)
		last = next
	}
	return all
}

func TestParseMatchesReference(t *testing.T) {
	tests := []struct {
		name    string
		grammar *grammar.Builder
		words   []string
		acyclic bool
	}{
		{
			name: "ambiguous sums",
			grammar: grammar.NewBuilder().
				AddTerminals("+", "id").
				Rule("S", "E").
				Rule("E", "E", "+", "E").
				Rule("E", "id"),
			words:   []string{"id", "+"},
			acyclic: true,
		},
		{
			name: "left recursive",
			grammar: grammar.NewBuilder().
				AddTerminals("a", "b").
				Rule("L", "L", "a").
				Rule("L", "b"),
			words:   []string{"a", "b"},
			acyclic: true,
		},
		{
			name: "right recursive nullable",
			grammar: grammar.NewBuilder().
				AddTerminals("a").
				Rule("R", "a", "R").
				Rule("R"),
			words:   []string{"a"},
			acyclic: true,
		},
		{
			name: "nullable sequence",
			grammar: grammar.NewBuilder().
				AddTerminals("a", "b").
				Rule("S", "A", "B", "A").
				Rule("A", "a").
				Rule("A").
				Rule("B", "b", "B").
				Rule("B"),
			words:   []string{"a", "b"},
			acyclic: true,
		},
		{
			name: "nullable ambiguity",
			grammar: grammar.NewBuilder().
				AddTerminals("a").
				Rule("S", "A", "a").
				Rule("A", "B").
				Rule("A").
				Rule("B"),
			words:   []string{"a"},
			acyclic: true,
		},
		{
			name: "dangling suffix",
			grammar: grammar.NewBuilder().
				AddTerminals("a", "b", "c").
				Rule("S", "a", "S").
				Rule("S", "a", "S", "b").
				Rule("S", "c"),
			words:   []string{"a", "b", "c"},
			acyclic: true,
		},
		{
			name:    "self loop",
			grammar: grammarBuilderCycle(),
			words:   []string{"a"},
		},
		{
			name: "mutual recursion",
			grammar: grammar.NewBuilder().
				AddTerminals("b").
				Rule("S", "A").
				Rule("S", "B").
				Rule("A", "B").
				Rule("B").
				Rule("B", "A", "B", "b").
				Rule("B", "B", "S"),
			words: []string{"b"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := build(t, tt.grammar)
			p, err := NewParser(g)
			if err != nil {
				t.Fatalf("new parser: %v", err)
			}
			for _, words := range sentences(tt.words, 5) {
				tokens := lex.MustTokens(g, words...)
				r := p.Parse(tokens)
				ref := newReference(g, tokens)
				input := strings.Join(words, " ")
				if r.Success() != ref.accepts() {
					t.Errorf("%q: success = %v, want %v", input, r.Success(), ref.accepts())
					continue
				}
				if !tt.acyclic || !r.Success() {
					continue
				}
				if want := ref.derivations() > 1; r.Ambiguous() != want {
					t.Errorf("%q: ambiguous = %v, want %v", input, r.Ambiguous(), want)
				}
			}
		})
	}
}
