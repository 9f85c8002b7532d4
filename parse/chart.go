package parse

import (
	"fmt"
	"strings"

	"github.com/dhamidi/earley/gfg"
	"github.com/dhamidi/earley/grammar"
	"github.com/dhamidi/earley/lex"
)

type entryKey struct {
	vertex gfg.VertexID
	origin int
}

// EntrySet holds the entries reached after consuming Index tokens, in the
// order they were added.
type EntrySet struct {
	Index   int
	entries []*Entry
	byKey   map[entryKey]int
	byNext  map[*grammar.Symbol][]int
}

func newEntrySet(index int) *EntrySet {
	return &EntrySet{
		Index:  index,
		byKey:  make(map[entryKey]int),
		byNext: make(map[*grammar.Symbol][]int),
	}
}

func (s *EntrySet) Len() int {
	return len(s.entries)
}

func (s *EntrySet) Entries() []*Entry {
	return s.entries
}

func (s *EntrySet) Entry(i int) *Entry {
	return s.entries[i]
}

// Find returns the index of the entry for vertex v with the given origin.
func (s *EntrySet) Find(v gfg.VertexID, origin int) (int, bool) {
	i, ok := s.byKey[entryKey{vertex: v, origin: origin}]
	return i, ok
}

// Expecting returns the indexes of the item entries whose dot precedes sym.
func (s *EntrySet) Expecting(sym *grammar.Symbol) []int {
	return s.byNext[sym]
}

// ExpectedTerminals returns the terminals that entries of this set
// expect next, in order of first appearance.
func (s *EntrySet) ExpectedTerminals() []*grammar.Symbol {
	var result []*grammar.Symbol
	seen := make(map[*grammar.Symbol]bool)
	for _, e := range s.entries {
		next := e.Vertex.NextSymbol()
		if next == nil || !next.IsTerminal() || seen[next] {
			continue
		}
		seen[next] = true
		result = append(result, next)
	}
	return result
}

// add inserts the entry (v, origin) caused by ante. An existing entry only
// gains the antecedent.
func (s *EntrySet) add(v *gfg.Vertex, origin int, ante Ref) (int, bool) {
	key := entryKey{vertex: v.ID, origin: origin}
	if i, ok := s.byKey[key]; ok {
		s.entries[i].addAntecedent(ante)
		return i, false
	}
	e := &Entry{Vertex: v, Origin: origin}
	e.addAntecedent(ante)
	i := len(s.entries)
	s.entries = append(s.entries, e)
	s.byKey[key] = i
	if next := v.NextSymbol(); next != nil {
		s.byNext[next] = append(s.byNext[next], i)
	}
	return i, true
}

// Lines renders every entry on its own line.
func (s *EntrySet) Lines() []string {
	lines := make([]string, len(s.entries))
	for i, e := range s.entries {
		lines[i] = e.String()
	}
	return lines
}

// Chart is the sequence of entry sets built by a parse, one per token
// boundary.
type Chart struct {
	graph  *gfg.Graph
	tokens []lex.Token
	sets   []*EntrySet
}

func newChart(graph *gfg.Graph, tokens []lex.Token) *Chart {
	c := &Chart{graph: graph, tokens: tokens, sets: make([]*EntrySet, len(tokens)+1)}
	for i := range c.sets {
		c.sets[i] = newEntrySet(i)
	}
	return c
}

func (c *Chart) Graph() *gfg.Graph {
	return c.graph
}

func (c *Chart) Tokens() []lex.Token {
	return c.tokens
}

// Len returns the number of entry sets, one more than the number of tokens.
func (c *Chart) Len() int {
	return len(c.sets)
}

func (c *Chart) Set(i int) *EntrySet {
	return c.sets[i]
}

func (c *Chart) Sets() []*EntrySet {
	return c.sets
}

// Entry returns the entry ref points to, or nil.
func (c *Chart) Entry(ref Ref) *Entry {
	if ref.Set < 0 || ref.Set >= len(c.sets) {
		return nil
	}
	s := c.sets[ref.Set]
	if ref.Index < 0 || ref.Index >= len(s.entries) {
		return nil
	}
	return s.entries[ref.Index]
}

// Caller finds the item entry that called the derivation ending in end
// and continued into item. The caller sits in the set where end began,
// one dot position before item, with the same origin as item.
func (c *Chart) Caller(item, end Ref) (Ref, bool) {
	x := c.Entry(item)
	e := c.Entry(end)
	if x == nil || e == nil || x.Vertex.Prev == gfg.NoVertex {
		return NoRef, false
	}
	i, ok := c.sets[e.Origin].Find(x.Vertex.Prev, x.Origin)
	if !ok {
		return NoRef, false
	}
	return Ref{Set: e.Origin, Index: i}, true
}

// StartOf finds the start entry that opened the derivation ending in end.
func (c *Chart) StartOf(end Ref) (Ref, bool) {
	e := c.Entry(end)
	if e == nil {
		return NoRef, false
	}
	v := c.graph.StartVertex(e.Vertex.NonTerminal)
	if v == nil {
		return NoRef, false
	}
	i, ok := c.sets[e.Origin].Find(v.ID, e.Origin)
	if !ok {
		return NoRef, false
	}
	return Ref{Set: e.Origin, Index: i}, true
}

// String dumps every entry set with the token that follows it.
func (c *Chart) String() string {
	var sb strings.Builder
	for i, s := range c.sets {
		fmt.Fprintf(&sb, "State[%d]", i)
		if i < len(c.tokens) {
			fmt.Fprintf(&sb, " before %q", c.tokens[i].Literal)
		}
		sb.WriteString("\n")
		for _, line := range s.Lines() {
			sb.WriteString("  ")
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
