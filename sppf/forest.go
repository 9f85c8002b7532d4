// Package sppf builds shared packed parse forests: every derivation of a
// successful parse in one graph, with common sub-derivations shared and
// ambiguous spans packed under alternative nodes.
package sppf

import (
	"fmt"
	"sort"

	"github.com/dhamidi/earley/grammar"
	"github.com/dhamidi/earley/lex"
)

// NodeKind identifies the type of forest node.
type NodeKind int

const (
	KindToken NodeKind = iota
	KindNonTerminal
	KindAlternative
	KindEpsilon
)

var nodeKindNames = map[NodeKind]string{
	KindToken:       "Token",
	KindNonTerminal: "NonTerminal",
	KindAlternative: "Alternative",
	KindEpsilon:     "Epsilon",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Node is a forest node.
//
// A non-terminal node with a single derivation holds that derivation's
// children directly. One with several derivations holds one alternative
// node per derivation, each carrying the production it applies.
type Node struct {
	Kind       NodeKind
	Symbol     *grammar.Symbol     // token and non-terminal nodes
	Production *grammar.Production // alternative nodes, unambiguous non-terminals
	Token      *lex.Token          // token nodes
	Children   []*Node
	Range      lex.Range

	key string
}

func (n *Node) IsAmbiguous() bool {
	return n.Kind == KindNonTerminal && len(n.Children) > 0 && n.Children[0].Kind == KindAlternative
}

// Key identifies the node within its forest.
func (n *Node) Key() string {
	return n.key
}

func (n *Node) String() string {
	return n.key
}

func span(r lex.Range) string {
	return fmt.Sprintf("[%d, %d]", r.Low, r.High)
}

func newToken(sym *grammar.Symbol, tok lex.Token, index int) *Node {
	r := lex.Range{Low: index, High: index + 1}
	return &Node{
		Kind:   KindToken,
		Symbol: sym,
		Token:  &tok,
		Range:  r,
		key:    sym.Name + span(r),
	}
}

func newNonTerminal(sym *grammar.Symbol, r lex.Range) *Node {
	return &Node{
		Kind:   KindNonTerminal,
		Symbol: sym,
		Range:  r,
		key:    sym.Name + span(r),
	}
}

func newAlternative(parent *Node, p *grammar.Production, children []*Node, i int) *Node {
	return &Node{
		Kind:       KindAlternative,
		Symbol:     parent.Symbol,
		Production: p,
		Children:   children,
		Range:      parent.Range,
		key:        fmt.Sprintf("Alt(%s .)%s#%d", p, span(parent.Range), i),
	}
}

func newEpsilon(index int) *Node {
	r := lex.Range{Low: index, High: index}
	return &Node{
		Kind:  KindEpsilon,
		Range: r,
		key:   "_" + span(r),
	}
}

// Forest is the result of Build.
type Forest struct {
	Root      *Node
	Tokens    []lex.Token
	nodes     map[string]*Node
	ambiguous bool
}

func newForest(tokens []lex.Token) *Forest {
	return &Forest{Tokens: tokens, nodes: make(map[string]*Node)}
}

func (f *Forest) register(n *Node) {
	if _, ok := f.nodes[n.key]; !ok {
		f.nodes[n.key] = n
	}
	for _, c := range n.Children {
		if c.Kind == KindAlternative {
			f.register(c)
		}
	}
}

// Ambiguous reports whether some node of the forest has more than one
// derivation.
func (f *Forest) Ambiguous() bool {
	return f.ambiguous
}

// Include reports whether a node with the given key is part of the forest.
func (f *Forest) Include(key string) bool {
	_, ok := f.nodes[key]
	return ok
}

// Node looks up a node by key.
func (f *Forest) Node(key string) (*Node, bool) {
	n, ok := f.nodes[key]
	return n, ok
}

// Keys returns the keys of all nodes, sorted.
func (f *Forest) Keys() []string {
	keys := make([]string, 0, len(f.nodes))
	for k := range f.nodes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len is the number of distinct nodes in the forest.
func (f *Forest) Len() int {
	return len(f.nodes)
}

// Visitor receives the nodes of a forest depth-first, left to right.
// Shared nodes are visited once per reference.
type Visitor interface {
	StartVisit(f *Forest) error
	VisitTerminal(n *Node) error
	VisitEpsilon(n *Node) error
	VisitNonTerminal(n *Node) error
	LeaveNonTerminal(n *Node) error
	VisitAlternative(n *Node) error
	LeaveAlternative(n *Node) error
	EndVisit(f *Forest) error
}

// BaseVisitor implements Visitor with methods that do nothing.
type BaseVisitor struct{}

func (BaseVisitor) StartVisit(*Forest) error     { return nil }
func (BaseVisitor) VisitTerminal(*Node) error    { return nil }
func (BaseVisitor) VisitEpsilon(*Node) error     { return nil }
func (BaseVisitor) VisitNonTerminal(*Node) error { return nil }
func (BaseVisitor) LeaveNonTerminal(*Node) error { return nil }
func (BaseVisitor) VisitAlternative(*Node) error { return nil }
func (BaseVisitor) LeaveAlternative(*Node) error { return nil }
func (BaseVisitor) EndVisit(*Forest) error       { return nil }

// Accept walks the forest with v, stopping at the first error.
func (f *Forest) Accept(v Visitor) error {
	if err := v.StartVisit(f); err != nil {
		return err
	}
	if err := accept(f.Root, v); err != nil {
		return err
	}
	return v.EndVisit(f)
}

func accept(n *Node, v Visitor) error {
	var leave func(*Node) error
	switch n.Kind {
	case KindToken:
		return v.VisitTerminal(n)
	case KindEpsilon:
		return v.VisitEpsilon(n)
	case KindAlternative:
		if err := v.VisitAlternative(n); err != nil {
			return err
		}
		leave = v.LeaveAlternative
	default:
		if err := v.VisitNonTerminal(n); err != nil {
			return err
		}
		leave = v.LeaveNonTerminal
	}
	for _, c := range n.Children {
		if err := accept(c, v); err != nil {
			return err
		}
	}
	return leave(n)
}
