// Package ptree holds concrete parse trees built from a successful parse.
package ptree

import (
	"fmt"

	"github.com/dhamidi/earley/grammar"
	"github.com/dhamidi/earley/lex"
)

// NodeKind identifies the type of tree node.
type NodeKind int

const (
	KindTerminal NodeKind = iota
	KindNonTerminal
)

var nodeKindNames = map[NodeKind]string{
	KindTerminal:    "Terminal",
	KindNonTerminal: "NonTerminal",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Node is a node of a parse tree. Terminal nodes carry the token they
// were built from; non-terminal nodes carry the production applied and
// one child per right-hand side symbol.
type Node struct {
	Kind       NodeKind
	Symbol     *grammar.Symbol
	Production *grammar.Production // non-terminals only
	Token      *lex.Token          // terminals only
	Children   []*Node
	Range      lex.Range // token ranks covered, [Low, High)
}

func (n *Node) IsTerminal() bool {
	return n.Kind == KindTerminal
}

// Text returns the token literal of a terminal node, or the literals of
// all leaves below a non-terminal node joined by spaces.
func (n *Node) Text() string {
	if n.IsTerminal() {
		return n.Token.Literal
	}
	text := ""
	for _, leaf := range n.Leaves() {
		if text != "" {
			text += " "
		}
		text += leaf.Token.Literal
	}
	return text
}

// Leaves returns the terminal nodes below n from left to right.
func (n *Node) Leaves() []*Node {
	if n.IsTerminal() {
		return []*Node{n}
	}
	var leaves []*Node
	for _, c := range n.Children {
		leaves = append(leaves, c.Leaves()...)
	}
	return leaves
}

func (n *Node) String() string {
	return fmt.Sprintf("%s[%d, %d]", n.Symbol.Name, n.Range.Low, n.Range.High)
}

func (n *Node) clone() *Node {
	c := *n
	if n.Token != nil {
		tok := *n.Token
		c.Token = &tok
	}
	if n.Children != nil {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.clone()
		}
	}
	return &c
}

// Tree is a parse tree over a token sequence.
type Tree struct {
	Root   *Node
	Tokens []lex.Token
}

// Visitor receives the nodes of a tree in depth-first, left-to-right order.
type Visitor interface {
	StartVisit(t *Tree) error
	VisitTerminal(n *Node) error
	VisitNonTerminal(n *Node) error
	LeaveNonTerminal(n *Node) error
	EndVisit(t *Tree) error
}

// BaseVisitor implements Visitor with methods that do nothing.
type BaseVisitor struct{}

func (BaseVisitor) StartVisit(*Tree) error       { return nil }
func (BaseVisitor) VisitTerminal(*Node) error    { return nil }
func (BaseVisitor) VisitNonTerminal(*Node) error { return nil }
func (BaseVisitor) LeaveNonTerminal(*Node) error { return nil }
func (BaseVisitor) EndVisit(*Tree) error         { return nil }

// Accept walks the tree with v, stopping at the first error.
func (t *Tree) Accept(v Visitor) error {
	if err := v.StartVisit(t); err != nil {
		return err
	}
	if err := accept(t.Root, v); err != nil {
		return err
	}
	return v.EndVisit(t)
}

func accept(n *Node, v Visitor) error {
	if n.IsTerminal() {
		return v.VisitTerminal(n)
	}
	if err := v.VisitNonTerminal(n); err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := accept(c, v); err != nil {
			return err
		}
	}
	return v.LeaveNonTerminal(n)
}
