// Package gfg compiles a grammar into a Grammar Flow Graph: start and end
// vertices per non-terminal and one item vertex per dotted item, linked by
// entry, call, scan, exit and return edges.
package gfg

import "github.com/dhamidi/earley/grammar"

// VertexID addresses a vertex in the graph arena.
type VertexID int

// NoVertex marks a missing neighbour.
const NoVertex VertexID = -1

// Kind identifies the type of vertex.
type Kind int

const (
	KindStart Kind = iota
	KindEnd
	KindItem
)

var kindNames = map[Kind]string{
	KindStart: "Start",
	KindEnd:   "End",
	KindItem:  "Item",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// EdgeKind identifies the type of edge.
type EdgeKind int

const (
	EdgeEntry  EdgeKind = iota // Start(N) -> entry item of N
	EdgeCall                   // item before M -> Start(M)
	EdgeScan                   // item -> item across a terminal
	EdgeExit                   // exit item of N -> End(N)
	EdgeReturn                 // End(M) -> item after M
)

var edgeKindNames = map[EdgeKind]string{
	EdgeEntry:  "entry",
	EdgeCall:   "call",
	EdgeScan:   "scan",
	EdgeExit:   "exit",
	EdgeReturn: "return",
}

func (k EdgeKind) String() string {
	if name, ok := edgeKindNames[k]; ok {
		return name
	}
	return "unknown"
}

type Edge struct {
	Kind EdgeKind
	To   VertexID
}

// Vertex is a node of the flow graph. NonTerminal is the symbol a start or
// end vertex stands for, or the left-hand side of an item vertex.
type Vertex struct {
	ID          VertexID
	Kind        Kind
	NonTerminal *grammar.Symbol
	Item        grammar.DottedItem // item vertices only
	Edges       []Edge

	// Neighbouring items in the same production, NoVertex at either end.
	Next VertexID
	Prev VertexID
}

// IsEntry reports whether v is an item vertex with the dot at position 0.
func (v *Vertex) IsEntry() bool {
	return v.Kind == KindItem && v.Item.IsPredicted()
}

// IsExit reports whether v is an item vertex with the dot at the end.
func (v *Vertex) IsExit() bool {
	return v.Kind == KindItem && v.Item.IsReduce()
}

// NextSymbol is the symbol after the dot of an item vertex.
func (v *Vertex) NextSymbol() *grammar.Symbol {
	if v.Kind != KindItem {
		return nil
	}
	return v.Item.NextSymbol()
}

// PrevSymbol is the symbol before the dot of an item vertex.
func (v *Vertex) PrevSymbol() *grammar.Symbol {
	if v.Kind != KindItem {
		return nil
	}
	return v.Item.PrevSymbol()
}

// Label renders ".N" for start vertices, "N." for end vertices and the
// dotted item for item vertices.
func (v *Vertex) Label() string {
	switch v.Kind {
	case KindStart:
		return "." + v.NonTerminal.Name
	case KindEnd:
		return v.NonTerminal.Name + "."
	default:
		return v.Item.String()
	}
}

func (v *Vertex) String() string {
	return v.Label()
}
