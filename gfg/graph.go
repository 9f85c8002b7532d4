package gfg

import (
	"bufio"
	"fmt"
	"io"

	"github.com/dhamidi/earley/grammar"
)

// Graph is the Grammar Flow Graph of a grammar. It is immutable after
// Build returns and safe for concurrent use.
type Graph struct {
	grammar  *grammar.Grammar
	vertices []Vertex
	start    map[*grammar.Symbol]VertexID
	end      map[*grammar.Symbol]VertexID
	items    map[grammar.DottedItem]VertexID
}

// Build compiles g into its flow graph.
func Build(g *grammar.Grammar) (*Graph, error) {
	if g == nil {
		return nil, fmt.Errorf("build graph: %w", grammar.ErrNoProductions)
	}

	gr := &Graph{
		grammar: g,
		start:   make(map[*grammar.Symbol]VertexID),
		end:     make(map[*grammar.Symbol]VertexID),
		items:   make(map[grammar.DottedItem]VertexID),
	}

	for _, nt := range g.NonTerminals() {
		gr.start[nt] = gr.add(Vertex{Kind: KindStart, NonTerminal: nt})
		gr.end[nt] = gr.add(Vertex{Kind: KindEnd, NonTerminal: nt})
	}

	for _, p := range g.Productions() {
		prev := NoVertex
		for _, item := range grammar.ItemsOf(p) {
			id := gr.add(Vertex{Kind: KindItem, NonTerminal: p.LHS, Item: item, Prev: prev})
			gr.items[item] = id
			if prev != NoVertex {
				gr.vertices[prev].Next = id
			}
			prev = id
		}
	}

	for _, p := range g.Productions() {
		for _, item := range grammar.ItemsOf(p) {
			id := gr.items[item]
			v := &gr.vertices[id]

			if item.IsPredicted() {
				s := gr.start[p.LHS]
				gr.vertices[s].Edges = append(gr.vertices[s].Edges, Edge{Kind: EdgeEntry, To: id})
			}
			if item.IsReduce() {
				v.Edges = append(v.Edges, Edge{Kind: EdgeExit, To: gr.end[p.LHS]})
				continue
			}

			next := item.NextSymbol()
			if next.IsTerminal() {
				v.Edges = append(v.Edges, Edge{Kind: EdgeScan, To: v.Next})
				continue
			}
			v.Edges = append(v.Edges, Edge{Kind: EdgeCall, To: gr.start[next]})
			e := gr.end[next]
			gr.vertices[e].Edges = append(gr.vertices[e].Edges, Edge{Kind: EdgeReturn, To: v.Next})
		}
	}

	return gr, nil
}

func (gr *Graph) add(v Vertex) VertexID {
	v.ID = VertexID(len(gr.vertices))
	if v.Kind != KindItem {
		v.Prev = NoVertex
	}
	v.Next = NoVertex
	gr.vertices = append(gr.vertices, v)
	return v.ID
}

func (gr *Graph) Grammar() *grammar.Grammar {
	return gr.grammar
}

// Len returns the number of vertices.
func (gr *Graph) Len() int {
	return len(gr.vertices)
}

// Vertex returns the vertex with the given id, or nil if it is out of range.
func (gr *Graph) Vertex(id VertexID) *Vertex {
	if id < 0 || int(id) >= len(gr.vertices) {
		return nil
	}
	return &gr.vertices[id]
}

// StartVertex returns Start(nt), or nil if nt is not a non-terminal of the grammar.
func (gr *Graph) StartVertex(nt *grammar.Symbol) *Vertex {
	id, ok := gr.start[nt]
	if !ok {
		return nil
	}
	return &gr.vertices[id]
}

// EndVertex returns End(nt), or nil if nt is not a non-terminal of the grammar.
func (gr *Graph) EndVertex(nt *grammar.Symbol) *Vertex {
	id, ok := gr.end[nt]
	if !ok {
		return nil
	}
	return &gr.vertices[id]
}

// ItemVertex returns the vertex for item, or nil if the item is not part
// of the grammar.
func (gr *Graph) ItemVertex(item grammar.DottedItem) *Vertex {
	id, ok := gr.items[item]
	if !ok {
		return nil
	}
	return &gr.vertices[id]
}

// Successors returns the targets of the edges of v with the given kind.
func (gr *Graph) Successors(v *Vertex, kind EdgeKind) []*Vertex {
	var result []*Vertex
	for _, e := range v.Edges {
		if e.Kind == kind {
			result = append(result, &gr.vertices[e.To])
		}
	}
	return result
}

// WriteDot writes the graph in Graphviz DOT format.
func (gr *Graph) WriteDot(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "digraph gfg {")
	fmt.Fprintln(bw, "  rankdir=TB;")
	for i := range gr.vertices {
		v := &gr.vertices[i]
		shape := "box"
		if v.Kind != KindItem {
			shape = "circle"
		}
		fmt.Fprintf(bw, "  v%d [label=%q shape=%s];\n", v.ID, v.Label(), shape)
	}
	for i := range gr.vertices {
		v := &gr.vertices[i]
		for _, e := range v.Edges {
			label := e.Kind.String()
			if e.Kind == EdgeScan {
				label = v.NextSymbol().String()
			}
			style := ""
			if e.Kind == EdgeCall || e.Kind == EdgeReturn {
				style = " style=dashed"
			}
			fmt.Fprintf(bw, "  v%d -> v%d [label=%q%s];\n", v.ID, e.To, label, style)
		}
	}
	fmt.Fprintln(bw, "}")
	return bw.Flush()
}
