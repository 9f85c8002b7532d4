// Package parse implements an Earley recognizer driven by a Grammar Flow
// Graph, the parse result it produces and a walker that replays the
// derivations recorded in the chart.
package parse

import (
	"fmt"

	"github.com/dhamidi/earley/gfg"
)

// Ref addresses an entry by entry set and index within that set.
type Ref struct {
	Set   int
	Index int
}

// NoRef is the zero value for a missing reference.
var NoRef = Ref{Set: -1, Index: -1}

func (r Ref) String() string {
	return fmt.Sprintf("%d:%d", r.Set, r.Index)
}

// Entry is a GFG vertex reached in an entry set, with the set where the
// enclosing derivation began. Antecedents list the entries that caused it.
type Entry struct {
	Vertex      *gfg.Vertex
	Origin      int
	Antecedents []Ref
}

func (e *Entry) IsStart() bool {
	return e.Vertex.Kind == gfg.KindStart
}

func (e *Entry) IsEnd() bool {
	return e.Vertex.Kind == gfg.KindEnd
}

func (e *Entry) IsItem() bool {
	return e.Vertex.Kind == gfg.KindItem
}

// IsEntryItem reports whether the dot is at the start of the production.
func (e *Entry) IsEntryItem() bool {
	return e.Vertex.IsEntry()
}

// IsExitItem reports whether the dot is at the end of the production.
func (e *Entry) IsExitItem() bool {
	return e.Vertex.IsExit()
}

// IsAmbiguous reports whether more than one derivation leads to this
// entry. Start entries reached from several callers are not ambiguous.
func (e *Entry) IsAmbiguous() bool {
	return !e.IsStart() && len(e.Antecedents) > 1
}

// String renders the entry as "A => a . A c | 0", ".A | 0" or "A. | 0".
func (e *Entry) String() string {
	return fmt.Sprintf("%s | %d", e.Vertex.Label(), e.Origin)
}

func (e *Entry) addAntecedent(ref Ref) {
	if ref == NoRef {
		return
	}
	for _, a := range e.Antecedents {
		if a == ref {
			return
		}
	}
	e.Antecedents = append(e.Antecedents, ref)
}
