package parse

import (
	"github.com/dhamidi/earley/grammar"
	"github.com/dhamidi/earley/lex"
)

// Result is the outcome of a parse: the chart and, on success, the entry
// accepting the whole input.
type Result struct {
	grammar   *grammar.Grammar
	chart     *Chart
	accept    Ref
	failure   *SyntaxError
	ambiguous bool
}

func (r *Result) Success() bool {
	return r.failure == nil && r.accept != NoRef
}

// FailureReason returns the syntax error of a failed parse, nil on success.
func (r *Result) FailureReason() *SyntaxError {
	return r.failure
}

// Err returns the syntax error of a failed parse as an error value.
func (r *Result) Err() error {
	if r.failure == nil {
		return nil
	}
	return r.failure
}

func (r *Result) Grammar() *grammar.Grammar {
	return r.grammar
}

func (r *Result) Chart() *Chart {
	return r.chart
}

func (r *Result) Tokens() []lex.Token {
	return r.chart.tokens
}

// AcceptingEntry returns End(start) with origin 0 in the last entry set,
// or nil when the parse failed.
func (r *Result) AcceptingEntry() *Entry {
	if !r.Success() {
		return nil
	}
	return r.chart.Entry(r.accept)
}

// AcceptingRef returns the position of AcceptingEntry, NoRef on failure.
func (r *Result) AcceptingRef() Ref {
	return r.accept
}

// Ambiguous reports whether the input has more than one derivation.
func (r *Result) Ambiguous() bool {
	return r.ambiguous
}

// computeAmbiguity walks backward from the accepting entry through
// antecedents and callers. Entries unreachable from it never count.
func (r *Result) computeAmbiguity() bool {
	seen := map[Ref]bool{r.accept: true}
	stack := []Ref{r.accept}
	push := func(ref Ref) {
		if !seen[ref] {
			seen[ref] = true
			stack = append(stack, ref)
		}
	}

	for len(stack) > 0 {
		ref := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		e := r.chart.Entry(ref)
		if e.IsStart() {
			continue
		}
		if e.IsAmbiguous() {
			return true
		}
		for _, a := range e.Antecedents {
			push(a)
			if e.IsItem() && !e.IsEntryItem() && e.Vertex.PrevSymbol().IsNonTerminal() {
				if c, ok := r.chart.Caller(ref, a); ok {
					push(c)
				}
			}
		}
	}
	return false
}
