package grammar

import "strings"

// Production rewrites its left-hand side into the sequence RHS.
// An empty RHS makes the production nullable.
type Production struct {
	LHS *Symbol
	RHS []*Symbol
}

func NewProduction(lhs *Symbol, rhs ...*Symbol) *Production {
	return &Production{LHS: lhs, RHS: rhs}
}

func (p *Production) IsEmpty() bool {
	return len(p.RHS) == 0
}

func (p *Production) String() string {
	var sb strings.Builder
	sb.WriteString(p.LHS.Name)
	sb.WriteString(" =>")
	for _, sym := range p.RHS {
		sb.WriteByte(' ')
		sb.WriteString(sym.String())
	}
	return sb.String()
}
