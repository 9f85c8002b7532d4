package grammar

import (
	"fmt"
	"strings"
)

// DottedItem is a production with a dot marking how much of its
// right-hand side has been matched. Items compare by value.
type DottedItem struct {
	Production *Production
	Position   int
}

// NewDottedItem validates the dot position against the production.
func NewDottedItem(p *Production, pos int) (DottedItem, error) {
	if p == nil {
		return DottedItem{}, fmt.Errorf("%w: nil production", ErrInvalidItem)
	}
	if pos < 0 || pos > len(p.RHS) {
		return DottedItem{}, fmt.Errorf("%w: position %d out of range for %s", ErrInvalidItem, pos, p)
	}
	return DottedItem{Production: p, Position: pos}, nil
}

// ItemsOf returns every dotted item of p, dot positions 0 through len(rhs).
func ItemsOf(p *Production) []DottedItem {
	items := make([]DottedItem, 0, len(p.RHS)+1)
	for pos := 0; pos <= len(p.RHS); pos++ {
		items = append(items, DottedItem{Production: p, Position: pos})
	}
	return items
}

func (d DottedItem) LHS() *Symbol {
	return d.Production.LHS
}

// IsPredicted reports whether the dot is at the start of the RHS.
func (d DottedItem) IsPredicted() bool {
	return d.Position == 0
}

// IsReduce reports whether the whole RHS has been matched.
func (d DottedItem) IsReduce() bool {
	return d.Position == len(d.Production.RHS)
}

// NextSymbol is the symbol right after the dot, nil for reduce items.
func (d DottedItem) NextSymbol() *Symbol {
	if d.IsReduce() {
		return nil
	}
	return d.Production.RHS[d.Position]
}

// PrevSymbol is the symbol right before the dot, nil for predicted items.
func (d DottedItem) PrevSymbol() *Symbol {
	if d.Position == 0 {
		return nil
	}
	return d.Production.RHS[d.Position-1]
}

// PrevPosition is the RHS index of PrevSymbol, -1 for predicted items.
func (d DottedItem) PrevPosition() int {
	return d.Position - 1
}

func (d DottedItem) String() string {
	parts := make([]string, 0, len(d.Production.RHS)+1)
	for i, sym := range d.Production.RHS {
		if i == d.Position {
			parts = append(parts, ".")
		}
		parts = append(parts, sym.String())
	}
	if d.IsReduce() {
		parts = append(parts, ".")
	}
	return d.Production.LHS.Name + " => " + strings.Join(parts, " ")
}
