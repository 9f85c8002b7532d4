package grammar

import (
	"errors"
	"fmt"
)

var (
	ErrNoProductions     = errors.New("grammar has no productions")
	ErrNotRewritten      = errors.New("non-terminal not rewritten")
	ErrInvalidProduction = errors.New("invalid production")
	ErrInvalidItem       = errors.New("invalid dotted item")
	ErrSymbolClash       = errors.New("conflicting symbol declarations")
)

// Grammar is a validated context-free grammar. It is immutable after New
// returns and can be shared by concurrent parses.
type Grammar struct {
	start       *Symbol
	productions []*Production
	symbols     []*Symbol
	byName      map[string]*Symbol
	byLHS       map[*Symbol][]*Production
	nullable    map[*Symbol]bool
}

// New validates productions and builds a grammar. The start symbol is the
// left-hand side of the first production. Terminals that appear in no
// production may be declared through terminals.
func New(productions []*Production, terminals ...*Symbol) (*Grammar, error) {
	if len(productions) == 0 {
		return nil, ErrNoProductions
	}

	g := &Grammar{
		byName: make(map[string]*Symbol),
		byLHS:  make(map[*Symbol][]*Production),
	}

	for _, t := range terminals {
		if t == nil || !t.IsTerminal() {
			return nil, fmt.Errorf("%w: declared terminal %v is not a terminal", ErrInvalidProduction, t)
		}
		if err := g.addSymbol(t); err != nil {
			return nil, err
		}
	}

	for i, p := range productions {
		if p == nil || p.LHS == nil {
			return nil, fmt.Errorf("%w: production #%d has no left-hand side", ErrInvalidProduction, i)
		}
		if !p.LHS.IsNonTerminal() {
			return nil, fmt.Errorf("%w: left-hand side %s of production #%d is a terminal", ErrInvalidProduction, p.LHS.Name, i)
		}
		if err := g.addSymbol(p.LHS); err != nil {
			return nil, err
		}
		for _, sym := range p.RHS {
			if sym == nil {
				return nil, fmt.Errorf("%w: nil symbol in %s", ErrInvalidProduction, p.LHS.Name)
			}
			if err := g.addSymbol(sym); err != nil {
				return nil, err
			}
		}
		g.productions = append(g.productions, p)
		g.byLHS[p.LHS] = append(g.byLHS[p.LHS], p)
	}
	g.start = productions[0].LHS

	for _, sym := range g.symbols {
		if sym.IsNonTerminal() && len(g.byLHS[sym]) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNotRewritten, sym.Name)
		}
	}

	g.computeNullable()
	return g, nil
}

func (g *Grammar) addSymbol(sym *Symbol) error {
	existing, ok := g.byName[sym.Name]
	if !ok {
		g.byName[sym.Name] = sym
		g.symbols = append(g.symbols, sym)
		return nil
	}
	if existing != sym {
		return fmt.Errorf("%w: %s declared as both %s and %s", ErrSymbolClash, sym.Name, existing.Kind, sym.Kind)
	}
	return nil
}

// computeNullable iterates to a fixpoint over the productions.
func (g *Grammar) computeNullable() {
	g.nullable = make(map[*Symbol]bool)
	for changed := true; changed; {
		changed = false
		for _, p := range g.productions {
			if g.nullable[p.LHS] {
				continue
			}
			all := true
			for _, sym := range p.RHS {
				if !g.nullable[sym] {
					all = false
					break
				}
			}
			if all {
				g.nullable[p.LHS] = true
				changed = true
			}
		}
	}
}

func (g *Grammar) Start() *Symbol {
	return g.start
}

func (g *Grammar) Productions() []*Production {
	return g.productions
}

// Symbols returns all symbols in order of first appearance.
func (g *Grammar) Symbols() []*Symbol {
	return g.symbols
}

func (g *Grammar) Symbol(name string) (*Symbol, bool) {
	sym, ok := g.byName[name]
	return sym, ok
}

// ProductionsOf returns the productions whose left-hand side is nt.
func (g *Grammar) ProductionsOf(nt *Symbol) []*Production {
	return g.byLHS[nt]
}

func (g *Grammar) Terminals() []*Symbol {
	var result []*Symbol
	for _, sym := range g.symbols {
		if sym.IsTerminal() {
			result = append(result, sym)
		}
	}
	return result
}

func (g *Grammar) NonTerminals() []*Symbol {
	var result []*Symbol
	for _, sym := range g.symbols {
		if sym.IsNonTerminal() {
			result = append(result, sym)
		}
	}
	return result
}

// IsNullable reports whether sym derives the empty string.
func (g *Grammar) IsNullable(sym *Symbol) bool {
	return g.nullable[sym]
}

// Nullables returns the nullable non-terminals in declaration order.
func (g *Grammar) Nullables() []*Symbol {
	var result []*Symbol
	for _, sym := range g.symbols {
		if g.nullable[sym] {
			result = append(result, sym)
		}
	}
	return result
}

// DottedItems returns every dotted item of every production, in
// production order.
func (g *Grammar) DottedItems() []DottedItem {
	var items []DottedItem
	for _, p := range g.productions {
		items = append(items, ItemsOf(p)...)
	}
	return items
}
