package grammar

import "fmt"

type rule struct {
	lhs string
	rhs []string
}

// Builder assembles a grammar step by step. Symbols named in rules that
// were not declared as terminals become non-terminals.
//
//	b := grammar.NewBuilder()
//	b.AddTerminals("a", "b", "c")
//	b.Rule("S", "A")
//	b.Rule("A", "a", "A", "c")
//	b.Rule("A", "b")
//	g, err := b.Grammar()
type Builder struct {
	terminals []*Symbol
	byName    map[string]*Symbol
	rules     []rule
	err       error
}

func NewBuilder() *Builder {
	return &Builder{byName: make(map[string]*Symbol)}
}

// AddTerminals declares plain terminals matched by name.
func (b *Builder) AddTerminals(names ...string) *Builder {
	for _, name := range names {
		b.AddSymbols(NewTerminal(name))
	}
	return b
}

// AddVerbatim declares terminals matching their exact text.
func (b *Builder) AddVerbatim(texts ...string) *Builder {
	for _, text := range texts {
		b.AddSymbols(NewVerbatim(text))
	}
	return b
}

// AddLiteral declares a terminal matching pattern.
func (b *Builder) AddLiteral(name, pattern string) *Builder {
	sym, err := NewLiteral(name, pattern)
	if err != nil {
		b.setErr(err)
		return b
	}
	return b.AddSymbols(sym)
}

// AddSymbols declares already constructed terminal symbols.
func (b *Builder) AddSymbols(syms ...*Symbol) *Builder {
	for _, sym := range syms {
		if !sym.IsTerminal() {
			b.setErr(fmt.Errorf("%w: %s is not a terminal", ErrInvalidProduction, sym.Name))
			continue
		}
		if _, ok := b.byName[sym.Name]; ok {
			b.setErr(fmt.Errorf("%w: terminal %s declared twice", ErrSymbolClash, sym.Name))
			continue
		}
		b.byName[sym.Name] = sym
		b.terminals = append(b.terminals, sym)
	}
	return b
}

// Rule adds the production lhs => rhs. An empty rhs adds a nullable production.
func (b *Builder) Rule(lhs string, rhs ...string) *Builder {
	b.rules = append(b.rules, rule{lhs: lhs, rhs: append([]string(nil), rhs...)})
	return b
}

// Symbol returns the symbol resolved for name so far, or nil.
func (b *Builder) Symbol(name string) *Symbol {
	return b.byName[name]
}

// Grammar resolves symbol names and validates the result.
func (b *Builder) Grammar() (*Grammar, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.rules) == 0 {
		return nil, ErrNoProductions
	}

	productions := make([]*Production, 0, len(b.rules))
	for _, r := range b.rules {
		lhs := b.nonTerminal(r.lhs)
		if lhs.IsTerminal() {
			return nil, fmt.Errorf("%w: terminal %s used as left-hand side", ErrInvalidProduction, r.lhs)
		}
		rhs := make([]*Symbol, len(r.rhs))
		for i, name := range r.rhs {
			rhs[i] = b.nonTerminal(name)
		}
		productions = append(productions, NewProduction(lhs, rhs...))
	}

	return New(productions, b.terminals...)
}

// nonTerminal returns the declared symbol for name, creating a
// non-terminal on first use.
func (b *Builder) nonTerminal(name string) *Symbol {
	if sym, ok := b.byName[name]; ok {
		return sym
	}
	sym := NewNonTerminal(name)
	b.byName[name] = sym
	return sym
}

func (b *Builder) setErr(err error) {
	if b.err == nil {
		b.err = err
	}
}
