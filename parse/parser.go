package parse

import (
	"fmt"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/earley/gfg"
	"github.com/dhamidi/earley/grammar"
	"github.com/dhamidi/earley/lex"
)

// Parser recognizes token sequences of a grammar. A Parser holds no
// per-parse state and may be used by several goroutines at once.
type Parser struct {
	grammar *grammar.Grammar
	graph   *gfg.Graph
	log     commonlog.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger receiving debug traces of the chart.
func WithLogger(log commonlog.Logger) Option {
	return func(p *Parser) {
		p.log = log
	}
}

// WithGraph reuses an already built flow graph of the grammar.
func WithGraph(graph *gfg.Graph) Option {
	return func(p *Parser) {
		p.graph = graph
	}
}

// NewParser creates a parser for g.
func NewParser(g *grammar.Grammar, opts ...Option) (*Parser, error) {
	if g == nil {
		return nil, fmt.Errorf("create parser: %w", grammar.ErrNoProductions)
	}
	p := &Parser{
		grammar: g,
		log:     commonlog.GetLogger("earley.parse"),
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.graph == nil {
		graph, err := gfg.Build(g)
		if err != nil {
			return nil, fmt.Errorf("create parser: %w", err)
		}
		p.graph = graph
	} else if p.graph.Grammar() != g {
		return nil, fmt.Errorf("create parser: flow graph belongs to another grammar")
	}
	return p, nil
}

// Parse is a shortcut for NewParser(g).Parse(tokens).
func Parse(g *grammar.Grammar, tokens []lex.Token) (*Result, error) {
	p, err := NewParser(g)
	if err != nil {
		return nil, err
	}
	return p.Parse(tokens), nil
}

func (p *Parser) Grammar() *grammar.Grammar {
	return p.grammar
}

func (p *Parser) Graph() *gfg.Graph {
	return p.graph
}

// Parse builds the chart for tokens. Every entry set is completed with a
// FIFO worklist before the next token is scanned. Tokens are matched to
// terminals by name.
func (p *Parser) Parse(tokens []lex.Token) *Result {
	chart := newChart(p.graph, tokens)
	r := &Result{grammar: p.grammar, chart: chart, accept: NoRef}

	start := p.graph.StartVertex(p.grammar.Start())
	chart.sets[0].add(start, 0, NoRef)
	p.trace(0, chart.sets[0].entries[0], "initialization")

	n := len(tokens)
	for i := 0; i <= n; i++ {
		set := chart.sets[i]
		for k := 0; k < len(set.entries); k++ {
			p.process(chart, i, k)
		}
		if i == n {
			break
		}
		if !p.scan(chart, i) {
			tok := tokens[i]
			r.failure = &SyntaxError{
				Expected: terminalNames(set.ExpectedTerminals()),
				Found:    &tok,
				Position: i + 1,
				Index:    i,
			}
			p.log.Debugf("%s", r.failure)
			return r
		}
	}

	end := p.graph.EndVertex(p.grammar.Start())
	if k, ok := chart.sets[n].Find(end.ID, 0); ok {
		r.accept = Ref{Set: n, Index: k}
		r.ambiguous = r.computeAmbiguity()
		return r
	}

	r.failure = &SyntaxError{
		Expected: terminalNames(chart.sets[n].ExpectedTerminals()),
		Position: n + 1,
		Index:    n,
	}
	p.log.Debugf("%s", r.failure)
	return r
}

// process applies the start, call, exit and end rules to entry k of set i.
func (p *Parser) process(chart *Chart, i, k int) {
	set := chart.sets[i]
	e := set.entries[k]
	v := e.Vertex
	ref := Ref{Set: i, Index: k}

	switch v.Kind {
	case gfg.KindStart:
		for _, item := range p.graph.Successors(v, gfg.EdgeEntry) {
			p.add(set, item, e.Origin, ref, "start")
		}

	case gfg.KindEnd:
		origin := chart.sets[e.Origin]
		for _, c := range origin.Expecting(v.NonTerminal) {
			caller := origin.entries[c]
			p.add(set, p.graph.Vertex(caller.Vertex.Next), caller.Origin, ref, "end")
		}

	case gfg.KindItem:
		if v.IsExit() {
			p.add(set, p.graph.EndVertex(v.NonTerminal), e.Origin, ref, "exit")
			return
		}
		next := v.NextSymbol()
		if next.IsTerminal() {
			return
		}
		p.add(set, p.graph.StartVertex(next), i, ref, "call")
		// next already derived the empty string in this set
		if j, ok := set.Find(p.graph.EndVertex(next).ID, i); ok {
			p.add(set, p.graph.Vertex(v.Next), e.Origin, Ref{Set: i, Index: j}, "end")
		}
	}
}

// scan advances every entry of set i expecting the terminal of token i.
func (p *Parser) scan(chart *Chart, i int) bool {
	tok := chart.tokens[i]
	if tok.Terminal == nil {
		return false
	}
	sym, ok := p.grammar.Symbol(tok.Terminal.Name)
	if !ok || !sym.IsTerminal() {
		return false
	}

	set := chart.sets[i]
	next := chart.sets[i+1]
	expecting := set.Expecting(sym)
	for _, k := range expecting {
		e := set.entries[k]
		p.add(next, p.graph.Vertex(e.Vertex.Next), e.Origin, Ref{Set: i, Index: k}, "scan")
	}
	return len(expecting) > 0
}

func (p *Parser) add(set *EntrySet, v *gfg.Vertex, origin int, ante Ref, rule string) {
	k, added := set.add(v, origin, ante)
	if added {
		p.trace(set.Index, set.entries[k], rule)
	}
}

func (p *Parser) trace(set int, e *Entry, rule string) {
	if p.log.AllowLevel(commonlog.Debug) {
		p.log.Debugf("set %d: %s (%s rule)", set, e, rule)
	}
}

func terminalNames(syms []*grammar.Symbol) []string {
	names := make([]string, len(syms))
	for i, sym := range syms {
		names[i] = sym.Name
	}
	return names
}
