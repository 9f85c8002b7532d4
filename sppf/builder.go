package sppf

import (
	"github.com/dhamidi/earley/grammar"
	"github.com/dhamidi/earley/lex"
	"github.com/dhamidi/earley/parse"
)

// Option configures Build.
type Option func(*config)

type config struct {
	epsilon bool
	replay  bool
}

// WithEpsilonNodes gives every empty derivation an epsilon child.
func WithEpsilonNodes() Option {
	return func(c *config) {
		c.epsilon = true
	}
}

// WithReplayShared rebuilds a sub-derivation each time it is reached
// instead of sharing the node built the first time.
func WithReplayShared() Option {
	return func(c *config) {
		c.replay = true
	}
}

// Build constructs the parse forest of a successful parse.
//
// The walk first records, for every end entry, each derivation with its
// children as tokens or other end entries. Derivations are then pruned
// so that the forest is acyclic: a node is kept only if it has a finite
// derivation, and a derivation whose child can derive the node again is
// kept only if that child is strictly shallower.
func Build(r *parse.Result, opts ...Option) (*Forest, error) {
	if !r.Success() {
		return nil, parse.ErrNotAccepted
	}
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	b := &builder{
		config:  cfg,
		tokens:  r.Tokens(),
		forest:  newForest(r.Tokens()),
		records: make(map[parse.Ref]*record),
		nodes:   make(map[parse.Ref]*Node),
		leaves:  make(map[string]*Node),
	}

	walk := []parse.WalkOption{parse.AllAlternatives()}
	if cfg.replay {
		walk = append(walk, parse.ReplayShared())
	}
	if err := parse.Walk(r, b.event, walk...); err != nil {
		return nil, err
	}
	if !b.accepted || len(b.frames) != 0 {
		return nil, parse.Internalf(r.AcceptingRef(), "walk ended without a complete forest")
	}
	if err := b.check(); err != nil {
		return nil, err
	}

	b.component = b.components()
	b.rank = b.ranks()
	if _, ok := b.rank[b.root]; !ok {
		return nil, parse.Internalf(b.root, "no acyclic derivation for %s", b.records[b.root])
	}
	b.forest.Root = b.node(b.root)
	return b.forest, nil
}

// part is one child of a derivation: the token at a rank for terminals,
// the node of an end entry for non-terminals.
type part struct {
	symbol *grammar.Symbol
	token  int
	ref    parse.Ref
}

// derivation collects the children of one alternative, right to left.
type derivation struct {
	production *grammar.Production
	parts      []*part
}

func (d *derivation) copy() *derivation {
	c := *d
	c.parts = append([]*part(nil), d.parts...)
	return &c
}

// record holds every derivation of the non-terminal of one end entry.
type record struct {
	symbol      *grammar.Symbol
	span        lex.Range
	derivations []*derivation
}

func (r *record) String() string {
	return r.symbol.Name + span(r.span)
}

// frame is a record under construction.
type frame struct {
	ref     parse.Ref
	rec     *record
	current *derivation
}

// snapshot is the state of a derivation at an item with several
// antecedents, restored when the walk comes back to that item.
type snapshot struct {
	ref   parse.Ref
	depth int
	state *derivation
}

type builder struct {
	config
	tokens    []lex.Token
	forest    *Forest
	frames    []*frame
	snapshots []snapshot

	records  map[parse.Ref]*record
	order    []parse.Ref
	root     parse.Ref
	accepted bool

	component map[parse.Ref]int
	rank      map[parse.Ref]int
	nodes     map[parse.Ref]*Node
	leaves    map[string]*Node
}

func (b *builder) top() *frame {
	if len(b.frames) == 0 {
		return nil
	}
	return b.frames[len(b.frames)-1]
}

func (b *builder) event(ev parse.Event) error {
	e := ev.Entry
	switch {
	case e.IsStart():
		return b.close(ev)
	case e.IsEnd():
		if ev.Kind == parse.Revisit {
			return b.revisitEnd(ev)
		}
		b.frames = append(b.frames, &frame{
			ref: ev.Ref,
			rec: &record{
				symbol: e.Vertex.NonTerminal,
				span:   lex.Range{Low: e.Origin, High: ev.Index},
			},
		})
		return nil
	case ev.Kind == parse.Revisit:
		return b.restore(ev)
	default:
		return b.item(ev, e)
	}
}

func (b *builder) item(ev parse.Event, e *parse.Entry) error {
	top := b.top()
	if top == nil {
		return parse.Internalf(ev.Ref, "item %s outside of any non-terminal", e)
	}
	item := e.Vertex.Item

	if item.IsReduce() {
		if top.rec.symbol != item.LHS() {
			return parse.Internalf(ev.Ref, "%s does not derive %s", top.rec.symbol.Name, item)
		}
		if top.current != nil {
			return parse.Internalf(ev.Ref, "derivation of %s left unfinished", top.rec)
		}
		top.current = &derivation{
			production: item.Production,
			parts:      make([]*part, len(item.Production.RHS)),
		}
	}
	if top.current == nil {
		return parse.Internalf(ev.Ref, "item %s outside of any derivation", e)
	}

	if prev := item.PrevSymbol(); prev != nil {
		if prev.IsTerminal() {
			if err := b.token(ev, top.current, prev, item.PrevPosition()); err != nil {
				return err
			}
		} else {
			for i := 1; i < len(e.Antecedents); i++ {
				b.snapshots = append(b.snapshots, snapshot{
					ref:   ev.Ref,
					depth: len(b.frames),
					state: top.current.copy(),
				})
			}
		}
	}

	if item.IsPredicted() {
		top.rec.derivations = append(top.rec.derivations, top.current)
		top.current = nil
	}
	return nil
}

func (b *builder) token(ev parse.Event, d *derivation, sym *grammar.Symbol, slot int) error {
	if slot >= len(d.parts) || d.parts[slot] != nil {
		return parse.Internalf(ev.Ref, "no free slot %d for %s", slot, sym.Name)
	}
	if ev.Index < 1 || ev.Index > len(b.tokens) {
		return parse.Internalf(ev.Ref, "no token before position %d", ev.Index)
	}
	d.parts[slot] = &part{symbol: sym, token: ev.Index - 1}
	return nil
}

// restore resumes the derivation saved when the item was first visited.
func (b *builder) restore(ev parse.Event) error {
	if len(b.snapshots) == 0 {
		return parse.Internalf(ev.Ref, "no saved derivation for %s", ev.Entry)
	}
	s := b.snapshots[len(b.snapshots)-1]
	b.snapshots = b.snapshots[:len(b.snapshots)-1]
	if s.ref != ev.Ref || s.depth != len(b.frames) {
		return parse.Internalf(ev.Ref, "saved derivation belongs to %s", s.ref)
	}
	top := b.top()
	if top.current != nil {
		return parse.Internalf(ev.Ref, "derivation of %s left unfinished", top.rec)
	}
	top.current = s.state
	return nil
}

// revisitEnd refers to an end entry that is finished or still open.
func (b *builder) revisitEnd(ev parse.Event) error {
	top := b.top()
	if top == nil || top.current == nil {
		return parse.Internalf(ev.Ref, "revisit of %s outside of any derivation", ev.Entry)
	}
	return b.attach(ev.Ref, top.current, &part{symbol: ev.Entry.Vertex.NonTerminal, ref: ev.Ref})
}

// close finishes the record on top of the frame stack.
func (b *builder) close(ev parse.Event) error {
	top := b.top()
	if top == nil {
		return parse.Internalf(ev.Ref, "start entry %s closes nothing", ev.Entry)
	}
	if top.current != nil {
		return parse.Internalf(ev.Ref, "derivation of %s left unfinished", top.rec)
	}
	b.frames = b.frames[:len(b.frames)-1]

	// a replayed entry derives the same alternatives again
	if _, ok := b.records[top.ref]; !ok {
		b.records[top.ref] = top.rec
		b.order = append(b.order, top.ref)
	}

	parent := b.top()
	if parent == nil {
		b.root = top.ref
		b.accepted = true
		return nil
	}
	if parent.current == nil {
		return parse.Internalf(top.ref, "no derivation to receive %s", top.rec)
	}
	return b.attach(top.ref, parent.current, &part{symbol: top.rec.symbol, ref: top.ref})
}

// attach puts p in the right-most empty slot of d.
func (b *builder) attach(ref parse.Ref, d *derivation, p *part) error {
	for i := len(d.parts) - 1; i >= 0; i-- {
		if d.parts[i] != nil {
			continue
		}
		if want := d.production.RHS[i]; want != p.symbol {
			return parse.Internalf(ref, "%s placed where %s is expected", p.symbol.Name, want.Name)
		}
		d.parts[i] = p
		return nil
	}
	return parse.Internalf(ref, "no free slot for %s in %s", p.symbol.Name, d.production)
}

// check makes sure every derivation is complete and refers to recorded
// entries only.
func (b *builder) check() error {
	for _, ref := range b.order {
		for _, d := range b.records[ref].derivations {
			for i, p := range d.parts {
				if p == nil {
					return parse.Internalf(ref, "slot %d of %s left empty", i, d.production)
				}
				if p.symbol.IsNonTerminal() && b.records[p.ref] == nil {
					return parse.Internalf(p.ref, "%s is never finished", p.symbol.Name)
				}
			}
		}
	}
	return nil
}

// components numbers the strongly connected components of the graph of
// records, with an edge from each record to the records its derivations
// use.
func (b *builder) components() map[parse.Ref]int {
	var (
		index   = make(map[parse.Ref]int)
		low     = make(map[parse.Ref]int)
		onStack = make(map[parse.Ref]bool)
		comp    = make(map[parse.Ref]int)
		stack   []parse.Ref
		visit   func(v parse.Ref)
	)
	visit = func(v parse.Ref) {
		index[v] = len(index)
		low[v] = index[v]
		stack = append(stack, v)
		onStack[v] = true
		for _, d := range b.records[v].derivations {
			for _, p := range d.parts {
				if p.symbol.IsTerminal() {
					continue
				}
				if _, seen := index[p.ref]; !seen {
					visit(p.ref)
					low[v] = min(low[v], low[p.ref])
				} else if onStack[p.ref] {
					low[v] = min(low[v], index[p.ref])
				}
			}
		}
		if low[v] != index[v] {
			return
		}
		id := len(comp)
		for {
			w := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[w] = false
			comp[w] = id
			if w == v {
				break
			}
		}
	}
	for _, ref := range b.order {
		if _, seen := index[ref]; !seen {
			visit(ref)
		}
	}
	return comp
}

// ranks computes the height of the shallowest derivation tree of every
// record. Records without a finite derivation get no rank.
func (b *builder) ranks() map[parse.Ref]int {
	rank := make(map[parse.Ref]int)
	for changed := true; changed; {
		changed = false
		for _, ref := range b.order {
			for _, d := range b.records[ref].derivations {
				h, ok := height(d, rank)
				if !ok {
					continue
				}
				if old, ranked := rank[ref]; !ranked || h+1 < old {
					rank[ref] = h + 1
					changed = true
				}
			}
		}
	}
	return rank
}

// height is the largest rank among the non-terminal children of d.
func height(d *derivation, rank map[parse.Ref]int) (int, bool) {
	h := 0
	for _, p := range d.parts {
		if p.symbol.IsTerminal() {
			continue
		}
		r, ok := rank[p.ref]
		if !ok {
			return 0, false
		}
		h = max(h, r)
	}
	return h, true
}

// keep reports whether derivation d of ref belongs to the forest.
func (b *builder) keep(ref parse.Ref, d *derivation) bool {
	for _, p := range d.parts {
		if p.symbol.IsTerminal() {
			continue
		}
		r, ok := b.rank[p.ref]
		if !ok {
			return false
		}
		if b.component[p.ref] == b.component[ref] && r >= b.rank[ref] {
			return false
		}
	}
	return true
}

// node builds the forest node of ref from its kept derivations.
func (b *builder) node(ref parse.Ref) *Node {
	if n, ok := b.nodes[ref]; ok && !b.replay {
		return n
	}
	rec := b.records[ref]
	n := newNonTerminal(rec.symbol, rec.span)

	var kept []*derivation
	var children [][]*Node
	for _, d := range rec.derivations {
		if !b.keep(ref, d) {
			continue
		}
		c := make([]*Node, len(d.parts))
		for i, p := range d.parts {
			if p.symbol.IsTerminal() {
				c[i] = b.leaf(p.symbol, p.token)
			} else {
				c[i] = b.node(p.ref)
			}
		}
		if len(c) == 0 && b.epsilon {
			c = []*Node{b.epsilonAt(rec.span.Low)}
		}
		kept = append(kept, d)
		children = append(children, c)
	}

	if len(kept) == 1 {
		n.Production = kept[0].production
		n.Children = children[0]
	} else {
		for i, d := range kept {
			n.Children = append(n.Children, newAlternative(n, d.production, children[i], i))
		}
		b.forest.ambiguous = true
	}
	b.nodes[ref] = n
	b.forest.register(n)
	return n
}

func (b *builder) leaf(sym *grammar.Symbol, index int) *Node {
	key := sym.Name + span(lex.Range{Low: index, High: index + 1})
	n, ok := b.leaves[key]
	if !ok || b.replay {
		n = newToken(sym, b.tokens[index], index)
		b.leaves[key] = n
		b.forest.register(n)
	}
	return n
}

func (b *builder) epsilonAt(index int) *Node {
	key := "_" + span(lex.Range{Low: index, High: index})
	n, ok := b.leaves[key]
	if !ok || b.replay {
		n = newEpsilon(index)
		b.leaves[key] = n
		b.forest.register(n)
	}
	return n
}
