package ptree

import (
	"github.com/dhamidi/earley/grammar"
	"github.com/dhamidi/earley/lex"
	"github.com/dhamidi/earley/parse"
)

// Build reconstructs the parse tree of a successful parse, following the
// first derivation recorded for every entry. Sub-trees reached more than
// once are copied, so the tree never shares nodes.
func Build(r *parse.Result, opts ...parse.WalkOption) (*Tree, error) {
	if !r.Success() {
		return nil, parse.ErrNotAccepted
	}
	b := &builder{
		tokens: r.Tokens(),
		built:  make(map[parse.Ref]*Node),
	}
	if err := parse.Walk(r, b.event, opts...); err != nil {
		return nil, err
	}
	if b.root == nil || len(b.stack) != 0 {
		return nil, parse.Internalf(r.AcceptingRef(), "walk ended without a complete tree")
	}
	return &Tree{Root: b.root, Tokens: r.Tokens()}, nil
}

// pending is a non-terminal node whose children are still being filled,
// right to left.
type pending struct {
	node *Node
	ref  parse.Ref
}

type builder struct {
	tokens []lex.Token
	stack  []*pending
	built  map[parse.Ref]*Node
	root   *Node
}

func (b *builder) event(ev parse.Event) error {
	e := ev.Entry
	switch {
	case e.IsStart():
		return nil

	case e.IsEnd():
		if ev.Kind == parse.Revisit {
			node, ok := b.built[ev.Ref]
			if !ok {
				return parse.Internalf(ev.Ref, "revisit of %s before it was built", e)
			}
			return b.attach(ev.Ref, node.clone())
		}
		b.stack = append(b.stack, &pending{
			node: &Node{
				Kind:   KindNonTerminal,
				Symbol: e.Vertex.NonTerminal,
				Range:  lex.Range{Low: e.Origin, High: ev.Index},
			},
			ref: ev.Ref,
		})
		return nil

	default:
		if ev.Kind == parse.Revisit {
			return parse.Internalf(ev.Ref, "tree walk forked at %s", e)
		}
		return b.item(ev, e)
	}
}

func (b *builder) item(ev parse.Event, e *parse.Entry) error {
	if len(b.stack) == 0 {
		return parse.Internalf(ev.Ref, "item %s outside of any non-terminal", e)
	}
	top := b.stack[len(b.stack)-1]
	item := e.Vertex.Item

	if item.IsReduce() {
		if top.node.Symbol != item.LHS() {
			return parse.Internalf(ev.Ref, "%s does not derive %s", top.node.Symbol.Name, item)
		}
		if top.node.Production != nil {
			return parse.Internalf(ev.Ref, "second derivation for %s", top.node)
		}
		top.node.Production = item.Production
		top.node.Children = make([]*Node, len(item.Production.RHS))
	}

	if prev := item.PrevSymbol(); prev != nil && prev.IsTerminal() {
		if err := b.leaf(ev, top, prev, item); err != nil {
			return err
		}
	}

	if item.IsPredicted() {
		b.stack = b.stack[:len(b.stack)-1]
		b.built[top.ref] = top.node
		if len(b.stack) == 0 {
			b.root = top.node
			return nil
		}
		return b.attach(ev.Ref, top.node)
	}
	return nil
}

func (b *builder) leaf(ev parse.Event, top *pending, sym *grammar.Symbol, item grammar.DottedItem) error {
	slot := item.PrevPosition()
	if top.node.Children == nil || slot >= len(top.node.Children) || top.node.Children[slot] != nil {
		return parse.Internalf(ev.Ref, "no free slot %d in %s", slot, top.node)
	}
	if ev.Index < 1 || ev.Index > len(b.tokens) {
		return parse.Internalf(ev.Ref, "no token before position %d", ev.Index)
	}
	tok := b.tokens[ev.Index-1]
	top.node.Children[slot] = &Node{
		Kind:   KindTerminal,
		Symbol: sym,
		Token:  &tok,
		Range:  lex.Range{Low: ev.Index - 1, High: ev.Index},
	}
	return nil
}

// attach puts node in the right-most empty slot of the node on top of
// the stack.
func (b *builder) attach(ref parse.Ref, node *Node) error {
	if len(b.stack) == 0 {
		return parse.Internalf(ref, "no parent for %s", node)
	}
	parent := b.stack[len(b.stack)-1].node
	for i := len(parent.Children) - 1; i >= 0; i-- {
		if parent.Children[i] != nil {
			continue
		}
		if want := parent.Production.RHS[i]; want != node.Symbol {
			return parse.Internalf(ref, "%s placed where %s is expected in %s", node, want.Name, parent)
		}
		parent.Children[i] = node
		return nil
	}
	return parse.Internalf(ref, "no free slot for %s in %s", node, parent)
}
