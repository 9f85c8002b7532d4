package format

import (
	"io"
	"strings"

	"github.com/dhamidi/earley/ptree"
)

// BracketEncoder writes labelled bracket notation:
// [S [A [a a] [A [b b]] [c c]]].
type BracketEncoder struct {
	ptree.BaseVisitor
	w    io.Writer
	tree *ptree.Tree
	sb   strings.Builder
}

func NewBracketEncoder(w io.Writer) *BracketEncoder {
	return &BracketEncoder{w: w}
}

func (e *BracketEncoder) Encode(tree *ptree.Tree) error {
	e.tree = tree
	text, err := e.MarshalText()
	return write(e.w, append(text, '\n'), err)
}

func (e *BracketEncoder) MarshalText() ([]byte, error) {
	e.sb.Reset()
	if err := e.tree.Accept(e); err != nil {
		return nil, err
	}
	return []byte(e.sb.String()), nil
}

func (e *BracketEncoder) separate() {
	if e.sb.Len() > 0 {
		e.sb.WriteByte(' ')
	}
}

func (e *BracketEncoder) VisitTerminal(n *ptree.Node) error {
	e.separate()
	e.sb.WriteString("[" + n.Symbol.Name + " " + n.Token.Literal + "]")
	return nil
}

func (e *BracketEncoder) VisitNonTerminal(n *ptree.Node) error {
	e.separate()
	e.sb.WriteString("[" + n.Symbol.Name)
	return nil
}

func (e *BracketEncoder) LeaveNonTerminal(*ptree.Node) error {
	e.sb.WriteByte(']')
	return nil
}
