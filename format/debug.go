package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/earley/ptree"
)

// DebugEncoder lists every node with its span and production, indented
// by depth.
type DebugEncoder struct {
	ptree.BaseVisitor
	w     io.Writer
	tree  *ptree.Tree
	sb    strings.Builder
	depth int
}

func NewDebugEncoder(w io.Writer) *DebugEncoder {
	return &DebugEncoder{w: w}
}

func (e *DebugEncoder) Encode(tree *ptree.Tree) error {
	e.tree = tree
	text, err := e.MarshalText()
	return write(e.w, text, err)
}

func (e *DebugEncoder) MarshalText() ([]byte, error) {
	e.sb.Reset()
	e.depth = 0
	if err := e.tree.Accept(e); err != nil {
		return nil, err
	}
	return []byte(e.sb.String()), nil
}

func (e *DebugEncoder) line(format string, args ...any) {
	e.sb.WriteString(strings.Repeat("  ", e.depth))
	fmt.Fprintf(&e.sb, format, args...)
	e.sb.WriteByte('\n')
}

func (e *DebugEncoder) VisitTerminal(n *ptree.Node) error {
	e.line("%s %q", n, n.Token.Literal)
	return nil
}

func (e *DebugEncoder) VisitNonTerminal(n *ptree.Node) error {
	e.line("%s %s", n, n.Production)
	e.depth++
	return nil
}

func (e *DebugEncoder) LeaveNonTerminal(*ptree.Node) error {
	e.depth--
	return nil
}
