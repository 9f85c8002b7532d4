package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/earley/ptree"
)

// ASCIIEncoder draws the tree with |-- and +-- connectors, one node per
// line.
type ASCIIEncoder struct {
	w    io.Writer
	tree *ptree.Tree
}

func NewASCIIEncoder(w io.Writer) *ASCIIEncoder {
	return &ASCIIEncoder{w: w}
}

func (e *ASCIIEncoder) Encode(tree *ptree.Tree) error {
	e.tree = tree
	text, err := e.MarshalText()
	return write(e.w, text, err)
}

func (e *ASCIIEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	sb.WriteString(asciiLabel(e.tree.Root) + "\n")
	asciiChildren(&sb, e.tree.Root, "")
	return []byte(sb.String()), nil
}

func asciiLabel(n *ptree.Node) string {
	if n.IsTerminal() {
		return fmt.Sprintf("%s: '%s'", n.Symbol.Name, n.Token.Literal)
	}
	return n.Symbol.Name
}

func asciiChildren(sb *strings.Builder, n *ptree.Node, prefix string) {
	for i, c := range n.Children {
		connector, indent := "|-- ", "|   "
		if i == len(n.Children)-1 {
			connector, indent = "+-- ", "    "
		}
		sb.WriteString(prefix + connector + asciiLabel(c) + "\n")
		asciiChildren(sb, c, prefix+indent)
	}
}
