package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/earley/ptree"
)

type JSONEncoder struct {
	w    io.Writer
	tree *ptree.Tree
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(tree *ptree.Tree) error {
	e.tree = tree
	text, err := e.MarshalText()
	return write(e.w, append(text, '\n'), err)
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	return json.MarshalIndent(nodeToJSON(e.tree.Root), "", "  ")
}

type jsonNode struct {
	Symbol     string      `json:"symbol"`
	Kind       string      `json:"kind"`
	Range      [2]int      `json:"range"`
	Production string      `json:"production,omitempty"`
	Literal    string      `json:"literal,omitempty"`
	Position   string      `json:"position,omitempty"`
	Children   []*jsonNode `json:"children,omitempty"`
}

func nodeToJSON(n *ptree.Node) *jsonNode {
	data := &jsonNode{
		Symbol: n.Symbol.Name,
		Kind:   n.Kind.String(),
		Range:  [2]int{n.Range.Low, n.Range.High},
	}
	if n.IsTerminal() {
		data.Literal = n.Token.Literal
		if n.Token.Position.Line > 0 {
			data.Position = n.Token.Position.String()
		}
		return data
	}
	if n.Production != nil {
		data.Production = n.Production.String()
	}
	for _, c := range n.Children {
		data.Children = append(data.Children, nodeToJSON(c))
	}
	return data
}
