package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/earley/sppf"
)

// ForestTextEncoder lists forest nodes by key, indented by depth. A node
// reached again is printed once more with "..." and not expanded.
type ForestTextEncoder struct {
	sppf.BaseVisitor
	w      io.Writer
	forest *sppf.Forest
	sb     strings.Builder
	depth  int
	seen   map[*sppf.Node]bool
	skip   int
}

func NewForestTextEncoder(w io.Writer) *ForestTextEncoder {
	return &ForestTextEncoder{w: w}
}

func (e *ForestTextEncoder) Encode(forest *sppf.Forest) error {
	e.forest = forest
	text, err := e.MarshalText()
	return write(e.w, text, err)
}

func (e *ForestTextEncoder) MarshalText() ([]byte, error) {
	e.sb.Reset()
	e.depth = 0
	e.skip = 0
	e.seen = make(map[*sppf.Node]bool)
	if err := e.forest.Accept(e); err != nil {
		return nil, err
	}
	return []byte(e.sb.String()), nil
}

func (e *ForestTextEncoder) line(format string, args ...any) {
	if e.skip > 0 {
		return
	}
	e.sb.WriteString(strings.Repeat("  ", e.depth))
	fmt.Fprintf(&e.sb, format, args...)
	e.sb.WriteByte('\n')
}

func (e *ForestTextEncoder) StartVisit(f *sppf.Forest) error {
	if f.Ambiguous() {
		e.line("# ambiguous")
	}
	return nil
}

func (e *ForestTextEncoder) VisitTerminal(n *sppf.Node) error {
	e.line("%s %q", n.Key(), n.Token.Literal)
	return nil
}

func (e *ForestTextEncoder) VisitEpsilon(n *sppf.Node) error {
	e.line("%s", n.Key())
	return nil
}

func (e *ForestTextEncoder) VisitNonTerminal(n *sppf.Node) error {
	switch {
	case e.skip > 0:
		e.skip++
	case e.seen[n]:
		e.line("%s ...", n.Key())
		e.skip = 1
	default:
		e.seen[n] = true
		e.line("%s", n.Key())
		e.depth++
	}
	return nil
}

func (e *ForestTextEncoder) LeaveNonTerminal(*sppf.Node) error {
	if e.skip > 0 {
		e.skip--
		return nil
	}
	e.depth--
	return nil
}

func (e *ForestTextEncoder) VisitAlternative(n *sppf.Node) error {
	e.line("%s", n.Key())
	if e.skip == 0 {
		e.depth++
	}
	return nil
}

func (e *ForestTextEncoder) LeaveAlternative(*sppf.Node) error {
	if e.skip == 0 {
		e.depth--
	}
	return nil
}
