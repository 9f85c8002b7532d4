package grammar

import (
	"fmt"
	"io"
	"os"
	"sort"
	"unicode"
	"unicode/utf8"

	"golang.org/x/exp/ebnf"
)

// LoadEBNFFile reads an EBNF grammar file and converts it with FromEBNF.
func LoadEBNFFile(filename, start string) (*Grammar, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open grammar: %w", err)
	}
	defer f.Close()

	return LoadEBNF(filename, f, start)
}

// LoadEBNF parses an EBNF grammar from r and converts it with FromEBNF.
func LoadEBNF(filename string, r io.Reader, start string) (*Grammar, error) {
	src, err := ebnf.Parse(filename, r)
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	return FromEBNF(src, start)
}

// IsTokenName reports whether an EBNF production name denotes a token kind.
// Token kinds start with an upper-case letter and are defined by the lexer
// grammar, not by the parser grammar.
func IsTokenName(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}

// FromEBNF converts an EBNF grammar into productions rooted at start.
//
// Names of token kinds and names without a production become plain
// terminals, quoted strings become verbatim terminals and character
// ranges become literal terminals. Groups, options and repetitions are
// rewritten into auxiliary non-terminals named after their owner.
func FromEBNF(src ebnf.Grammar, start string) (*Grammar, error) {
	root, ok := src[start]
	if !ok || IsTokenName(start) {
		return nil, fmt.Errorf("start production %q not found in grammar", start)
	}

	names := make([]string, 0, len(src))
	for name := range src {
		if name == start || IsTokenName(name) {
			continue
		}
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return src[names[i]].Pos().Offset < src[names[j]].Pos().Offset
	})
	names = append([]string{root.Name.String}, names...)

	c := &ebnfConverter{
		src:      src,
		builder:  NewBuilder(),
		declared: make(map[string]bool),
		counters: make(map[string]int),
	}
	for _, name := range names {
		if err := c.production(name, src[name].Expr); err != nil {
			return nil, err
		}
	}
	return c.builder.Grammar()
}

type ebnfConverter struct {
	src      ebnf.Grammar
	builder  *Builder
	declared map[string]bool
	counters map[string]int
	pending  []rule
}

func (c *ebnfConverter) production(name string, expr ebnf.Expression) error {
	alts, err := c.alternatives(name, expr)
	if err != nil {
		return err
	}
	for _, alt := range alts {
		c.builder.Rule(name, alt...)
	}
	// auxiliary rules go after their owner so the start symbol stays first
	for len(c.pending) > 0 {
		r := c.pending[0]
		c.pending = c.pending[1:]
		c.builder.Rule(r.lhs, r.rhs...)
	}
	return nil
}

func (c *ebnfConverter) alternatives(owner string, expr ebnf.Expression) ([][]string, error) {
	switch e := expr.(type) {
	case nil:
		return [][]string{{}}, nil
	case ebnf.Alternative:
		var alts [][]string
		for _, alt := range e {
			seq, err := c.sequence(owner, alt)
			if err != nil {
				return nil, err
			}
			alts = append(alts, seq)
		}
		return alts, nil
	default:
		seq, err := c.sequence(owner, e)
		if err != nil {
			return nil, err
		}
		return [][]string{seq}, nil
	}
}

func (c *ebnfConverter) sequence(owner string, expr ebnf.Expression) ([]string, error) {
	seq, ok := expr.(ebnf.Sequence)
	if !ok {
		name, err := c.symbol(owner, expr)
		if err != nil {
			return nil, err
		}
		return []string{name}, nil
	}
	result := make([]string, 0, len(seq))
	for _, item := range seq {
		name, err := c.symbol(owner, item)
		if err != nil {
			return nil, err
		}
		result = append(result, name)
	}
	return result, nil
}

func (c *ebnfConverter) symbol(owner string, expr ebnf.Expression) (string, error) {
	switch e := expr.(type) {
	case *ebnf.Name:
		if _, ok := c.src[e.String]; !ok || IsTokenName(e.String) {
			c.declare(e.String, func() *Symbol { return NewTerminal(e.String) })
		}
		return e.String, nil

	case *ebnf.Token:
		if e.String == "" {
			return "", fmt.Errorf("%s: empty token in production %s", e.Pos(), owner)
		}
		c.declare(e.String, func() *Symbol { return NewVerbatim(e.String) })
		return e.String, nil

	case *ebnf.Range:
		begin, n1 := utf8.DecodeRuneInString(e.Begin.String)
		end, n2 := utf8.DecodeRuneInString(e.End.String)
		if n1 != len(e.Begin.String) || n2 != len(e.End.String) || n1 == 0 || n2 == 0 {
			return "", fmt.Errorf("%s: range bounds must be single characters", e.Pos())
		}
		name := e.Begin.String + "…" + e.End.String
		pattern := fmt.Sprintf(`[\x{%x}-\x{%x}]`, begin, end)
		c.declare(name, func() *Symbol { return MustLiteral(name, pattern) })
		return name, nil

	case *ebnf.Group:
		return c.auxiliary(owner, "grp", e.Body, false, false)

	case *ebnf.Option:
		return c.auxiliary(owner, "opt", e.Body, true, false)

	case *ebnf.Repetition:
		return c.auxiliary(owner, "rep", e.Body, true, true)

	case ebnf.Sequence, ebnf.Alternative:
		return c.auxiliary(owner, "grp", e, false, false)

	case *ebnf.Bad:
		return "", fmt.Errorf("%s: %s", e.Pos(), e.Error)
	}
	return "", fmt.Errorf("%w: unsupported expression %T in %s", ErrInvalidProduction, expr, owner)
}

// auxiliary introduces a fresh non-terminal for a nested expression.
// Repetitions become left-recursive: aux => aux body | ε.
func (c *ebnfConverter) auxiliary(owner, suffix string, body ebnf.Expression, nullable, repeat bool) (string, error) {
	name := c.freshName(owner, suffix)
	alts, err := c.alternatives(owner, body)
	if err != nil {
		return "", err
	}
	for _, alt := range alts {
		if repeat {
			alt = append([]string{name}, alt...)
		}
		c.pending = append(c.pending, rule{lhs: name, rhs: alt})
	}
	if nullable {
		c.pending = append(c.pending, rule{lhs: name})
	}
	return name, nil
}

func (c *ebnfConverter) freshName(owner, suffix string) string {
	for {
		c.counters[owner]++
		name := fmt.Sprintf("%s_%s%d", owner, suffix, c.counters[owner])
		if _, taken := c.src[name]; !taken && !c.declared[name] {
			c.declared[name] = true
			return name
		}
	}
}

func (c *ebnfConverter) declare(name string, build func() *Symbol) {
	if c.declared[name] {
		return
	}
	c.declared[name] = true
	c.builder.AddSymbols(build())
}
